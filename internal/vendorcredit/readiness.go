package vendorcredit

import "slices"

type fieldChecker func(c Case) bool

func isNonEmpty(value *string) bool {
	return value != nil && *value != ""
}

var readinessFieldCheckers = map[string]fieldChecker{
	"serialNumber":       func(c Case) bool { return isNonEmpty(c.SerialNumber) },
	"sku":                func(c Case) bool { return isNonEmpty(c.Sku) },
	"unitCost":           func(c Case) bool { return c.UnitCost != nil },
	"qty":                func(c Case) bool { return c.Qty > 0 },
	"expectedCredit":     func(c Case) bool { return c.ExpectedCredit != nil },
	"failureDescription": func(c Case) bool { return isNonEmpty(c.CustomerReturnReason) },
}

var evidenceTypeByField = map[string]EvidenceType{
	"receipt": EvidenceTypeReceipt,
	"photo":   EvidenceTypePhoto,
	"invoice": EvidenceTypeInvoice,
}

type ReadinessInput struct {
	RequiredFieldKeys        []string
	Case                     Case
	EvidenceTypes            []EvidenceType
	RequiredChecklistPending int
}

type Readiness struct {
	Ok                    bool     `json:"ok"`
	MissingFields         []string `json:"missingFields"`
	MissingEvidence       []string `json:"missingEvidence"`
	MissingChecklistSteps int      `json:"missingChecklistSteps"`
}

// CheckReadiness decides whether a case can move to READY_TO_SUBMIT.
// Keys without a checker or an evidence mapping are ignored
func CheckReadiness(input ReadinessInput) Readiness {
	output := Readiness{
		MissingFields:         []string{},
		MissingEvidence:       []string{},
		MissingChecklistSteps: input.RequiredChecklistPending,
	}
	for _, key := range input.RequiredFieldKeys {
		if checker, ok := readinessFieldCheckers[key]; ok && !checker(input.Case) {
			output.MissingFields = append(output.MissingFields, key)
		}
		if evidenceType, ok := evidenceTypeByField[key]; ok && !slices.Contains(input.EvidenceTypes, evidenceType) {
			output.MissingEvidence = append(output.MissingEvidence, string(evidenceType))
		}
	}
	output.Ok = len(output.MissingFields) == 0 &&
		len(output.MissingEvidence) == 0 &&
		input.RequiredChecklistPending == 0
	return output
}

// PendingRequiredSteps counts the required checklist items that are
// not completed yet
func PendingRequiredSteps(items []ChecklistItem) int {
	pending := 0
	for _, item := range items {
		if item.Required && !item.IsCompleted() {
			pending++
		}
	}
	return pending
}
