package validate

import "strings"

const (
	StepKeyMinLength = 1
	StepKeyMaxLength = 64
)

// StepKey validates checklist step identifiers used in claim templates.
// Any printable text is accepted, "Upload receipt" included, surrounding
// whitespace does not count towards the length
func StepKey(stepKey string) error {
	return do(
		strings.TrimSpace(stepKey),
		andS(
			hasMinLength(StepKeyMinLength),
			hasMaxLength(StepKeyMaxLength),
		),
		isPrintable(),
	)
}
