package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/filters"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

const caseColumns = `cases.id, cases.org_id, cases.vendor_id, vendors.name, cases.template_id, cases.status, cases.purchase_date, cases.return_date, cases.receipt_id, cases.sku, cases.upc, cases.brand, cases.model, cases.serial_number, cases.qty, cases.unit_cost, cases.expected_credit, cases.actual_credit, cases.customer_return_reason, cases.internal_notes, cases.due_date, cases.created_by, cases.created_at, cases.updated_at`

const (
	CaseCreatedMessage  = "Case created"
	CaseUpdatedMessage  = "Case details updated"
	CaseStatusMessage   = "Status changed to %s"
	CaseBulkMessage     = "Bulk status updated to %s"
	ChecklistDoneFormat = "Completed checklist step: %s"
	ChecklistOpenFormat = "Reopened checklist step: %s"
)

func scanCase(row rowScanner) (*vendorcredit.Case, error) {
	var c vendorcredit.Case
	var templateId, receiptId, sku, upc, brand, model, serialNumber, reason, notes, createdBy sql.NullString
	var purchaseDate, returnDate, dueDate sql.NullTime
	var unitCost, expectedCredit, actualCredit sql.NullFloat64
	if err := row.Scan(
		&c.Id,
		&c.OrgId,
		&c.VendorId,
		&c.VendorName,
		&templateId,
		&c.Status,
		&purchaseDate,
		&returnDate,
		&receiptId,
		&sku,
		&upc,
		&brand,
		&model,
		&serialNumber,
		&c.Qty,
		&unitCost,
		&expectedCredit,
		&actualCredit,
		&reason,
		&notes,
		&dueDate,
		&createdBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	c.TemplateId = nullStringPtr(templateId)
	c.PurchaseDate = nullTimePtr(purchaseDate)
	c.ReturnDate = nullTimePtr(returnDate)
	c.ReceiptId = nullStringPtr(receiptId)
	c.Sku = nullStringPtr(sku)
	c.Upc = nullStringPtr(upc)
	c.Brand = nullStringPtr(brand)
	c.Model = nullStringPtr(model)
	c.SerialNumber = nullStringPtr(serialNumber)
	c.UnitCost = nullFloatPtr(unitCost)
	c.ExpectedCredit = nullFloatPtr(expectedCredit)
	c.ActualCredit = nullFloatPtr(actualCredit)
	c.CustomerReturnReason = nullStringPtr(reason)
	c.InternalNotes = nullStringPtr(notes)
	c.DueDate = nullTimePtr(dueDate)
	c.CreatedBy = nullStringPtr(createdBy)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func selectCases(ctx context.Context, db Db, fnSource, where string, args ...any) ([]vendorcredit.Case, error) {
	cases := []vendorcredit.Case{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM cases JOIN vendors ON vendors.id = cases.vendor_id WHERE %s`, caseColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			c, err := scanCase(r)
			if err != nil {
				return err
			}
			cases = append(cases, *c)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return cases, nil
}

func getCase(ctx context.Context, db Db, fnSource, orgId, id string, forUpdate bool) (*vendorcredit.Case, error) {
	where := `cases.org_id = ? AND cases.id = ?`
	if forUpdate {
		where += ` FOR UPDATE`
	}
	cases, err := selectCases(ctx, db, fnSource, where, orgId, id)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("%s: case[%s]: %w", fnSource, id, ErrorNotFound)
	}
	return &cases[0], nil
}

type ListCasesV1Opts struct {
	Db Db

	OrgId    string
	Status   *vendorcredit.CaseStatus
	VendorId *string
	// Query matches sku, receipt id or brand
	Query string
	// Start and End bound created_at, both inclusive
	Start *time.Time
	End   *time.Time
	// OpenOnly restricts the result to open statuses
	OpenOnly bool
	// OrderByCreated sorts by creation instead of last update
	OrderByCreated bool
}

func ListCasesV1(ctx context.Context, opts ListCasesV1Opts) ([]vendorcredit.Case, error) {
	clauses := []string{`cases.org_id = ?`}
	args := []any{opts.OrgId}
	if opts.Status != nil {
		clauses = append(clauses, `cases.status = ?`)
		args = append(args, string(*opts.Status))
	}
	if opts.VendorId != nil {
		clauses = append(clauses, `cases.vendor_id = ?`)
		args = append(args, *opts.VendorId)
	}
	if query := strings.TrimSpace(opts.Query); query != "" {
		like := "%" + filters.EscapeLike(query) + "%"
		clauses = append(clauses, `(cases.sku LIKE ? OR cases.receipt_id LIKE ? OR cases.brand LIKE ?)`)
		args = append(args, like, like, like)
	}
	if opts.Start != nil {
		clauses = append(clauses, `cases.created_at >= ?`)
		args = append(args, opts.Start.UTC())
	}
	if opts.End != nil {
		clauses = append(clauses, `cases.created_at <= ?`)
		args = append(args, opts.End.UTC())
	}
	if opts.OpenOnly {
		open := vendorcredit.OpenStatuses()
		clauses = append(clauses, `cases.status IN (`+placeholders(len(open))+`)`)
		for _, status := range open {
			args = append(args, string(status))
		}
	}
	order := ` ORDER BY cases.updated_at DESC`
	if opts.OrderByCreated {
		order = ` ORDER BY cases.created_at DESC`
	}
	return selectCases(ctx, opts.Db, "models.ListCasesV1", strings.Join(clauses, " AND ")+order, args...)
}

type GetCaseV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetCaseV1(ctx context.Context, opts GetCaseV1Opts) (*vendorcredit.Case, error) {
	return getCase(ctx, opts.Db, "models.GetCaseV1", opts.OrgId, opts.Id, false)
}

type InsertCaseV1Opts struct {
	Db Db

	Case vendorcredit.Case
}

// InsertCaseV1 writes the case row only, no checklist and no event
func InsertCaseV1(ctx context.Context, opts InsertCaseV1Opts) (string, error) {
	c := opts.Case
	caseId := c.Id
	if caseId == "" {
		caseId = uuid.NewString()
	}
	if c.Qty < 1 {
		c.Qty = 1
	}
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO cases(
				id,
				org_id,
				vendor_id,
				template_id,
				status,
				purchase_date,
				return_date,
				receipt_id,
				sku,
				upc,
				brand,
				model,
				serial_number,
				customer_return_reason,
				unit_cost,
				qty,
				expected_credit,
				actual_credit,
				due_date,
				internal_notes,
				created_by
			) VALUES (` + placeholders(21) + `)
		`,
		Args: []any{
			caseId,
			c.OrgId,
			c.VendorId,
			c.TemplateId,
			string(c.Status),
			utcTimePtr(c.PurchaseDate),
			utcTimePtr(c.ReturnDate),
			c.ReceiptId,
			c.Sku,
			c.Upc,
			c.Brand,
			c.Model,
			c.SerialNumber,
			c.CustomerReturnReason,
			c.UnitCost,
			c.Qty,
			c.ExpectedCredit,
			c.ActualCredit,
			utcTimePtr(c.DueDate),
			c.InternalNotes,
			c.CreatedBy,
		},
		FnSource:     "models.InsertCaseV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return caseId, nil
}

type CreateCaseV1Opts struct {
	Db *sql.DB

	Case vendorcredit.Case
	Now  time.Time
}

// CreateCaseV1 creates a NEW case. When the case names a template of
// its vendor (or an org-wide one) the due date and checklist are taken
// from it; any other template id is dropped
func CreateCaseV1(ctx context.Context, opts CreateCaseV1Opts) (*vendorcredit.Case, error) {
	c := opts.Case
	c.Id = uuid.NewString()
	c.Status = vendorcredit.CaseStatusNew
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	var created *vendorcredit.Case
	err := withTransaction(ctx, opts.Db, "models.CreateCaseV1", func(tx *sql.Tx) error {
		if _, err := GetVendorV1(ctx, GetVendorV1Opts{Db: tx, OrgId: c.OrgId, Id: c.VendorId}); err != nil {
			return err
		}
		var template *vendorcredit.ClaimTemplate
		if c.TemplateId != nil {
			found, err := GetClaimTemplateV1(ctx, GetClaimTemplateV1Opts{Db: tx, OrgId: c.OrgId, Id: *c.TemplateId})
			if err != nil && !isNotFound(err) {
				return err
			}
			if found != nil && (found.VendorId == nil || *found.VendorId == c.VendorId) {
				template = found
			}
		}
		if template == nil {
			c.TemplateId = nil
		} else {
			dueDate := template.ComputeDueDate(now.UTC())
			c.DueDate = &dueDate
		}
		if _, err := InsertCaseV1(ctx, InsertCaseV1Opts{Db: tx, Case: c}); err != nil {
			return err
		}
		if template != nil {
			items := template.BuildChecklistItems(c.OrgId, c.Id)
			if err := CreateChecklistItemsV1(ctx, CreateChecklistItemsV1Opts{Db: tx, Items: items}); err != nil {
				return err
			}
		}
		if err := CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
			Db: tx,
			Event: vendorcredit.Event{
				OrgId:       c.OrgId,
				CaseId:      c.Id,
				ActorUserId: c.CreatedBy,
				Type:        vendorcredit.EventTypeCaseCreated,
				Message:     CaseCreatedMessage,
			},
		}); err != nil {
			return err
		}
		var err error
		created, err = getCase(ctx, tx, "models.CreateCaseV1", c.OrgId, c.Id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func writeCase(ctx context.Context, db Db, fnSource string, c vendorcredit.Case) error {
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: db,
		Stmt: `
			UPDATE cases SET
				vendor_id = ?,
				template_id = ?,
				status = ?,
				purchase_date = ?,
				return_date = ?,
				receipt_id = ?,
				sku = ?,
				upc = ?,
				brand = ?,
				model = ?,
				serial_number = ?,
				customer_return_reason = ?,
				unit_cost = ?,
				qty = ?,
				expected_credit = ?,
				actual_credit = ?,
				internal_notes = ?,
				updated_at = NOW()
			WHERE org_id = ? AND id = ?`,
		Args: []any{
			c.VendorId,
			c.TemplateId,
			string(c.Status),
			utcTimePtr(c.PurchaseDate),
			utcTimePtr(c.ReturnDate),
			c.ReceiptId,
			c.Sku,
			c.Upc,
			c.Brand,
			c.Model,
			c.SerialNumber,
			c.CustomerReturnReason,
			c.UnitCost,
			c.Qty,
			c.ExpectedCredit,
			c.ActualCredit,
			c.InternalNotes,
			c.OrgId,
			c.Id,
		},
		FnSource:     fnSource,
		RowsAffected: atLeastNRowsAffected(0),
	})
}

// caseReadiness gathers what CheckReadiness needs for one case
func caseReadiness(ctx context.Context, db Db, fnSource string, c vendorcredit.Case) (vendorcredit.Readiness, error) {
	var requiredFields []string
	if c.TemplateId != nil {
		template, err := GetClaimTemplateV1(ctx, GetClaimTemplateV1Opts{Db: db, OrgId: c.OrgId, Id: *c.TemplateId})
		if err != nil && !isNotFound(err) {
			return vendorcredit.Readiness{}, err
		}
		if template != nil {
			requiredFields = append(requiredFields, template.RequiredFields...)
		}
	}
	items, err := ListChecklistItemsV1(ctx, ListChecklistItemsV1Opts{Db: db, OrgId: c.OrgId, CaseId: c.Id})
	if err != nil {
		return vendorcredit.Readiness{}, err
	}
	for _, item := range items {
		if item.Required {
			requiredFields = append(requiredFields, item.FieldsNeeded...)
		}
	}
	evidence, err := ListEvidenceFilesV1(ctx, ListEvidenceFilesV1Opts{Db: db, OrgId: c.OrgId, CaseId: c.Id})
	if err != nil {
		return vendorcredit.Readiness{}, err
	}
	evidenceTypes := make([]vendorcredit.EvidenceType, 0, len(evidence))
	for _, file := range evidence {
		evidenceTypes = append(evidenceTypes, file.Type)
	}
	return vendorcredit.CheckReadiness(vendorcredit.ReadinessInput{
		RequiredFieldKeys:        dedupeStrings(requiredFields),
		Case:                     c,
		EvidenceTypes:            evidenceTypes,
		RequiredChecklistPending: vendorcredit.PendingRequiredSteps(items),
	}), nil
}

func dedupeStrings(values []string) []string {
	seen := map[string]bool{}
	output := []string{}
	for _, value := range values {
		if !seen[value] {
			seen[value] = true
			output = append(output, value)
		}
	}
	return output
}

type GetCaseReadinessV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetCaseReadinessV1(ctx context.Context, opts GetCaseReadinessV1Opts) (*vendorcredit.Readiness, error) {
	c, err := getCase(ctx, opts.Db, "models.GetCaseReadinessV1", opts.OrgId, opts.Id, false)
	if err != nil {
		return nil, err
	}
	readiness, err := caseReadiness(ctx, opts.Db, "models.GetCaseReadinessV1", *c)
	if err != nil {
		return nil, err
	}
	return &readiness, nil
}

// CaseNotReadyError carries the readiness report of a case that could
// not move to READY_TO_SUBMIT
type CaseNotReadyError struct {
	Readiness vendorcredit.Readiness
}

func (e *CaseNotReadyError) Error() string {
	reasons := []string{}
	if len(e.Readiness.MissingFields) > 0 {
		reasons = append(reasons, "missing fields: "+strings.Join(e.Readiness.MissingFields, ", "))
	}
	if len(e.Readiness.MissingEvidence) > 0 {
		reasons = append(reasons, "missing evidence: "+strings.Join(e.Readiness.MissingEvidence, ", "))
	}
	if e.Readiness.MissingChecklistSteps > 0 {
		reasons = append(reasons, fmt.Sprintf("incomplete required checklist items: %v", e.Readiness.MissingChecklistSteps))
	}
	return "cannot mark ready: " + strings.Join(reasons, "; ")
}

func (e *CaseNotReadyError) Unwrap() error {
	return ErrorCaseNotReady
}

// checkTransition validates moving c to next, READY_TO_SUBMIT also
// requires the case to pass its readiness check
func checkTransition(ctx context.Context, db Db, fnSource string, c vendorcredit.Case, next vendorcredit.CaseStatus) error {
	if !vendorcredit.CanTransition(c.Status, next) {
		return fmt.Errorf("%s: from[%s] to[%s]: %w", fnSource, c.Status, next, vendorcredit.ErrorInvalidTransition)
	}
	if next != vendorcredit.CaseStatusReadyToSubmit || c.Status == next {
		return nil
	}
	readiness, err := caseReadiness(ctx, db, fnSource, c)
	if err != nil {
		return err
	}
	if !readiness.Ok {
		return &CaseNotReadyError{Readiness: readiness}
	}
	return nil
}

type UpdateCaseV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string
	Input       vendorcredit.UpdateCaseInput
}

// UpdateCaseV1 applies an edit. A status change in the same edit goes
// through the same checks as UpdateCaseStatusV1
func UpdateCaseV1(ctx context.Context, opts UpdateCaseV1Opts) (*vendorcredit.Case, error) {
	var updated *vendorcredit.Case
	err := withTransaction(ctx, opts.Db, "models.UpdateCaseV1", func(tx *sql.Tx) error {
		existing, err := getCase(ctx, tx, "models.UpdateCaseV1", opts.OrgId, opts.Id, true)
		if err != nil {
			return err
		}
		next, err := opts.Input.Apply(*existing)
		if err != nil {
			return err
		}
		if next.VendorId != existing.VendorId {
			if _, err := GetVendorV1(ctx, GetVendorV1Opts{Db: tx, OrgId: opts.OrgId, Id: next.VendorId}); err != nil {
				return err
			}
		}
		if next.Status != existing.Status {
			candidate := next
			candidate.Status = existing.Status
			if err := checkTransition(ctx, tx, "models.UpdateCaseV1", candidate, next.Status); err != nil {
				return err
			}
		}
		if err := writeCase(ctx, tx, "models.UpdateCaseV1", next); err != nil {
			return err
		}
		events := []vendorcredit.Event{{
			OrgId:       opts.OrgId,
			CaseId:      opts.Id,
			ActorUserId: &opts.ActorUserId,
			Type:        vendorcredit.EventTypeCaseUpdated,
			Message:     CaseUpdatedMessage,
		}}
		if next.Status != existing.Status {
			events = append(events, vendorcredit.Event{
				OrgId:       opts.OrgId,
				CaseId:      opts.Id,
				ActorUserId: &opts.ActorUserId,
				Type:        vendorcredit.EventTypeStatusChanged,
				Message:     fmt.Sprintf(CaseStatusMessage, next.Status),
			})
		}
		for _, event := range events {
			if err := CreateCaseEventV1(ctx, CreateCaseEventV1Opts{Db: tx, Event: event}); err != nil {
				return err
			}
		}
		updated, err = getCase(ctx, tx, "models.UpdateCaseV1", opts.OrgId, opts.Id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type UpdateCaseStatusV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string
	Status      vendorcredit.CaseStatus
}

// UpdateCaseStatusV1 moves a case along the transition table. Failing
// the readiness check returns a *CaseNotReadyError
func UpdateCaseStatusV1(ctx context.Context, opts UpdateCaseStatusV1Opts) (*vendorcredit.Case, error) {
	if !opts.Status.IsValid() {
		return nil, fmt.Errorf("models.UpdateCaseStatusV1: status[%s]: %w", opts.Status, vendorcredit.ErrorInvalidInput)
	}
	var updated *vendorcredit.Case
	err := withTransaction(ctx, opts.Db, "models.UpdateCaseStatusV1", func(tx *sql.Tx) error {
		existing, err := getCase(ctx, tx, "models.UpdateCaseStatusV1", opts.OrgId, opts.Id, true)
		if err != nil {
			return err
		}
		if err := checkTransition(ctx, tx, "models.UpdateCaseStatusV1", *existing, opts.Status); err != nil {
			return err
		}
		if err := setCaseStatus(ctx, tx, "models.UpdateCaseStatusV1", opts.OrgId, opts.Id, opts.Status); err != nil {
			return err
		}
		if err := CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
			Db: tx,
			Event: vendorcredit.Event{
				OrgId:       opts.OrgId,
				CaseId:      opts.Id,
				ActorUserId: &opts.ActorUserId,
				Type:        vendorcredit.EventTypeStatusChanged,
				Message:     fmt.Sprintf(CaseStatusMessage, opts.Status),
			},
		}); err != nil {
			return err
		}
		updated, err = getCase(ctx, tx, "models.UpdateCaseStatusV1", opts.OrgId, opts.Id, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func setCaseStatus(ctx context.Context, db Db, fnSource, orgId, id string, status vendorcredit.CaseStatus) error {
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           db,
		Stmt:         `UPDATE cases SET status = ?, updated_at = NOW() WHERE org_id = ? AND id = ?`,
		Args:         []any{string(status), orgId, id},
		FnSource:     fnSource,
		RowsAffected: atLeastNRowsAffected(0),
	})
}

type BulkUpdateCaseStatusV1Opts struct {
	Db *sql.DB

	OrgId       string
	CaseIds     []string
	ActorUserId string
	Status      vendorcredit.CaseStatus
}

type BulkUpdateCaseStatusV1Output struct {
	Updated []string          `json:"updated"`
	Skipped map[string]string `json:"skipped"`
}

// BulkUpdateCaseStatusV1 applies the status to every listed case that
// may take it. Cases failing the transition or readiness checks are
// reported in Skipped with the reason instead of failing the batch
func BulkUpdateCaseStatusV1(ctx context.Context, opts BulkUpdateCaseStatusV1Opts) (*BulkUpdateCaseStatusV1Output, error) {
	if len(opts.CaseIds) == 0 || !opts.Status.IsValid() {
		return nil, fmt.Errorf("models.BulkUpdateCaseStatusV1: case ids and a valid status are required: %w", vendorcredit.ErrorInvalidInput)
	}
	output := BulkUpdateCaseStatusV1Output{
		Updated: []string{},
		Skipped: map[string]string{},
	}
	err := withTransaction(ctx, opts.Db, "models.BulkUpdateCaseStatusV1", func(tx *sql.Tx) error {
		for _, caseId := range dedupeStrings(opts.CaseIds) {
			existing, err := getCase(ctx, tx, "models.BulkUpdateCaseStatusV1", opts.OrgId, caseId, true)
			if isNotFound(err) {
				output.Skipped[caseId] = ErrorNotFound.Error()
				continue
			} else if err != nil {
				return err
			}
			if err := checkTransition(ctx, tx, "models.BulkUpdateCaseStatusV1", *existing, opts.Status); err != nil {
				if !isSkippableTransitionError(err) {
					return err
				}
				output.Skipped[caseId] = err.Error()
				continue
			}
			if err := setCaseStatus(ctx, tx, "models.BulkUpdateCaseStatusV1", opts.OrgId, caseId, opts.Status); err != nil {
				return err
			}
			if err := CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
				Db: tx,
				Event: vendorcredit.Event{
					OrgId:       opts.OrgId,
					CaseId:      caseId,
					ActorUserId: &opts.ActorUserId,
					Type:        vendorcredit.EventTypeStatusChanged,
					Message:     fmt.Sprintf(CaseBulkMessage, opts.Status),
				},
			}); err != nil {
				return err
			}
			output.Updated = append(output.Updated, caseId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &output, nil
}

func isSkippableTransitionError(err error) bool {
	return errors.Is(err, vendorcredit.ErrorInvalidTransition) || errors.Is(err, ErrorCaseNotReady)
}

type FindImportedCaseV1Opts struct {
	Db Db

	OrgId      string
	ReceiptId  string
	Sku        *string
	ReturnDate *time.Time
}

// FindImportedCaseV1 matches on receipt, sku and return date where a
// missing sku or date only matches a missing value
func FindImportedCaseV1(ctx context.Context, opts FindImportedCaseV1Opts) (*vendorcredit.Case, error) {
	cases, err := selectCases(
		ctx,
		opts.Db,
		"models.FindImportedCaseV1",
		`cases.org_id = ? AND cases.receipt_id = ? AND cases.sku <=> ? AND cases.return_date <=> ? ORDER BY cases.created_at ASC LIMIT 1`,
		opts.OrgId,
		opts.ReceiptId,
		opts.Sku,
		utcTimePtr(opts.ReturnDate),
	)
	if err != nil {
		return nil, err
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("models.FindImportedCaseV1: receipt[%s]: %w", opts.ReceiptId, ErrorNotFound)
	}
	return &cases[0], nil
}

type UpdateCaseFromImportV1Opts struct {
	Db Db

	CaseId     string
	Row        vendorcredit.MappedRow
	ReturnDate *time.Time
}

// UpdateCaseFromImportV1 overwrites the imported fields and moves the
// case back to NEEDS_INFO
func UpdateCaseFromImportV1(ctx context.Context, opts UpdateCaseFromImportV1Opts) error {
	row := opts.Row
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			UPDATE cases SET
				customer_return_reason = ?,
				unit_cost = ?,
				qty = ?,
				expected_credit = ?,
				serial_number = ?,
				brand = ?,
				return_date = ?,
				status = ?,
				updated_at = NOW()
			WHERE id = ?`,
		Args: []any{
			row.CustomerReturnReason,
			row.UnitCost,
			max(1, row.Qty),
			row.ExpectedCredit,
			row.SerialNumber,
			row.Brand,
			utcTimePtr(opts.ReturnDate),
			string(vendorcredit.CaseStatusNeedsInfo),
			opts.CaseId,
		},
		FnSource:     "models.UpdateCaseFromImportV1",
		RowsAffected: oneRowAffected,
	})
}
