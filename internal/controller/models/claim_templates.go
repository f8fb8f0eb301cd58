package models

import (
	"context"
	"database/sql"
	"fmt"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

const claimTemplateColumns = `id, org_id, vendor_id, name, sla_days, required_fields, steps, created_at, updated_at`

// TemplateUpdatedMessage is the case event written when a template a
// case was built from changes
const TemplateUpdatedMessage = "Vendor template updated"

func scanClaimTemplate(row rowScanner) (*vendorcredit.ClaimTemplate, error) {
	var template vendorcredit.ClaimTemplate
	var vendorId sql.NullString
	var requiredFields jsonColumn[[]string]
	var steps jsonColumn[[]vendorcredit.Step]
	if err := row.Scan(
		&template.Id,
		&template.OrgId,
		&vendorId,
		&template.Name,
		&template.SlaDays,
		&requiredFields,
		&steps,
		&template.CreatedAt,
		&template.UpdatedAt,
	); err != nil {
		return nil, err
	}
	template.VendorId = nullStringPtr(vendorId)
	template.RequiredFields = requiredFields.Value
	if template.RequiredFields == nil {
		template.RequiredFields = []string{}
	}
	template.Steps = steps.Value
	if template.Steps == nil {
		template.Steps = []vendorcredit.Step{}
	}
	return &template, nil
}

type ListClaimTemplatesV1Opts struct {
	Db Db

	OrgId    string
	VendorId *string
}

func ListClaimTemplatesV1(ctx context.Context, opts ListClaimTemplatesV1Opts) ([]vendorcredit.ClaimTemplate, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM claim_templates WHERE org_id = ?`, claimTemplateColumns)
	args := []any{opts.OrgId}
	if opts.VendorId != nil {
		stmt += ` AND vendor_id = ?`
		args = append(args, *opts.VendorId)
	}
	stmt += ` ORDER BY name ASC`

	templates := []vendorcredit.ClaimTemplate{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     stmt,
		Args:     args,
		FnSource: "models.ListClaimTemplatesV1",
		ProcessRows: func(r *sql.Rows) error {
			template, err := scanClaimTemplate(r)
			if err != nil {
				return err
			}
			templates = append(templates, *template)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return templates, nil
}

type GetClaimTemplateV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetClaimTemplateV1(ctx context.Context, opts GetClaimTemplateV1Opts) (*vendorcredit.ClaimTemplate, error) {
	var template *vendorcredit.ClaimTemplate
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM claim_templates WHERE org_id = ? AND id = ?`, claimTemplateColumns),
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.GetClaimTemplateV1",
		ProcessRow: func(r *sql.Row) (err error) {
			template, err = scanClaimTemplate(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return template, nil
}

func claimTemplateJson(spec vendorcredit.TemplateSpec) (requiredFields string, steps string, err error) {
	if requiredFields, err = toJsonColumn(spec.RequiredFields); err != nil {
		return "", "", err
	}
	if steps, err = toJsonColumn(spec.Steps); err != nil {
		return "", "", err
	}
	return requiredFields, steps, nil
}

type CreateClaimTemplateV1Opts struct {
	Db Db

	OrgId    string
	VendorId *string
	Spec     vendorcredit.TemplateSpec
}

func CreateClaimTemplateV1(ctx context.Context, opts CreateClaimTemplateV1Opts) (string, error) {
	if err := opts.Spec.Validate(); err != nil {
		return "", err
	}
	requiredFields, steps, err := claimTemplateJson(opts.Spec)
	if err != nil {
		return "", err
	}
	templateId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO claim_templates(
				id,
				org_id,
				vendor_id,
				name,
				sla_days,
				required_fields,
				steps
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		Args:         []any{templateId, opts.OrgId, opts.VendorId, opts.Spec.Name, opts.Spec.SlaDays, requiredFields, steps},
		FnSource:     "models.CreateClaimTemplateV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return templateId, nil
}

type UpdateClaimTemplateV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string
	Spec        vendorcredit.TemplateSpec
}

// UpdateClaimTemplateV1 replaces the template and writes a
// TEMPLATE_UPDATED event on every case built from it. Existing
// checklists are left untouched. Returns the number of cases notified
func UpdateClaimTemplateV1(ctx context.Context, opts UpdateClaimTemplateV1Opts) (int, error) {
	if err := opts.Spec.Validate(); err != nil {
		return 0, err
	}
	requiredFields, steps, err := claimTemplateJson(opts.Spec)
	if err != nil {
		return 0, err
	}
	notified := 0
	err = withTransaction(ctx, opts.Db, "models.UpdateClaimTemplateV1", func(tx *sql.Tx) error {
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				UPDATE claim_templates SET
					name = ?,
					sla_days = ?,
					required_fields = ?,
					steps = ?,
					updated_at = NOW()
				WHERE org_id = ? AND id = ?`,
			Args:         []any{opts.Spec.Name, opts.Spec.SlaDays, requiredFields, steps, opts.OrgId, opts.Id},
			FnSource:     "models.UpdateClaimTemplateV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		caseIds := []string{}
		if err := executeMysqlSelects(ctx, mysqlQueryInput{
			Db:       tx,
			Stmt:     `SELECT id FROM cases WHERE org_id = ? AND template_id = ?`,
			Args:     []any{opts.OrgId, opts.Id},
			FnSource: "models.UpdateClaimTemplateV1",
			ProcessRows: func(r *sql.Rows) error {
				var caseId string
				if err := r.Scan(&caseId); err != nil {
					return err
				}
				caseIds = append(caseIds, caseId)
				return nil
			},
		}); err != nil {
			return err
		}
		for _, caseId := range caseIds {
			if err := CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
				Db: tx,
				Event: vendorcredit.Event{
					OrgId:       opts.OrgId,
					CaseId:      caseId,
					ActorUserId: &opts.ActorUserId,
					Type:        vendorcredit.EventTypeTemplateUpdated,
					Message:     TemplateUpdatedMessage,
				},
			}); err != nil {
				return err
			}
		}
		notified = len(caseIds)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return notified, nil
}

type DeleteClaimTemplateV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func DeleteClaimTemplateV1(ctx context.Context, opts DeleteClaimTemplateV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM claim_templates WHERE org_id = ? AND id = ?`,
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.DeleteClaimTemplateV1",
	})
}
