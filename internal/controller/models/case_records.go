package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/vendorcredit"

	"github.com/google/uuid"
)

const EvidenceUploadedFormat = "Evidence uploaded: %s"

const checklistItemColumns = `id, org_id, case_id, step_key, title, description, required, fields_needed, default_due_days, completed_at, completed_by`

func scanChecklistItem(row rowScanner) (*vendorcredit.ChecklistItem, error) {
	var item vendorcredit.ChecklistItem
	var description, completedBy sql.NullString
	var fieldsNeeded jsonColumn[[]string]
	var defaultDueDays sql.NullInt64
	var completedAt sql.NullTime
	if err := row.Scan(
		&item.Id,
		&item.OrgId,
		&item.CaseId,
		&item.StepId,
		&item.Title,
		&description,
		&item.Required,
		&fieldsNeeded,
		&defaultDueDays,
		&completedAt,
		&completedBy,
	); err != nil {
		return nil, err
	}
	item.Description = description.String
	item.FieldsNeeded = fieldsNeeded.Value
	if item.FieldsNeeded == nil {
		item.FieldsNeeded = []string{}
	}
	item.DefaultDueDays = nullIntPtr(defaultDueDays)
	item.CompletedAt = nullTimePtr(completedAt)
	item.CompletedBy = nullStringPtr(completedBy)
	return &item, nil
}

type CreateChecklistItemsV1Opts struct {
	Db Db

	Items []vendorcredit.ChecklistItem
}

// CreateChecklistItemsV1 stores the items in the given order
func CreateChecklistItemsV1(ctx context.Context, opts CreateChecklistItemsV1Opts) error {
	if len(opts.Items) == 0 {
		return nil
	}
	values := make([]string, 0, len(opts.Items))
	args := []any{}
	for position, item := range opts.Items {
		fieldsNeeded, err := toJsonColumn(item.FieldsNeeded)
		if err != nil {
			return err
		}
		values = append(values, "("+placeholders(10)+")")
		args = append(args,
			uuid.NewString(),
			item.OrgId,
			item.CaseId,
			item.StepId,
			item.Title,
			item.Description,
			item.Required,
			fieldsNeeded,
			item.DefaultDueDays,
			position,
		)
	}
	return executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO checklist_items(
				id,
				org_id,
				case_id,
				step_key,
				title,
				description,
				required,
				fields_needed,
				default_due_days,
				position
			) VALUES ` + strings.Join(values, ", "),
		Args:         args,
		FnSource:     "models.CreateChecklistItemsV1",
		RowsAffected: func(n int64) bool { return n == int64(len(opts.Items)) },
	})
}

type ListChecklistItemsV1Opts struct {
	Db Db

	OrgId  string
	CaseId string
}

func ListChecklistItemsV1(ctx context.Context, opts ListChecklistItemsV1Opts) ([]vendorcredit.ChecklistItem, error) {
	items := []vendorcredit.ChecklistItem{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM checklist_items WHERE org_id = ? AND case_id = ? ORDER BY position ASC`, checklistItemColumns),
		Args:     []any{opts.OrgId, opts.CaseId},
		FnSource: "models.ListChecklistItemsV1",
		ProcessRows: func(r *sql.Rows) error {
			item, err := scanChecklistItem(r)
			if err != nil {
				return err
			}
			items = append(items, *item)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return items, nil
}

type ToggleChecklistItemV1Opts struct {
	Db *sql.DB

	OrgId       string
	CaseId      string
	ItemId      string
	ActorUserId string
	Completed   bool
	Now         time.Time
}

// ToggleChecklistItemV1 completes or reopens a step and logs a
// CASE_UPDATED event naming it
func ToggleChecklistItemV1(ctx context.Context, opts ToggleChecklistItemV1Opts) (*vendorcredit.ChecklistItem, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	var updated *vendorcredit.ChecklistItem
	err := withTransaction(ctx, opts.Db, "models.ToggleChecklistItemV1", func(tx *sql.Tx) error {
		var completedAt *time.Time
		var completedBy *string
		message := ChecklistOpenFormat
		if opts.Completed {
			at := now.UTC()
			completedAt = &at
			completedBy = &opts.ActorUserId
			message = ChecklistDoneFormat
		}
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db:           tx,
			Stmt:         `UPDATE checklist_items SET completed_at = ?, completed_by = ? WHERE org_id = ? AND case_id = ? AND id = ?`,
			Args:         []any{completedAt, completedBy, opts.OrgId, opts.CaseId, opts.ItemId},
			FnSource:     "models.ToggleChecklistItemV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		if err := executeMysqlSelect(ctx, mysqlQueryInput{
			Db:       tx,
			Stmt:     fmt.Sprintf(`SELECT %s FROM checklist_items WHERE id = ?`, checklistItemColumns),
			Args:     []any{opts.ItemId},
			FnSource: "models.ToggleChecklistItemV1",
			ProcessRow: func(r *sql.Row) (err error) {
				updated, err = scanChecklistItem(r)
				return err
			},
		}); err != nil {
			return err
		}
		return CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
			Db: tx,
			Event: vendorcredit.Event{
				OrgId:       opts.OrgId,
				CaseId:      opts.CaseId,
				ActorUserId: &opts.ActorUserId,
				Type:        vendorcredit.EventTypeCaseUpdated,
				Message:     fmt.Sprintf(message, updated.Title),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

const evidenceFileColumns = `id, org_id, case_id, type, filename, mime_type, size_bytes, storage_key, uploaded_by, created_at`

type ListEvidenceFilesV1Opts struct {
	Db Db

	OrgId  string
	CaseId string
}

func ListEvidenceFilesV1(ctx context.Context, opts ListEvidenceFilesV1Opts) ([]vendorcredit.EvidenceFile, error) {
	files := []vendorcredit.EvidenceFile{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM evidence_files WHERE org_id = ? AND case_id = ? ORDER BY created_at ASC`, evidenceFileColumns),
		Args:     []any{opts.OrgId, opts.CaseId},
		FnSource: "models.ListEvidenceFilesV1",
		ProcessRows: func(r *sql.Rows) error {
			var file vendorcredit.EvidenceFile
			var uploadedBy sql.NullString
			if err := r.Scan(
				&file.Id,
				&file.OrgId,
				&file.CaseId,
				&file.Type,
				&file.Filename,
				&file.MimeType,
				&file.Size,
				&file.Url,
				&uploadedBy,
				&file.CreatedAt,
			); err != nil {
				return err
			}
			file.UploadedBy = nullStringPtr(uploadedBy)
			files = append(files, file)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return files, nil
}

type CreateEvidenceFileV1Opts struct {
	Db *sql.DB

	File vendorcredit.EvidenceFile
}

// CreateEvidenceFileV1 records the metadata of an uploaded file and an
// EVIDENCE_UPLOADED event
func CreateEvidenceFileV1(ctx context.Context, opts CreateEvidenceFileV1Opts) (string, error) {
	file := opts.File
	fileId := uuid.NewString()
	err := withTransaction(ctx, opts.Db, "models.CreateEvidenceFileV1", func(tx *sql.Tx) error {
		if _, err := getCase(ctx, tx, "models.CreateEvidenceFileV1", file.OrgId, file.CaseId, false); err != nil {
			return err
		}
		if err := executeMysqlInsert(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				INSERT INTO evidence_files(
					id,
					org_id,
					case_id,
					type,
					filename,
					mime_type,
					size_bytes,
					storage_key,
					uploaded_by
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			Args:         []any{fileId, file.OrgId, file.CaseId, string(file.Type), file.Filename, file.MimeType, file.Size, file.Url, file.UploadedBy},
			FnSource:     "models.CreateEvidenceFileV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		return CreateCaseEventV1(ctx, CreateCaseEventV1Opts{
			Db: tx,
			Event: vendorcredit.Event{
				OrgId:       file.OrgId,
				CaseId:      file.CaseId,
				ActorUserId: file.UploadedBy,
				Type:        vendorcredit.EventTypeEvidenceUploaded,
				Message:     fmt.Sprintf(EvidenceUploadedFormat, file.Filename),
			},
		})
	})
	if err != nil {
		return "", err
	}
	return fileId, nil
}

type DeleteEvidenceFileV1Opts struct {
	Db Db

	OrgId  string
	CaseId string
	Id     string
}

func DeleteEvidenceFileV1(ctx context.Context, opts DeleteEvidenceFileV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM evidence_files WHERE org_id = ? AND case_id = ? AND id = ?`,
		Args:     []any{opts.OrgId, opts.CaseId, opts.Id},
		FnSource: "models.DeleteEvidenceFileV1",
	})
}

type CreateCaseEventV1Opts struct {
	Db Db

	Event vendorcredit.Event
}

func CreateCaseEventV1(ctx context.Context, opts CreateCaseEventV1Opts) error {
	event := opts.Event
	return executeMysqlInsert(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `INSERT INTO case_events(id, org_id, case_id, actor_user_id, type, message) VALUES (?, ?, ?, ?, ?, ?)`,
		Args:         []any{uuid.NewString(), event.OrgId, event.CaseId, event.ActorUserId, string(event.Type), event.Message},
		FnSource:     "models.CreateCaseEventV1",
		RowsAffected: oneRowAffected,
	})
}

type ListCaseEventsV1Opts struct {
	Db Db

	OrgId  string
	CaseId string
}

// ListCaseEventsV1 returns the timeline newest first
func ListCaseEventsV1(ctx context.Context, opts ListCaseEventsV1Opts) ([]vendorcredit.Event, error) {
	events := []vendorcredit.Event{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT id, org_id, case_id, actor_user_id, type, message, created_at FROM case_events WHERE org_id = ? AND case_id = ? ORDER BY created_at DESC`,
		Args:     []any{opts.OrgId, opts.CaseId},
		FnSource: "models.ListCaseEventsV1",
		ProcessRows: func(r *sql.Rows) error {
			var event vendorcredit.Event
			var actorUserId sql.NullString
			if err := r.Scan(&event.Id, &event.OrgId, &event.CaseId, &actorUserId, &event.Type, &event.Message, &event.CreatedAt); err != nil {
				return err
			}
			event.ActorUserId = nullStringPtr(actorUserId)
			events = append(events, event)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return events, nil
}
