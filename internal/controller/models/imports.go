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

// ImportBatchLimit caps how many READY jobs a single sweep picks up
const ImportBatchLimit = 20

// importRowInsertChunk bounds the placeholders of one multi-row insert
const importRowInsertChunk = 500

const importJobColumns = `id, org_id, status, filename, dedupe_mode, mapping, headers, row_count, error, created_by, created_at, completed_at`

func scanImportJob(row rowScanner) (*vendorcredit.ImportJob, error) {
	var job vendorcredit.ImportJob
	var mapping jsonColumn[vendorcredit.Mapping]
	var headers jsonColumn[[]string]
	var errorMessage, createdBy sql.NullString
	var completedAt sql.NullTime
	if err := row.Scan(
		&job.Id,
		&job.OrgId,
		&job.Status,
		&job.Filename,
		&job.DedupeMode,
		&mapping,
		&headers,
		&job.RowCount,
		&errorMessage,
		&createdBy,
		&job.CreatedAt,
		&completedAt,
	); err != nil {
		return nil, err
	}
	if mapping.Valid {
		job.Mapping = &mapping.Value
	}
	job.Headers = headers.Value
	if job.Headers == nil {
		job.Headers = []string{}
	}
	job.Error = nullStringPtr(errorMessage)
	job.CreatedBy = nullStringPtr(createdBy)
	job.CompletedAt = nullTimePtr(completedAt)
	return &job, nil
}

func selectImportJobs(ctx context.Context, db Db, fnSource, where string, args ...any) ([]vendorcredit.ImportJob, error) {
	jobs := []vendorcredit.ImportJob{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM import_jobs WHERE %s`, importJobColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			job, err := scanImportJob(r)
			if err != nil {
				return err
			}
			jobs = append(jobs, *job)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return jobs, nil
}

type CreateImportJobV1Opts struct {
	Db *sql.DB

	OrgId      string
	CreatedBy  string
	Filename   string
	DedupeMode vendorcredit.DedupeMode
	Headers    []string
	Rows       []map[string]string
}

// CreateImportJobV1 stores an UPLOADED job with every parsed CSV row
func CreateImportJobV1(ctx context.Context, opts CreateImportJobV1Opts) (string, error) {
	if len(opts.Rows) == 0 {
		return "", fmt.Errorf("models.CreateImportJobV1: %w", vendorcredit.ErrorImportFileEmpty)
	}
	dedupeMode := opts.DedupeMode
	if !dedupeMode.IsValid() {
		dedupeMode = vendorcredit.DedupeModeSkip
	}
	headers, err := toJsonColumn(opts.Headers)
	if err != nil {
		return "", err
	}
	jobId := uuid.NewString()
	err = withTransaction(ctx, opts.Db, "models.CreateImportJobV1", func(tx *sql.Tx) error {
		if err := executeMysqlInsert(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				INSERT INTO import_jobs(
					id,
					org_id,
					status,
					filename,
					dedupe_mode,
					headers,
					row_count,
					created_by
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
			Args: []any{
				jobId,
				opts.OrgId,
				string(vendorcredit.ImportJobStatusUploaded),
				opts.Filename,
				string(dedupeMode),
				headers,
				len(opts.Rows),
				opts.CreatedBy,
			},
			FnSource:     "models.CreateImportJobV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		for start := 0; start < len(opts.Rows); start += importRowInsertChunk {
			end := min(start+importRowInsertChunk, len(opts.Rows))
			values := make([]string, 0, end-start)
			args := []any{}
			for index := start; index < end; index++ {
				raw, err := toJsonColumn(opts.Rows[index])
				if err != nil {
					return err
				}
				values = append(values, "(?, ?, ?, ?)")
				args = append(args, uuid.NewString(), jobId, index+1, raw)
			}
			if err := executeMysqlInsert(ctx, mysqlQueryInput{
				Db:           tx,
				Stmt:         `INSERT INTO import_rows(id, import_job_id, row_index, raw) VALUES ` + strings.Join(values, ", "),
				Args:         args,
				FnSource:     "models.CreateImportJobV1",
				RowsAffected: atLeastNRowsAffected(int64(end - start)),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return jobId, nil
}

type GetImportJobV1Opts struct {
	Db Db

	// OrgId is optional so that workers can load a job by id alone
	OrgId *string
	Id    string
}

func GetImportJobV1(ctx context.Context, opts GetImportJobV1Opts) (*vendorcredit.ImportJob, error) {
	where := `id = ?`
	args := []any{opts.Id}
	if opts.OrgId != nil {
		where += ` AND org_id = ?`
		args = append(args, *opts.OrgId)
	}
	jobs, err := selectImportJobs(ctx, opts.Db, "models.GetImportJobV1", where, args...)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("models.GetImportJobV1: import job[%s]: %w", opts.Id, ErrorNotFound)
	}
	return &jobs[0], nil
}

type ListImportJobsV1Opts struct {
	Db Db

	OrgId string
}

func ListImportJobsV1(ctx context.Context, opts ListImportJobsV1Opts) ([]vendorcredit.ImportJob, error) {
	return selectImportJobs(ctx, opts.Db, "models.ListImportJobsV1", `org_id = ? ORDER BY created_at DESC`, opts.OrgId)
}

type ListReadyImportJobsV1Opts struct {
	Db Db

	Limit int
}

// ListReadyImportJobsV1 returns READY jobs of every org oldest first
func ListReadyImportJobsV1(ctx context.Context, opts ListReadyImportJobsV1Opts) ([]vendorcredit.ImportJob, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = ImportBatchLimit
	}
	return selectImportJobs(
		ctx,
		opts.Db,
		"models.ListReadyImportJobsV1",
		`status = ? ORDER BY created_at ASC LIMIT ?`,
		string(vendorcredit.ImportJobStatusReady),
		limit,
	)
}

type SaveImportMappingV1Opts struct {
	Db Db

	OrgId      string
	Id         string
	Mapping    vendorcredit.Mapping
	DedupeMode *vendorcredit.DedupeMode
}

// SaveImportMappingV1 validates the mapping against the stored headers
// and moves the job to READY. Jobs that already started are refused
func SaveImportMappingV1(ctx context.Context, opts SaveImportMappingV1Opts) error {
	job, err := GetImportJobV1(ctx, GetImportJobV1Opts{Db: opts.Db, OrgId: &opts.OrgId, Id: opts.Id})
	if err != nil {
		return err
	}
	if job.Status != vendorcredit.ImportJobStatusUploaded && job.Status != vendorcredit.ImportJobStatusReady {
		return fmt.Errorf("models.SaveImportMappingV1: import job[%s] has status[%s]: %w", job.Id, job.Status, vendorcredit.ErrorInvalidTransition)
	}
	if err := opts.Mapping.Validate(job.Headers); err != nil {
		return err
	}
	dedupeMode := job.DedupeMode
	if opts.DedupeMode != nil && opts.DedupeMode.IsValid() {
		dedupeMode = *opts.DedupeMode
	}
	mapping, err := toJsonColumn(opts.Mapping)
	if err != nil {
		return err
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `UPDATE import_jobs SET mapping = ?, dedupe_mode = ?, status = ?, error = NULL WHERE org_id = ? AND id = ?`,
		Args:         []any{mapping, string(dedupeMode), string(vendorcredit.ImportJobStatusReady), opts.OrgId, opts.Id},
		FnSource:     "models.SaveImportMappingV1",
		RowsAffected: oneRowAffected,
	})
}

type SetImportJobStatusV1Opts struct {
	Db Db

	Id     string
	Status vendorcredit.ImportJobStatus
	Error  *string
}

// SetImportJobStatusV1 stamps completed_at for COMPLETED and FAILED
func SetImportJobStatusV1(ctx context.Context, opts SetImportJobStatusV1Opts) error {
	var completedAt *time.Time
	if opts.Status == vendorcredit.ImportJobStatusCompleted || opts.Status == vendorcredit.ImportJobStatusFailed {
		now := time.Now().UTC()
		completedAt = &now
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `UPDATE import_jobs SET status = ?, error = ?, completed_at = ? WHERE id = ?`,
		Args:         []any{string(opts.Status), opts.Error, completedAt, opts.Id},
		FnSource:     "models.SetImportJobStatusV1",
		RowsAffected: oneRowAffected,
	})
}

const importRowColumns = `id, import_job_id, row_index, raw, parsed, action, error, linked_case_id`

type ListImportRowsV1Opts struct {
	Db Db

	JobId string
	// Limit of zero returns every row
	Limit int
}

func ListImportRowsV1(ctx context.Context, opts ListImportRowsV1Opts) ([]vendorcredit.ImportRow, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM import_rows WHERE import_job_id = ? ORDER BY row_index ASC`, importRowColumns)
	args := []any{opts.JobId}
	if opts.Limit > 0 {
		stmt += ` LIMIT ?`
		args = append(args, opts.Limit)
	}
	rows := []vendorcredit.ImportRow{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     stmt,
		Args:     args,
		FnSource: "models.ListImportRowsV1",
		ProcessRows: func(r *sql.Rows) error {
			var row vendorcredit.ImportRow
			var raw jsonColumn[map[string]string]
			var parsed jsonColumn[vendorcredit.MappedRow]
			var action, errorMessage, linkedCaseId sql.NullString
			if err := r.Scan(
				&row.Id,
				&row.JobId,
				&row.RowNumber,
				&raw,
				&parsed,
				&action,
				&errorMessage,
				&linkedCaseId,
			); err != nil {
				return err
			}
			row.Raw = raw.Value
			if parsed.Valid {
				row.Parsed = &parsed.Value
			}
			if action.Valid {
				value := vendorcredit.ImportRowAction(action.String)
				row.Action = &value
			}
			row.Error = nullStringPtr(errorMessage)
			row.LinkedCaseId = nullStringPtr(linkedCaseId)
			rows = append(rows, row)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return rows, nil
}

type UpdateImportRowV1Opts struct {
	Db Db

	Row vendorcredit.ImportRow
}

func UpdateImportRowV1(ctx context.Context, opts UpdateImportRowV1Opts) error {
	row := opts.Row
	var parsed *string
	if row.Parsed != nil {
		value, err := toJsonColumn(row.Parsed)
		if err != nil {
			return err
		}
		parsed = &value
	}
	var action *string
	if row.Action != nil {
		value := string(*row.Action)
		action = &value
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `UPDATE import_rows SET parsed = ?, action = ?, error = ?, linked_case_id = ? WHERE id = ?`,
		Args:         []any{parsed, action, row.Error, row.LinkedCaseId, row.Id},
		FnSource:     "models.UpdateImportRowV1",
		RowsAffected: oneRowAffected,
	})
}

// VendorCreditStore backs the import pipeline with MySQL. Lookups that
// find nothing return nil without an error
type VendorCreditStore struct {
	Db *sql.DB
}

func (s VendorCreditStore) GetImportJob(ctx context.Context, jobId string) (*vendorcredit.ImportJob, error) {
	job, err := GetImportJobV1(ctx, GetImportJobV1Opts{Db: s.Db, Id: jobId})
	if isNotFound(err) {
		return nil, nil
	}
	return job, err
}

func (s VendorCreditStore) ListImportRows(ctx context.Context, jobId string) ([]vendorcredit.ImportRow, error) {
	return ListImportRowsV1(ctx, ListImportRowsV1Opts{Db: s.Db, JobId: jobId})
}

func (s VendorCreditStore) SetImportJobStatus(ctx context.Context, jobId string, status vendorcredit.ImportJobStatus, errorMessage *string) error {
	return SetImportJobStatusV1(ctx, SetImportJobStatusV1Opts{Db: s.Db, Id: jobId, Status: status, Error: errorMessage})
}

func (s VendorCreditStore) UpdateImportRow(ctx context.Context, row vendorcredit.ImportRow) error {
	return UpdateImportRowV1(ctx, UpdateImportRowV1Opts{Db: s.Db, Row: row})
}

func (s VendorCreditStore) UpsertVendorByName(ctx context.Context, orgId, name string) (*vendorcredit.Vendor, error) {
	return UpsertVendorByNameV1(ctx, UpsertVendorByNameV1Opts{Db: s.Db, OrgId: orgId, Name: name})
}

func (s VendorCreditStore) GetOldestVendor(ctx context.Context, orgId string) (*vendorcredit.Vendor, error) {
	vendor, err := GetOldestVendorV1(ctx, GetOldestVendorV1Opts{Db: s.Db, OrgId: orgId})
	if isNotFound(err) {
		return nil, nil
	}
	return vendor, err
}

func (s VendorCreditStore) FindImportedCase(ctx context.Context, orgId, receiptId string, sku *string, returnDate *time.Time) (*vendorcredit.Case, error) {
	found, err := FindImportedCaseV1(ctx, FindImportedCaseV1Opts{
		Db:         s.Db,
		OrgId:      orgId,
		ReceiptId:  receiptId,
		Sku:        sku,
		ReturnDate: returnDate,
	})
	if isNotFound(err) {
		return nil, nil
	}
	return found, err
}

func (s VendorCreditStore) CreateCase(ctx context.Context, c vendorcredit.Case) (*vendorcredit.Case, error) {
	caseId, err := InsertCaseV1(ctx, InsertCaseV1Opts{Db: s.Db, Case: c})
	if err != nil {
		return nil, err
	}
	c.Id = caseId
	return &c, nil
}

func (s VendorCreditStore) UpdateCaseFromImport(ctx context.Context, caseId string, row vendorcredit.MappedRow, returnDate *time.Time) error {
	return UpdateCaseFromImportV1(ctx, UpdateCaseFromImportV1Opts{Db: s.Db, CaseId: caseId, Row: row, ReturnDate: returnDate})
}

func (s VendorCreditStore) CreateEvent(ctx context.Context, event vendorcredit.Event) error {
	return CreateCaseEventV1(ctx, CreateCaseEventV1Opts{Db: s.Db, Event: event})
}
