package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

const jobColumns = `jobs.id, jobs.org_id, jobs.customer_name, jobs.site_address, jobs.city, jobs.utility_name, jobs.jurisdiction_name, jobs.system_size_kw, jobs.status, jobs.notes, jobs.created_at, jobs.updated_at`

func scanJob(row rowScanner, now time.Time) (*solar.Job, error) {
	var job solar.Job
	var city, utilityName, jurisdictionName, notes sql.NullString
	var systemSizeKw sql.NullFloat64
	if err := row.Scan(
		&job.Id,
		&job.OrgId,
		&job.CustomerName,
		&job.SiteAddress,
		&city,
		&utilityName,
		&jurisdictionName,
		&systemSizeKw,
		&job.Status,
		&notes,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		return nil, err
	}
	job.City = nullStringPtr(city)
	job.UtilityName = nullStringPtr(utilityName)
	job.JurisdictionName = nullStringPtr(jurisdictionName)
	job.SystemSizeKw = nullFloatPtr(systemSizeKw)
	job.Notes = nullStringPtr(notes)
	job.DaysInStatus = solar.DaysInStatus(job.UpdatedAt, now)
	return &job, nil
}

type CreateJobV1Opts struct {
	Db Db

	Job solar.Job
}

func CreateJobV1(ctx context.Context, opts CreateJobV1Opts) (string, error) {
	jobId := uuid.NewString()
	job := opts.Job
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO jobs(
				id,
				org_id,
				customer_name,
				site_address,
				city,
				utility_name,
				jurisdiction_name,
				system_size_kw,
				status,
				notes
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			jobId,
			job.OrgId,
			job.CustomerName,
			job.SiteAddress,
			job.City,
			job.UtilityName,
			job.JurisdictionName,
			job.SystemSizeKw,
			string(job.Status),
			job.Notes,
		},
		FnSource:     "models.CreateJobV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return jobId, nil
}

type GetJobV1Opts struct {
	Db Db

	OrgId string
	Id    string

	// ForUpdate locks the row for the rest of the transaction
	ForUpdate bool
}

func GetJobV1(ctx context.Context, opts GetJobV1Opts) (*solar.Job, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM jobs WHERE jobs.org_id = ? AND jobs.id = ?`, jobColumns)
	if opts.ForUpdate {
		stmt += ` FOR UPDATE`
	}
	var job *solar.Job
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     stmt,
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.GetJobV1",
		ProcessRow: func(r *sql.Row) (err error) {
			job, err = scanJob(r, time.Now())
			return err
		},
	}); err != nil {
		return nil, err
	}
	return job, nil
}

type ListJobsV1Opts struct {
	Db Db

	OrgId  string
	Filter solar.JobListFilter
}

// ListJobsV1 returns at most solar.JobListLimit jobs of the board
func ListJobsV1(ctx context.Context, opts ListJobsV1Opts) ([]solar.Job, error) {
	clause, args := solar.JobListClause(opts.OrgId, opts.Filter)
	stmt := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s`, jobColumns, clause)

	now := time.Now()
	jobs := []solar.Job{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     stmt,
		Args:     args,
		FnSource: "models.ListJobsV1",
		ProcessRows: func(r *sql.Rows) error {
			job, err := scanJob(r, now)
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

type UpdateJobV1Opts struct {
	Db Db

	OrgId string
	Id    string
	Input solar.JobInput
}

// UpdateJobV1 replaces the editable job fields, the status is only
// changed through UpdateJobStatusV1
func UpdateJobV1(ctx context.Context, opts UpdateJobV1Opts) error {
	input := opts.Input
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			UPDATE jobs SET
				customer_name = ?,
				site_address = ?,
				city = ?,
				utility_name = ?,
				jurisdiction_name = ?,
				system_size_kw = ?,
				notes = ?
			WHERE org_id = ? AND id = ?`,
		Args: []any{
			input.CustomerName,
			input.SiteAddress,
			input.City,
			input.UtilityName,
			input.JurisdictionName,
			input.SystemSizeKw,
			input.Notes,
			opts.OrgId,
			opts.Id,
		},
		FnSource:     "models.UpdateJobV1",
		RowsAffected: atLeastNRowsAffected(0),
	})
}

type UpdateJobStatusV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string
	Status      solar.JobStatus
}

// UpdateJobStatusV1 moves a job along the status table and records the
// change; updated_at is reset so that days-in-status restarts
func UpdateJobStatusV1(ctx context.Context, opts UpdateJobStatusV1Opts) (*solar.Job, error) {
	if !opts.Status.IsValid() {
		return nil, fmt.Errorf("models.UpdateJobStatusV1: status[%s]: %w", opts.Status, solar.ErrorInvalidInput)
	}
	var updated *solar.Job
	err := withTransaction(ctx, opts.Db, "models.UpdateJobStatusV1", func(tx *sql.Tx) error {
		existing, err := GetJobV1(ctx, GetJobV1Opts{Db: tx, OrgId: opts.OrgId, Id: opts.Id, ForUpdate: true})
		if err != nil {
			return err
		}
		if !solar.CanTransitionJobStatus(existing.Status, opts.Status) {
			return fmt.Errorf("models.UpdateJobStatusV1: %s to %s: %w", existing.Status, opts.Status, solar.ErrorInvalidTransition)
		}
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db:           tx,
			Stmt:         `UPDATE jobs SET status = ?, updated_at = NOW() WHERE org_id = ? AND id = ?`,
			Args:         []any{string(opts.Status), opts.OrgId, opts.Id},
			FnSource:     "models.UpdateJobStatusV1",
			RowsAffected: atLeastNRowsAffected(0),
		}); err != nil {
			return err
		}
		if err := CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       opts.OrgId,
				JobId:       &opts.Id,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionJobStatusUpdated,
				EntityType:  solar.ActivityEntityJob,
				EntityId:    opts.Id,
				Before:      existing.Status,
				After:       opts.Status,
			},
		}); err != nil {
			return err
		}
		updated, err = GetJobV1(ctx, GetJobV1Opts{Db: tx, OrgId: opts.OrgId, Id: opts.Id})
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type CountJobsByStatusV1Opts struct {
	Db Db

	OrgId string
}

func CountJobsByStatusV1(ctx context.Context, opts CountJobsByStatusV1Opts) (map[solar.JobStatus]int, error) {
	counts := map[solar.JobStatus]int{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT status, COUNT(*) FROM jobs WHERE org_id = ? GROUP BY status`,
		Args:     []any{opts.OrgId},
		FnSource: "models.CountJobsByStatusV1",
		ProcessRows: func(r *sql.Rows) error {
			var status solar.JobStatus
			var count int
			if err := r.Scan(&status, &count); err != nil {
				return err
			}
			counts[status] = count
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return counts, nil
}
