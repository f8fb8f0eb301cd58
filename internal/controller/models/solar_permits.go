package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

const permitColumns = `permits.id, permits.org_id, permits.job_id, permits.jurisdiction_name, permits.permit_number, permits.status, permits.submitted_at, permits.approved_at, permits.last_contact_at, permits.next_follow_up_at, permits.notes, permits.created_at, permits.updated_at, jobs.customer_name, jobs.site_address`

func scanPermit(row rowScanner) (*solar.Permit, error) {
	var permit solar.Permit
	var permitNumber, notes sql.NullString
	var submittedAt, approvedAt, lastContactAt, nextFollowUpAt sql.NullTime
	if err := row.Scan(
		&permit.Id,
		&permit.OrgId,
		&permit.JobId,
		&permit.JurisdictionName,
		&permitNumber,
		&permit.Status,
		&submittedAt,
		&approvedAt,
		&lastContactAt,
		&nextFollowUpAt,
		&notes,
		&permit.CreatedAt,
		&permit.UpdatedAt,
		&permit.CustomerName,
		&permit.SiteAddress,
	); err != nil {
		return nil, err
	}
	permit.PermitNumber = nullStringPtr(permitNumber)
	permit.SubmittedAt = nullTimePtr(submittedAt)
	permit.ApprovedAt = nullTimePtr(approvedAt)
	permit.LastContactAt = nullTimePtr(lastContactAt)
	permit.NextFollowUpAt = nullTimePtr(nextFollowUpAt)
	permit.Notes = nullStringPtr(notes)
	return &permit, nil
}

func selectPermits(ctx context.Context, db Db, fnSource, where string, args ...any) ([]solar.Permit, error) {
	permits := []solar.Permit{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM permits JOIN jobs ON jobs.id = permits.job_id WHERE %s`, permitColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			permit, err := scanPermit(r)
			if err != nil {
				return err
			}
			permits = append(permits, *permit)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return permits, nil
}

type GetPermitV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetPermitV1(ctx context.Context, opts GetPermitV1Opts) (*solar.Permit, error) {
	var permit *solar.Permit
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM permits JOIN jobs ON jobs.id = permits.job_id WHERE permits.org_id = ? AND permits.id = ?`, permitColumns),
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.GetPermitV1",
		ProcessRow: func(r *sql.Row) (err error) {
			permit, err = scanPermit(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return permit, nil
}

type ListPermitsV1Opts struct {
	Db Db

	OrgId string
	JobId *string
}

func ListPermitsV1(ctx context.Context, opts ListPermitsV1Opts) ([]solar.Permit, error) {
	where := `permits.org_id = ?`
	args := []any{opts.OrgId}
	if opts.JobId != nil {
		where += ` AND permits.job_id = ?`
		args = append(args, *opts.JobId)
	}
	return selectPermits(ctx, opts.Db, "models.ListPermitsV1", where+` ORDER BY permits.created_at DESC`, args...)
}

type ListStuckPermitsV1Opts struct {
	Db Db

	OrgId    string
	Criteria solar.StuckPermitCriteria
}

// ListStuckPermitsV1 returns permits that need chasing, soonest
// follow-up first
func ListStuckPermitsV1(ctx context.Context, opts ListStuckPermitsV1Opts) ([]solar.Permit, error) {
	clause, args := solar.StuckPermitClause(opts.OrgId, opts.Criteria)
	permits, err := selectPermits(ctx, opts.Db, "models.ListStuckPermitsV1", clause, args...)
	if err != nil {
		return nil, err
	}
	solar.SortByNextFollowUp(permits)
	return permits, nil
}

type CountStuckPermitsV1Opts ListStuckPermitsV1Opts

func CountStuckPermitsV1(ctx context.Context, opts CountStuckPermitsV1Opts) (int, error) {
	clause, args := solar.StuckPermitClause(opts.OrgId, opts.Criteria)
	count := 0
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT COUNT(*) FROM permits WHERE ` + clause,
		Args:     args,
		FnSource: "models.CountStuckPermitsV1",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&count)
		},
	}); err != nil {
		return 0, err
	}
	return count, nil
}

type ListFollowUpPermitsV1Opts struct {
	Db Db

	OrgId    string
	Deadline time.Time
}

// ListFollowUpPermitsV1 returns open permits whose follow-up falls on or
// before the deadline
func ListFollowUpPermitsV1(ctx context.Context, opts ListFollowUpPermitsV1Opts) ([]solar.Permit, error) {
	return selectPermits(
		ctx,
		opts.Db,
		"models.ListFollowUpPermitsV1",
		`permits.org_id = ?
			AND permits.status IN (?, ?)
			AND permits.next_follow_up_at IS NOT NULL
			AND permits.next_follow_up_at <= ?
			ORDER BY permits.next_follow_up_at ASC`,
		opts.OrgId,
		string(solar.PermitStatusSubmitted),
		string(solar.PermitStatusInReview),
		opts.Deadline.UTC(),
	)
}

type CreatePermitV1Opts struct {
	Db *sql.DB

	ActorUserId string
	Permit      solar.Permit
}

func CreatePermitV1(ctx context.Context, opts CreatePermitV1Opts) (*solar.Permit, error) {
	permit := opts.Permit
	permit.Id = uuid.NewString()
	var created *solar.Permit
	err := withTransaction(ctx, opts.Db, "models.CreatePermitV1", func(tx *sql.Tx) error {
		if _, err := GetJobV1(ctx, GetJobV1Opts{Db: tx, OrgId: permit.OrgId, Id: permit.JobId}); err != nil {
			return err
		}
		if err := executeMysqlInsert(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				INSERT INTO permits(
					id,
					org_id,
					job_id,
					jurisdiction_name,
					permit_number,
					status,
					submitted_at,
					approved_at,
					last_contact_at,
					next_follow_up_at,
					notes
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			Args: []any{
				permit.Id,
				permit.OrgId,
				permit.JobId,
				permit.JurisdictionName,
				permit.PermitNumber,
				string(permit.Status),
				utcTimePtr(permit.SubmittedAt),
				utcTimePtr(permit.ApprovedAt),
				utcTimePtr(permit.LastContactAt),
				utcTimePtr(permit.NextFollowUpAt),
				permit.Notes,
			},
			FnSource:     "models.CreatePermitV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		var err error
		if created, err = GetPermitV1(ctx, GetPermitV1Opts{Db: tx, OrgId: permit.OrgId, Id: permit.Id}); err != nil {
			return err
		}
		return CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       permit.OrgId,
				JobId:       &permit.JobId,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionPermitCreated,
				EntityType:  solar.ActivityEntityPermit,
				EntityId:    permit.Id,
				After:       created,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type UpdatePermitV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string

	// Update receives the stored permit and returns the replacement
	Update func(solar.Permit) (solar.Permit, error)
}

// UpdatePermitV1 reads, modifies and writes a permit inside one
// transaction and records before/after activity
func UpdatePermitV1(ctx context.Context, opts UpdatePermitV1Opts) (*solar.Permit, error) {
	var updated *solar.Permit
	err := withTransaction(ctx, opts.Db, "models.UpdatePermitV1", func(tx *sql.Tx) error {
		existing, err := selectPermits(ctx, tx, "models.UpdatePermitV1", `permits.org_id = ? AND permits.id = ? FOR UPDATE`, opts.OrgId, opts.Id)
		if err != nil {
			return err
		}
		if len(existing) == 0 {
			return fmt.Errorf("models.UpdatePermitV1: permit[%s]: %w", opts.Id, ErrorNotFound)
		}
		before := existing[0]
		next, err := opts.Update(before)
		if err != nil {
			return err
		}
		if !next.Status.IsValid() {
			return fmt.Errorf("models.UpdatePermitV1: status[%s]: %w", next.Status, solar.ErrorInvalidInput)
		}
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				UPDATE permits SET
					jurisdiction_name = ?,
					permit_number = ?,
					status = ?,
					submitted_at = ?,
					approved_at = ?,
					last_contact_at = ?,
					next_follow_up_at = ?,
					notes = ?,
					updated_at = NOW()
				WHERE org_id = ? AND id = ?`,
			Args: []any{
				next.JurisdictionName,
				next.PermitNumber,
				string(next.Status),
				utcTimePtr(next.SubmittedAt),
				utcTimePtr(next.ApprovedAt),
				utcTimePtr(next.LastContactAt),
				utcTimePtr(next.NextFollowUpAt),
				next.Notes,
				opts.OrgId,
				opts.Id,
			},
			FnSource:     "models.UpdatePermitV1",
			RowsAffected: atLeastNRowsAffected(0),
		}); err != nil {
			return err
		}
		if updated, err = GetPermitV1(ctx, GetPermitV1Opts{Db: tx, OrgId: opts.OrgId, Id: opts.Id}); err != nil {
			return err
		}
		return CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       opts.OrgId,
				JobId:       &before.JobId,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionPermitUpdated,
				EntityType:  solar.ActivityEntityPermit,
				EntityId:    opts.Id,
				Before:      before,
				After:       updated,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
