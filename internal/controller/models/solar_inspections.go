package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

const inspectionColumns = `inspections.id, inspections.org_id, inspections.job_id, inspections.type, inspections.status, inspections.scheduled_for, inspections.completed_at, inspections.outcome, inspections.notes, inspections.created_at, inspections.updated_at, jobs.customer_name`

func scanInspection(row rowScanner) (*solar.Inspection, error) {
	var inspection solar.Inspection
	var scheduledFor, completedAt sql.NullTime
	var notes sql.NullString
	if err := row.Scan(
		&inspection.Id,
		&inspection.OrgId,
		&inspection.JobId,
		&inspection.Type,
		&inspection.Status,
		&scheduledFor,
		&completedAt,
		&inspection.Outcome,
		&notes,
		&inspection.CreatedAt,
		&inspection.UpdatedAt,
		&inspection.CustomerName,
	); err != nil {
		return nil, err
	}
	inspection.ScheduledFor = nullTimePtr(scheduledFor)
	inspection.CompletedAt = nullTimePtr(completedAt)
	inspection.Notes = nullStringPtr(notes)
	return &inspection, nil
}

func selectInspections(ctx context.Context, db Db, fnSource, where string, args ...any) ([]solar.Inspection, error) {
	inspections := []solar.Inspection{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM inspections JOIN jobs ON jobs.id = inspections.job_id WHERE %s`, inspectionColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			inspection, err := scanInspection(r)
			if err != nil {
				return err
			}
			inspections = append(inspections, *inspection)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return inspections, nil
}

func getInspection(ctx context.Context, db Db, fnSource, orgId, id string, forUpdate bool) (*solar.Inspection, error) {
	where := `inspections.org_id = ? AND inspections.id = ?`
	if forUpdate {
		where += ` FOR UPDATE`
	}
	inspections, err := selectInspections(ctx, db, fnSource, where, orgId, id)
	if err != nil {
		return nil, err
	}
	if len(inspections) == 0 {
		return nil, fmt.Errorf("%s: inspection[%s]: %w", fnSource, id, ErrorNotFound)
	}
	return &inspections[0], nil
}

type ListInspectionsV1Opts struct {
	Db Db

	OrgId string
	JobId *string
}

func ListInspectionsV1(ctx context.Context, opts ListInspectionsV1Opts) ([]solar.Inspection, error) {
	where := `inspections.org_id = ?`
	args := []any{opts.OrgId}
	if opts.JobId != nil {
		where += ` AND inspections.job_id = ?`
		args = append(args, *opts.JobId)
	}
	return selectInspections(ctx, opts.Db, "models.ListInspectionsV1", where+` ORDER BY inspections.created_at DESC`, args...)
}

type ListScheduledInspectionsV1Opts struct {
	Db Db

	OrgId string
	From  time.Time
	To    time.Time
}

// ListScheduledInspectionsV1 returns SCHEDULED inspections inside
// [From, To] soonest first
func ListScheduledInspectionsV1(ctx context.Context, opts ListScheduledInspectionsV1Opts) ([]solar.Inspection, error) {
	return selectInspections(
		ctx,
		opts.Db,
		"models.ListScheduledInspectionsV1",
		`inspections.org_id = ?
			AND inspections.status = ?
			AND inspections.scheduled_for >= ?
			AND inspections.scheduled_for <= ?
			ORDER BY inspections.scheduled_for ASC`,
		opts.OrgId,
		string(solar.InspectionStatusScheduled),
		opts.From.UTC(),
		opts.To.UTC(),
	)
}

type CreateInspectionV1Opts struct {
	Db *sql.DB

	ActorUserId string
	Inspection  solar.Inspection
	Now         time.Time
}

// CreateInspectionV1 stores an inspection; a failed outcome also opens a
// correction task on the job
func CreateInspectionV1(ctx context.Context, opts CreateInspectionV1Opts) (*solar.Inspection, error) {
	inspection := opts.Inspection
	inspection.Id = uuid.NewString()
	var created *solar.Inspection
	err := withTransaction(ctx, opts.Db, "models.CreateInspectionV1", func(tx *sql.Tx) error {
		if _, err := GetJobV1(ctx, GetJobV1Opts{Db: tx, OrgId: inspection.OrgId, Id: inspection.JobId}); err != nil {
			return err
		}
		if err := executeMysqlInsert(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				INSERT INTO inspections(
					id,
					org_id,
					job_id,
					type,
					status,
					scheduled_for,
					completed_at,
					outcome,
					notes
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			Args: []any{
				inspection.Id,
				inspection.OrgId,
				inspection.JobId,
				string(inspection.Type),
				string(inspection.Status),
				utcTimePtr(inspection.ScheduledFor),
				utcTimePtr(inspection.CompletedAt),
				string(inspection.Outcome),
				inspection.Notes,
			},
			FnSource:     "models.CreateInspectionV1",
			RowsAffected: oneRowAffected,
		}); err != nil {
			return err
		}
		var err error
		if created, err = getInspection(ctx, tx, "models.CreateInspectionV1", inspection.OrgId, inspection.Id, false); err != nil {
			return err
		}
		if err := CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       inspection.OrgId,
				JobId:       &inspection.JobId,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionInspectionCreated,
				EntityType:  solar.ActivityEntityInspection,
				EntityId:    inspection.Id,
				After:       created,
			},
		}); err != nil {
			return err
		}
		return createCorrectionTaskOnFail(ctx, tx, *created, opts.ActorUserId, opts.Now)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

type UpdateInspectionV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string
	Input       solar.InspectionInput
	Now         time.Time
}

func UpdateInspectionV1(ctx context.Context, opts UpdateInspectionV1Opts) (*solar.Inspection, error) {
	var updated *solar.Inspection
	err := withTransaction(ctx, opts.Db, "models.UpdateInspectionV1", func(tx *sql.Tx) error {
		before, err := getInspection(ctx, tx, "models.UpdateInspectionV1", opts.OrgId, opts.Id, true)
		if err != nil {
			return err
		}
		next := opts.Input.ToInspection(opts.OrgId, before.JobId, before.Status)
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				UPDATE inspections SET
					type = ?,
					status = ?,
					scheduled_for = ?,
					completed_at = ?,
					outcome = ?,
					notes = ?,
					updated_at = NOW()
				WHERE org_id = ? AND id = ?`,
			Args: []any{
				string(next.Type),
				string(next.Status),
				utcTimePtr(next.ScheduledFor),
				utcTimePtr(next.CompletedAt),
				string(next.Outcome),
				next.Notes,
				opts.OrgId,
				opts.Id,
			},
			FnSource:     "models.UpdateInspectionV1",
			RowsAffected: atLeastNRowsAffected(0),
		}); err != nil {
			return err
		}
		if updated, err = getInspection(ctx, tx, "models.UpdateInspectionV1", opts.OrgId, opts.Id, false); err != nil {
			return err
		}
		if err := CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       opts.OrgId,
				JobId:       &before.JobId,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionInspectionUpdated,
				EntityType:  solar.ActivityEntityInspection,
				EntityId:    opts.Id,
				Before:      before,
				After:       updated,
			},
		}); err != nil {
			return err
		}
		return createCorrectionTaskOnFail(ctx, tx, *updated, opts.ActorUserId, opts.Now)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// createCorrectionTaskOnFail opens a correction task whenever the stored
// outcome is FAIL, including when it was already FAIL before the write
func createCorrectionTaskOnFail(ctx context.Context, db Db, inspection solar.Inspection, actorUserId string, now time.Time) error {
	if inspection.Outcome != solar.InspectionOutcomeFail {
		return nil
	}
	if now.IsZero() {
		now = time.Now()
	}
	_, err := CreateTaskV1(ctx, CreateTaskV1Opts{
		Db:          db,
		ActorUserId: actorUserId,
		Task:        solar.CorrectionTask(inspection.OrgId, inspection.JobId, now),
	})
	return err
}
