package models

import (
	"context"
	"database/sql"
	"encoding/json"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

// JobActivityLimit caps the activity feed shown on a job
const JobActivityLimit = 30

type CreateActivityV1Opts struct {
	Db Db

	Activity solar.Activity
}

func CreateActivityV1(ctx context.Context, opts CreateActivityV1Opts) error {
	activity := opts.Activity
	var before, after *string
	if activity.Before != nil {
		value, err := toJsonColumn(activity.Before)
		if err != nil {
			return err
		}
		before = &value
	}
	if activity.After != nil {
		value, err := toJsonColumn(activity.After)
		if err != nil {
			return err
		}
		after = &value
	}
	return executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO activity_logs(
				id,
				org_id,
				job_id,
				actor_user_id,
				action,
				entity_type,
				entity_id,
				before_json,
				after_json
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			uuid.NewString(),
			activity.OrgId,
			activity.JobId,
			activity.ActorUserId,
			activity.Action,
			activity.EntityType,
			activity.EntityId,
			before,
			after,
		},
		FnSource:     "models.CreateActivityV1",
		RowsAffected: oneRowAffected,
	})
}

type ListJobActivityV1Opts struct {
	Db Db

	OrgId string
	JobId string
}

// ListJobActivityV1 returns the newest entries first
func ListJobActivityV1(ctx context.Context, opts ListJobActivityV1Opts) ([]solar.Activity, error) {
	activities := []solar.Activity{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			SELECT id, org_id, job_id, actor_user_id, action, entity_type, entity_id, before_json, after_json, created_at
				FROM activity_logs
				WHERE org_id = ? AND job_id = ?
				ORDER BY created_at DESC
				LIMIT ?`,
		Args:     []any{opts.OrgId, opts.JobId, JobActivityLimit},
		FnSource: "models.ListJobActivityV1",
		ProcessRows: func(r *sql.Rows) error {
			var activity solar.Activity
			var jobId, actorUserId sql.NullString
			var before, after jsonColumn[json.RawMessage]
			if err := r.Scan(
				&activity.Id,
				&activity.OrgId,
				&jobId,
				&actorUserId,
				&activity.Action,
				&activity.EntityType,
				&activity.EntityId,
				&before,
				&after,
				&activity.CreatedAt,
			); err != nil {
				return err
			}
			activity.JobId = nullStringPtr(jobId)
			activity.ActorUserId = nullStringPtr(actorUserId)
			if before.Valid {
				activity.Before = before.Value
			}
			if after.Valid {
				activity.After = after.Value
			}
			activities = append(activities, activity)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return activities, nil
}
