package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

const taskColumns = `tasks.id, tasks.org_id, tasks.job_id, tasks.title, tasks.description, tasks.status, tasks.due_at, tasks.assignee_user_id, tasks.created_at, tasks.updated_at, jobs.customer_name, users.email`

const taskJoins = `tasks LEFT JOIN jobs ON jobs.id = tasks.job_id LEFT JOIN users ON users.id = tasks.assignee_user_id`

func scanTask(row rowScanner) (*solar.Task, error) {
	var task solar.Task
	var jobId, description, assigneeUserId, customerName, assigneeEmail sql.NullString
	var dueAt sql.NullTime
	if err := row.Scan(
		&task.Id,
		&task.OrgId,
		&jobId,
		&task.Title,
		&description,
		&task.Status,
		&dueAt,
		&assigneeUserId,
		&task.CreatedAt,
		&task.UpdatedAt,
		&customerName,
		&assigneeEmail,
	); err != nil {
		return nil, err
	}
	task.JobId = nullStringPtr(jobId)
	task.Description = nullStringPtr(description)
	task.DueAt = nullTimePtr(dueAt)
	task.AssigneeUserId = nullStringPtr(assigneeUserId)
	task.CustomerName = nullStringPtr(customerName)
	task.AssigneeEmail = nullStringPtr(assigneeEmail)
	return &task, nil
}

func selectTasks(ctx context.Context, db Db, fnSource, where string, args ...any) ([]solar.Task, error) {
	tasks := []solar.Task{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, taskColumns, taskJoins, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			task, err := scanTask(r)
			if err != nil {
				return err
			}
			tasks = append(tasks, *task)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return tasks, nil
}

func getTask(ctx context.Context, db Db, fnSource, orgId, id string, forUpdate bool) (*solar.Task, error) {
	where := `tasks.org_id = ? AND tasks.id = ?`
	if forUpdate {
		where += ` FOR UPDATE`
	}
	tasks, err := selectTasks(ctx, db, fnSource, where, orgId, id)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%s: task[%s]: %w", fnSource, id, ErrorNotFound)
	}
	return &tasks[0], nil
}

type ListTasksV1Opts struct {
	Db Db

	OrgId  string
	JobId  *string
	Status *solar.TaskStatus
}

// ListTasksV1 orders tasks by due date with undated tasks last
func ListTasksV1(ctx context.Context, opts ListTasksV1Opts) ([]solar.Task, error) {
	where := `tasks.org_id = ?`
	args := []any{opts.OrgId}
	if opts.JobId != nil {
		where += ` AND tasks.job_id = ?`
		args = append(args, *opts.JobId)
	}
	if opts.Status != nil {
		where += ` AND tasks.status = ?`
		args = append(args, string(*opts.Status))
	}
	where += ` ORDER BY tasks.due_at IS NULL, tasks.due_at ASC, tasks.created_at ASC`
	return selectTasks(ctx, opts.Db, "models.ListTasksV1", where, args...)
}

type ListOpenTasksDueV1Opts struct {
	Db Db

	OrgId string
	From  time.Time
	To    time.Time
}

func ListOpenTasksDueV1(ctx context.Context, opts ListOpenTasksDueV1Opts) ([]solar.Task, error) {
	return selectTasks(
		ctx,
		opts.Db,
		"models.ListOpenTasksDueV1",
		`tasks.org_id = ?
			AND tasks.status = ?
			AND tasks.due_at >= ?
			AND tasks.due_at <= ?
			ORDER BY tasks.due_at ASC`,
		opts.OrgId,
		string(solar.TaskStatusOpen),
		opts.From.UTC(),
		opts.To.UTC(),
	)
}

type CountOpenTasksV1Opts struct {
	Db Db

	OrgId string
}

func CountOpenTasksV1(ctx context.Context, opts CountOpenTasksV1Opts) (int, error) {
	count := 0
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT COUNT(*) FROM tasks WHERE org_id = ? AND status = ?`,
		Args:     []any{opts.OrgId, string(solar.TaskStatusOpen)},
		FnSource: "models.CountOpenTasksV1",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&count)
		},
	}); err != nil {
		return 0, err
	}
	return count, nil
}

type CreateTaskV1Opts struct {
	Db Db

	ActorUserId string
	Task        solar.Task
}

// CreateTaskV1 inserts the task and its activity entry; callers wanting
// both to land together pass a transaction
func CreateTaskV1(ctx context.Context, opts CreateTaskV1Opts) (string, error) {
	task := opts.Task
	taskId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO tasks(
				id,
				org_id,
				job_id,
				title,
				description,
				status,
				due_at,
				assignee_user_id
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			taskId,
			task.OrgId,
			task.JobId,
			task.Title,
			task.Description,
			string(task.Status),
			utcTimePtr(task.DueAt),
			task.AssigneeUserId,
		},
		FnSource:     "models.CreateTaskV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	task.Id = taskId
	if err := CreateActivityV1(ctx, CreateActivityV1Opts{
		Db: opts.Db,
		Activity: solar.Activity{
			OrgId:       task.OrgId,
			JobId:       task.JobId,
			ActorUserId: &opts.ActorUserId,
			Action:      solar.ActionTaskCreated,
			EntityType:  solar.ActivityEntityTask,
			EntityId:    taskId,
			After:       task,
		},
	}); err != nil {
		return "", err
	}
	return taskId, nil
}

type GetTaskV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetTaskV1(ctx context.Context, opts GetTaskV1Opts) (*solar.Task, error) {
	return getTask(ctx, opts.Db, "models.GetTaskV1", opts.OrgId, opts.Id, false)
}

type UpdateTaskV1Opts struct {
	Db *sql.DB

	OrgId       string
	Id          string
	ActorUserId string

	// Update receives the stored task and returns the replacement
	Update func(solar.Task) (solar.Task, error)
}

func UpdateTaskV1(ctx context.Context, opts UpdateTaskV1Opts) (*solar.Task, error) {
	var updated *solar.Task
	err := withTransaction(ctx, opts.Db, "models.UpdateTaskV1", func(tx *sql.Tx) error {
		before, err := getTask(ctx, tx, "models.UpdateTaskV1", opts.OrgId, opts.Id, true)
		if err != nil {
			return err
		}
		next, err := opts.Update(*before)
		if err != nil {
			return err
		}
		if !next.Status.IsValid() {
			return fmt.Errorf("models.UpdateTaskV1: status[%s]: %w", next.Status, solar.ErrorInvalidInput)
		}
		if err := executeMysqlUpdate(ctx, mysqlQueryInput{
			Db: tx,
			Stmt: `
				UPDATE tasks SET
					job_id = ?,
					title = ?,
					description = ?,
					status = ?,
					due_at = ?,
					assignee_user_id = ?,
					updated_at = NOW()
				WHERE org_id = ? AND id = ?`,
			Args: []any{
				next.JobId,
				next.Title,
				next.Description,
				string(next.Status),
				utcTimePtr(next.DueAt),
				next.AssigneeUserId,
				opts.OrgId,
				opts.Id,
			},
			FnSource:     "models.UpdateTaskV1",
			RowsAffected: atLeastNRowsAffected(0),
		}); err != nil {
			return err
		}
		if updated, err = getTask(ctx, tx, "models.UpdateTaskV1", opts.OrgId, opts.Id, false); err != nil {
			return err
		}
		return CreateActivityV1(ctx, CreateActivityV1Opts{
			Db: tx,
			Activity: solar.Activity{
				OrgId:       opts.OrgId,
				JobId:       updated.JobId,
				ActorUserId: &opts.ActorUserId,
				Action:      solar.ActionTaskUpdated,
				EntityType:  solar.ActivityEntityTask,
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
