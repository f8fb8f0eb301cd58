package models

import (
	"context"
	"database/sql"
	"fmt"
	"time"
	"tradedesk/internal/reminders"
	"tradedesk/internal/solar"

	"github.com/google/uuid"
)

const reminderPolicyColumns = `id, org_id, name, trigger_type, channel, offset_hours, enabled, created_at, updated_at`

func scanReminderPolicy(row rowScanner) (*reminders.Policy, error) {
	var policy reminders.Policy
	if err := row.Scan(
		&policy.Id,
		&policy.OrgId,
		&policy.Name,
		&policy.TriggerType,
		&policy.Channel,
		&policy.OffsetHours,
		&policy.Enabled,
		&policy.CreatedAt,
		&policy.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &policy, nil
}

func selectReminderPolicies(ctx context.Context, db Db, fnSource, where string, args ...any) ([]reminders.Policy, error) {
	policies := []reminders.Policy{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM reminder_policies WHERE %s`, reminderPolicyColumns, where),
		Args:     args,
		FnSource: fnSource,
		ProcessRows: func(r *sql.Rows) error {
			policy, err := scanReminderPolicy(r)
			if err != nil {
				return err
			}
			policies = append(policies, *policy)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return policies, nil
}

type CreateReminderPolicyV1Opts struct {
	Db Db

	Policy reminders.Policy
}

func CreateReminderPolicyV1(ctx context.Context, opts CreateReminderPolicyV1Opts) (string, error) {
	policy := opts.Policy
	if policy.Channel == "" {
		policy.Channel = reminders.ChannelEmail
	}
	if err := policy.Validate(); err != nil {
		return "", fmt.Errorf("models.CreateReminderPolicyV1: %w", err)
	}
	policyId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO reminder_policies(
				id,
				org_id,
				name,
				trigger_type,
				channel,
				offset_hours,
				enabled
			) VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			policyId,
			policy.OrgId,
			policy.Name,
			string(policy.TriggerType),
			string(policy.Channel),
			policy.OffsetHours,
			policy.Enabled,
		},
		FnSource:     "models.CreateReminderPolicyV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return policyId, nil
}

type ListReminderPoliciesV1Opts struct {
	Db Db

	OrgId string
}

func ListReminderPoliciesV1(ctx context.Context, opts ListReminderPoliciesV1Opts) ([]reminders.Policy, error) {
	return selectReminderPolicies(ctx, opts.Db, "models.ListReminderPoliciesV1", `org_id = ? ORDER BY created_at ASC`, opts.OrgId)
}

type ListEnabledReminderPoliciesV1Opts struct {
	Db Db
}

// ListEnabledReminderPoliciesV1 spans every org, it feeds the reminder
// cycle
func ListEnabledReminderPoliciesV1(ctx context.Context, opts ListEnabledReminderPoliciesV1Opts) ([]reminders.Policy, error) {
	return selectReminderPolicies(ctx, opts.Db, "models.ListEnabledReminderPoliciesV1", `enabled = TRUE ORDER BY org_id, created_at ASC`)
}

type GetReminderPolicyV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func GetReminderPolicyV1(ctx context.Context, opts GetReminderPolicyV1Opts) (*reminders.Policy, error) {
	var policy *reminders.Policy
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM reminder_policies WHERE org_id = ? AND id = ?`, reminderPolicyColumns),
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.GetReminderPolicyV1",
		ProcessRow: func(r *sql.Row) (err error) {
			policy, err = scanReminderPolicy(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	return policy, nil
}

type UpdateReminderPolicyV1Opts struct {
	Db Db

	Policy reminders.Policy
}

func UpdateReminderPolicyV1(ctx context.Context, opts UpdateReminderPolicyV1Opts) error {
	policy := opts.Policy
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("models.UpdateReminderPolicyV1: %w", err)
	}
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			UPDATE reminder_policies SET
				name = ?,
				trigger_type = ?,
				channel = ?,
				offset_hours = ?,
				enabled = ?,
				updated_at = NOW()
			WHERE org_id = ? AND id = ?`,
		Args: []any{
			policy.Name,
			string(policy.TriggerType),
			string(policy.Channel),
			policy.OffsetHours,
			policy.Enabled,
			policy.OrgId,
			policy.Id,
		},
		FnSource:     "models.UpdateReminderPolicyV1",
		RowsAffected: oneRowAffected,
	})
}

type DeleteReminderPolicyV1Opts struct {
	Db Db

	OrgId string
	Id    string
}

func DeleteReminderPolicyV1(ctx context.Context, opts DeleteReminderPolicyV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM reminder_policies WHERE org_id = ? AND id = ?`,
		Args:     []any{opts.OrgId, opts.Id},
		FnSource: "models.DeleteReminderPolicyV1",
	})
}

type ListReminderLogsV1Opts struct {
	Db Db

	OrgId string
	Limit int
}

func ListReminderLogsV1(ctx context.Context, opts ListReminderLogsV1Opts) ([]reminders.Log, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	logs := []reminders.Log{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			SELECT id, org_id, policy_id, related_type, related_id, channel, trigger_type, status, message, sent_at
				FROM reminder_logs
				WHERE org_id = ?
				ORDER BY sent_at DESC
				LIMIT ?`,
		Args:     []any{opts.OrgId, limit},
		FnSource: "models.ListReminderLogsV1",
		ProcessRows: func(r *sql.Rows) error {
			var log reminders.Log
			var policyId, message sql.NullString
			if err := r.Scan(
				&log.Id,
				&log.OrgId,
				&policyId,
				&log.RelatedType,
				&log.RelatedId,
				&log.Channel,
				&log.TriggerType,
				&log.Status,
				&message,
				&log.SentAt,
			); err != nil {
				return err
			}
			log.PolicyId = nullStringPtr(policyId)
			log.Message = nullStringPtr(message)
			log.SentAt = log.SentAt.UTC()
			logs = append(logs, log)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return logs, nil
}

// ReminderStore backs the reminder cycle with MySQL
type ReminderStore struct {
	Db *sql.DB
}

func (s ReminderStore) ListEnabledPolicies(ctx context.Context) ([]reminders.Policy, error) {
	return ListEnabledReminderPoliciesV1(ctx, ListEnabledReminderPoliciesV1Opts{Db: s.Db})
}

func (s ReminderStore) ListFollowUpPermits(ctx context.Context, orgId string, deadline time.Time) ([]solar.Permit, error) {
	return ListFollowUpPermitsV1(ctx, ListFollowUpPermitsV1Opts{Db: s.Db, OrgId: orgId, Deadline: deadline})
}

func (s ReminderStore) ListScheduledInspections(ctx context.Context, orgId string, from, to time.Time) ([]solar.Inspection, error) {
	return ListScheduledInspectionsV1(ctx, ListScheduledInspectionsV1Opts{Db: s.Db, OrgId: orgId, From: from, To: to})
}

func (s ReminderStore) ListOpenTasksDue(ctx context.Context, orgId string, from, to time.Time) ([]solar.Task, error) {
	return ListOpenTasksDueV1(ctx, ListOpenTasksDueV1Opts{Db: s.Db, OrgId: orgId, From: from, To: to})
}

func (s ReminderStore) ListCoordinatorEmails(ctx context.Context, orgId string) ([]string, error) {
	roles := make([]string, 0, len(solar.CoordinatorRoles))
	for _, role := range solar.CoordinatorRoles {
		roles = append(roles, string(role))
	}
	return ListMemberEmailsByRoleV1(ctx, ListMemberEmailsByRoleV1Opts{Db: s.Db, OrgId: orgId, Roles: roles})
}

// HasSentSince only counts SENT logs so that skipped and failed attempts
// are retried on the next cycle
func (s ReminderStore) HasSentSince(ctx context.Context, key reminders.DedupeKey, since time.Time) (bool, error) {
	count := 0
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db: s.Db,
		Stmt: `
			SELECT COUNT(*) FROM reminder_logs
				WHERE org_id = ?
					AND related_type = ?
					AND related_id = ?
					AND channel = ?
					AND trigger_type = ?
					AND status = ?
					AND sent_at >= ?`,
		Args: []any{
			key.OrgId,
			string(key.RelatedType),
			key.RelatedId,
			string(key.Channel),
			string(key.TriggerType),
			string(reminders.LogStatusSent),
			since.UTC(),
		},
		FnSource: "models.ReminderStore.HasSentSince",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&count)
		},
	}); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s ReminderStore) CreateLog(ctx context.Context, log reminders.Log) error {
	if log.Id == "" {
		log.Id = uuid.NewString()
	}
	return executeMysqlInsert(ctx, mysqlQueryInput{
		Db: s.Db,
		Stmt: `
			INSERT INTO reminder_logs(
				id,
				org_id,
				policy_id,
				related_type,
				related_id,
				channel,
				trigger_type,
				status,
				message,
				sent_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
		Args: []any{
			log.Id,
			log.OrgId,
			log.PolicyId,
			string(log.RelatedType),
			log.RelatedId,
			string(log.Channel),
			string(log.TriggerType),
			string(log.Status),
			log.Message,
			log.SentAt.UTC(),
		},
		FnSource:     "models.ReminderStore.CreateLog",
		RowsAffected: oneRowAffected,
	})
}
