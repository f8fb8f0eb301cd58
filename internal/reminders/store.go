package reminders

import (
	"context"
	"time"
	"tradedesk/internal/solar"
)

// Store is the data the reminder cycle reads and writes
type Store interface {
	ListEnabledPolicies(ctx context.Context) ([]Policy, error)

	// ListFollowUpPermits returns SUBMITTED or IN_REVIEW permits whose
	// next follow-up is at or before deadline
	ListFollowUpPermits(ctx context.Context, orgId string, deadline time.Time) ([]solar.Permit, error)

	// ListScheduledInspections returns SCHEDULED inspections between
	// from and to inclusive
	ListScheduledInspections(ctx context.Context, orgId string, from, to time.Time) ([]solar.Inspection, error)

	// ListOpenTasksDue returns OPEN tasks due between from and to
	// inclusive with the assignee email resolved
	ListOpenTasksDue(ctx context.Context, orgId string, from, to time.Time) ([]solar.Task, error)

	ListCoordinatorEmails(ctx context.Context, orgId string) ([]string, error)
	HasSentSince(ctx context.Context, key DedupeKey, since time.Time) (bool, error)
	CreateLog(ctx context.Context, log Log) error
}
