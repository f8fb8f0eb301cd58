package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestQuickActions(t *testing.T) {
	// 2026-01-09 is a Friday
	friday := time.Date(2026, 1, 9, 15, 30, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 1, 9, 0, 0, 0, 0, time.UTC), ContactedToday(friday))
	require.Equal(t, time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC), FollowUpInThreeBusinessDays(friday))

	saturday := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
	require.Equal(t, time.Date(2026, 1, 14, 0, 0, 0, 0, time.UTC), FollowUpInThreeBusinessDays(saturday))
}

func TestIsPermitStuck(t *testing.T) {
	today := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	criteria := StuckPermitCriteria{Today: today}
	at := func(days int) *time.Time {
		v := today.AddDate(0, 0, days)
		return &v
	}

	cases := []struct {
		name     string
		permit   Permit
		expected bool
	}{
		{"follow up due today", Permit{Status: PermitStatusSubmitted, NextFollowUpAt: at(0)}, true},
		{"follow up in future", Permit{Status: PermitStatusSubmitted, NextFollowUpAt: at(1), LastContactAt: at(-1)}, false},
		{"stale contact", Permit{Status: PermitStatusInReview, LastContactAt: at(-6)}, true},
		{"recent contact", Permit{Status: PermitStatusInReview, LastContactAt: at(-5)}, false},
		{"submitted a week ago never contacted", Permit{Status: PermitStatusSubmitted, SubmittedAt: at(-7)}, true},
		{"submitted recently never contacted", Permit{Status: PermitStatusSubmitted, SubmittedAt: at(-6)}, false},
		{"approved permits are never stuck", Permit{Status: PermitStatusApproved, NextFollowUpAt: at(-3)}, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.expected, IsPermitStuck(c.permit, criteria))
		})
	}
}

func TestStuckPermitClause(t *testing.T) {
	today := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	clause, args := StuckPermitClause("org_1", StuckPermitCriteria{Today: today, StaleContactDays: 5})
	require.Contains(t, clause, "permits.status IN (?, ?)")
	require.Equal(t, []any{
		"org_1",
		"SUBMITTED",
		"IN_REVIEW",
		today,
		time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC),
	}, args)
}

func TestSortByNextFollowUp(t *testing.T) {
	first := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.AddDate(0, 0, 1)
	permits := []Permit{{Id: "b", NextFollowUpAt: &second}, {Id: "nil"}, {Id: "a", NextFollowUpAt: &first}}
	SortByNextFollowUp(permits)
	require.Equal(t, "nil", permits[0].Id)
	require.Equal(t, "a", permits[1].Id)
	require.Equal(t, "b", permits[2].Id)
}

func TestInspectionOutcome(t *testing.T) {
	fail := InspectionOutcomeFail
	pass := InspectionOutcomePass
	completed := InspectionStatusCompleted
	require.Equal(t, InspectionStatusRescheduleNeeded, ResolveInspectionStatus(&completed, InspectionStatusScheduled, &fail))
	require.Equal(t, InspectionStatusCompleted, ResolveInspectionStatus(&completed, InspectionStatusScheduled, &pass))
	require.Equal(t, InspectionStatusScheduled, ResolveInspectionStatus(nil, InspectionStatusScheduled, nil))

	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	task := CorrectionTask("org", "job", now)
	require.Equal(t, CorrectionTaskTitle, task.Title)
	require.Equal(t, TaskStatusOpen, task.Status)
	require.Equal(t, now.Add(48*time.Hour), *task.DueAt)
}

func TestIsInspectionUpcoming(t *testing.T) {
	now := time.Date(2026, 1, 10, 8, 0, 0, 0, time.UTC)
	in := func(d time.Duration) *time.Time {
		v := now.Add(d)
		return &v
	}
	require.True(t, IsInspectionUpcoming(Inspection{Status: InspectionStatusScheduled, ScheduledFor: in(48 * time.Hour)}, now))
	require.False(t, IsInspectionUpcoming(Inspection{Status: InspectionStatusScheduled, ScheduledFor: in(8 * 24 * time.Hour)}, now))
	require.False(t, IsInspectionUpcoming(Inspection{Status: InspectionStatusNotScheduled, ScheduledFor: in(time.Hour)}, now))
}
