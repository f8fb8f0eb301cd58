package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCanTransitionJobStatus(t *testing.T) {
	allowed := [][2]JobStatus{
		{JobStatusLead, JobStatusContracted},
		{JobStatusPermitSubmitted, JobStatusPermitApproved},
		{JobStatusPtoRequested, JobStatusPtoGranted},
		{JobStatusOnHold, JobStatusContracted},
		{JobStatusCancelled, JobStatusCancelled},
	}
	for _, pair := range allowed {
		require.True(t, CanTransitionJobStatus(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
	blocked := [][2]JobStatus{
		{JobStatusLead, JobStatusPtoGranted},
		{JobStatusCancelled, JobStatusContracted},
		{JobStatusPassed, JobStatusOnHold},
		{JobStatusPtoGranted, JobStatusOnHold},
		{JobStatusInstalled, JobStatusCancelled},
	}
	for _, pair := range blocked {
		require.False(t, CanTransitionJobStatus(pair[0], pair[1]), "%s -> %s", pair[0], pair[1])
	}
}

func TestEveryJobStatusHasTransitions(t *testing.T) {
	for _, status := range JobStatuses {
		require.True(t, status.IsValid(), status)
	}
	require.False(t, JobStatus("DONE").IsValid())
}

func TestDaysInStatus(t *testing.T) {
	now := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 2, DaysInStatus(time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC), now))
	require.Equal(t, 0, DaysInStatus(now.Add(time.Hour), now))
}

func TestRoles(t *testing.T) {
	require.True(t, RoleCoordinator.IsCoordinator())
	require.False(t, RoleCrew.IsCoordinator())
	require.True(t, RoleCrew.CanEditJobDetails())
	require.False(t, RoleViewer.CanEditJobDetails())
	require.False(t, Role("GUEST").CanEditJobDetails())
}
