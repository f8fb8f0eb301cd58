package solar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestJobInput(t *testing.T) {
	input := JobInput{CustomerName: "  Ada Lovelace ", SiteAddress: "12 Analytical Way"}
	input.Normalize()
	require.NoError(t, input.Validate())
	job := input.ToJob("org-1")
	require.Equal(t, JobStatusLead, job.Status)
	require.Equal(t, "Ada Lovelace", job.CustomerName)

	bad := JobInput{CustomerName: "A", SiteAddress: "x", Status: func() *JobStatus { s := JobStatus("DONE"); return &s }()}
	err := bad.Validate()
	require.ErrorIs(t, err, ErrorInvalidInput)
	require.ErrorContains(t, err, "customerName")
	require.ErrorContains(t, err, "siteAddress")
	require.ErrorContains(t, err, "status[DONE]")
}

func TestPermitQuickActions(t *testing.T) {
	friday := time.Date(2026, 3, 6, 15, 30, 0, 0, time.UTC)
	permit, err := PermitQuickActionContactedToday.Apply(Permit{}, friday)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), *permit.LastContactAt)

	permit, err = PermitQuickActionFollowUp3Days.Apply(Permit{}, friday)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), *permit.NextFollowUpAt)

	_, err = PermitQuickAction("later").Apply(Permit{}, friday)
	require.ErrorIs(t, err, ErrorInvalidInput)
}

func TestInspectionInputFailForcesReschedule(t *testing.T) {
	scheduled := InspectionStatusScheduled
	fail := InspectionOutcomeFail
	input := InspectionInput{Type: InspectionTypeBuilding, Status: &scheduled, Outcome: &fail}
	input.Normalize()
	require.NoError(t, input.Validate())
	inspection := input.ToInspection("org-1", "job-1", InspectionStatusNotScheduled)
	require.Equal(t, InspectionStatusRescheduleNeeded, inspection.Status)

	input = InspectionInput{Type: InspectionTypeUtilityMeter}
	input.Normalize()
	inspection = input.ToInspection("org-1", "job-1", InspectionStatusNotScheduled)
	require.Equal(t, InspectionOutcomeNa, inspection.Outcome)
	require.Equal(t, InspectionStatusNotScheduled, inspection.Status)
}

func TestTaskInput(t *testing.T) {
	input := TaskInput{Title: " Call utility ", JobId: func() *string { s := " "; return &s }()}
	input.Normalize()
	require.NoError(t, input.Validate())
	task := input.ToTask("org-1")
	require.Equal(t, TaskStatusOpen, task.Status)
	require.Nil(t, task.JobId)
	require.ErrorIs(t, TaskInput{Title: "x"}.Validate(), ErrorInvalidInput)
}
