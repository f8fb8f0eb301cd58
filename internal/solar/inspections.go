package solar

import "time"

const (
	CorrectionTaskTitle = "Resolve inspection corrections"
	CorrectionTaskDueIn = 48 * time.Hour
)

// ResolveInspectionStatus applies the outcome rules: a FAIL forces
// RESCHEDULE_NEEDED, otherwise the requested status wins
func ResolveInspectionStatus(requested *InspectionStatus, current InspectionStatus, outcome *InspectionOutcome) InspectionStatus {
	if outcome != nil && *outcome == InspectionOutcomeFail {
		return InspectionStatusRescheduleNeeded
	}
	if requested != nil {
		return *requested
	}
	return current
}

// CorrectionTask is the follow-up created when an inspection fails
func CorrectionTask(orgId, jobId string, now time.Time) Task {
	dueAt := now.UTC().Add(CorrectionTaskDueIn)
	return Task{
		OrgId:  orgId,
		JobId:  &jobId,
		Title:  CorrectionTaskTitle,
		Status: TaskStatusOpen,
		DueAt:  &dueAt,
	}
}
