package solar

import (
	"slices"
	"time"
)

var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusLead:                {JobStatusContracted, JobStatusCancelled},
	JobStatusContracted:          {JobStatusSiteSurvey, JobStatusOnHold, JobStatusCancelled},
	JobStatusSiteSurvey:          {JobStatusPermitSubmitted, JobStatusOnHold, JobStatusCancelled},
	JobStatusPermitSubmitted:     {JobStatusPermitApproved, JobStatusOnHold, JobStatusCancelled},
	JobStatusPermitApproved:      {JobStatusInstallScheduled, JobStatusOnHold, JobStatusCancelled},
	JobStatusInstallScheduled:    {JobStatusInstalled, JobStatusOnHold, JobStatusCancelled},
	JobStatusInstalled:           {JobStatusInspectionScheduled, JobStatusOnHold},
	JobStatusInspectionScheduled: {JobStatusPassed, JobStatusOnHold},
	JobStatusPassed:              {JobStatusPtoRequested},
	JobStatusPtoRequested:        {JobStatusPtoGranted, JobStatusOnHold},
	JobStatusPtoGranted:          {},
	JobStatusOnHold:              {JobStatusContracted, JobStatusCancelled},
	JobStatusCancelled:           {},
}

// CanTransitionJobStatus reports whether a job may move from current
// to next; staying in the same status is always allowed
func CanTransitionJobStatus(current, next JobStatus) bool {
	if current == next {
		return true
	}
	return slices.Contains(jobTransitions[current], next)
}

// NextJobStatuses lists the statuses reachable in one step
func NextJobStatuses(current JobStatus) []JobStatus {
	return slices.Clone(jobTransitions[current])
}

func (s JobStatus) IsValid() bool {
	_, ok := jobTransitions[s]
	return ok
}

func (s PermitStatus) IsValid() bool {
	return slices.Contains(PermitStatuses, s)
}

func (s InspectionStatus) IsValid() bool {
	return slices.Contains(InspectionStatuses, s)
}

func (o InspectionOutcome) IsValid() bool {
	return slices.Contains(InspectionOutcomes, o)
}

func (t InspectionType) IsValid() bool {
	return slices.Contains(InspectionTypes, t)
}

func (s TaskStatus) IsValid() bool {
	return s == TaskStatusOpen || s == TaskStatusDone
}

func (r Role) IsValid() bool {
	return slices.Contains(Roles, r)
}

func (r Role) IsCoordinator() bool {
	return slices.Contains(CoordinatorRoles, r)
}

func (r Role) CanEditJobDetails() bool {
	return r.IsValid() && r != RoleViewer
}

func (r Role) CanManageReminderPolicies() bool {
	return r == RoleOwner || r == RoleAdmin
}

// DaysInStatus counts whole days since the last status change, never
// negative
func DaysInStatus(updatedAt, now time.Time) int {
	days := int(now.Sub(updatedAt) / (24 * time.Hour))
	return max(0, days)
}
