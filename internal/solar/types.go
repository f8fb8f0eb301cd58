package solar

import "time"

type JobStatus string

const (
	JobStatusLead                JobStatus = "LEAD"
	JobStatusContracted          JobStatus = "CONTRACTED"
	JobStatusSiteSurvey          JobStatus = "SITE_SURVEY"
	JobStatusPermitSubmitted     JobStatus = "PERMIT_SUBMITTED"
	JobStatusPermitApproved      JobStatus = "PERMIT_APPROVED"
	JobStatusInstallScheduled    JobStatus = "INSTALL_SCHEDULED"
	JobStatusInstalled           JobStatus = "INSTALLED"
	JobStatusInspectionScheduled JobStatus = "INSPECTION_SCHEDULED"
	JobStatusPassed              JobStatus = "PASSED"
	JobStatusPtoRequested        JobStatus = "PTO_REQUESTED"
	JobStatusPtoGranted          JobStatus = "PTO_GRANTED"
	JobStatusOnHold              JobStatus = "ON_HOLD"
	JobStatusCancelled           JobStatus = "CANCELLED"
)

var JobStatuses = []JobStatus{
	JobStatusLead,
	JobStatusContracted,
	JobStatusSiteSurvey,
	JobStatusPermitSubmitted,
	JobStatusPermitApproved,
	JobStatusInstallScheduled,
	JobStatusInstalled,
	JobStatusInspectionScheduled,
	JobStatusPassed,
	JobStatusPtoRequested,
	JobStatusPtoGranted,
	JobStatusOnHold,
	JobStatusCancelled,
}

type PermitStatus string

const (
	PermitStatusNotStarted PermitStatus = "NOT_STARTED"
	PermitStatusSubmitted  PermitStatus = "SUBMITTED"
	PermitStatusInReview   PermitStatus = "IN_REVIEW"
	PermitStatusApproved   PermitStatus = "APPROVED"
	PermitStatusRejected   PermitStatus = "REJECTED"
)

var PermitStatuses = []PermitStatus{
	PermitStatusNotStarted,
	PermitStatusSubmitted,
	PermitStatusInReview,
	PermitStatusApproved,
	PermitStatusRejected,
}

type InspectionStatus string

const (
	InspectionStatusNotScheduled     InspectionStatus = "NOT_SCHEDULED"
	InspectionStatusScheduled        InspectionStatus = "SCHEDULED"
	InspectionStatusCompleted        InspectionStatus = "COMPLETED"
	InspectionStatusRescheduleNeeded InspectionStatus = "RESCHEDULE_NEEDED"
)

var InspectionStatuses = []InspectionStatus{
	InspectionStatusNotScheduled,
	InspectionStatusScheduled,
	InspectionStatusCompleted,
	InspectionStatusRescheduleNeeded,
}

type InspectionOutcome string

const (
	InspectionOutcomeNa   InspectionOutcome = "NA"
	InspectionOutcomePass InspectionOutcome = "PASS"
	InspectionOutcomeFail InspectionOutcome = "FAIL"
)

var InspectionOutcomes = []InspectionOutcome{
	InspectionOutcomeNa,
	InspectionOutcomePass,
	InspectionOutcomeFail,
}

type InspectionType string

const (
	InspectionTypeBuilding        InspectionType = "BUILDING"
	InspectionTypeFinalElectrical InspectionType = "FINAL_ELECTRICAL"
	InspectionTypeUtilityMeter    InspectionType = "UTILITY_METER"
)

var InspectionTypes = []InspectionType{
	InspectionTypeBuilding,
	InspectionTypeFinalElectrical,
	InspectionTypeUtilityMeter,
}

type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "OPEN"
	TaskStatusDone TaskStatus = "DONE"
)

type Role string

const (
	RoleOwner       Role = "OWNER"
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
	RoleCrew        Role = "CREW"
	RoleViewer      Role = "VIEWER"
)

var Roles = []Role{RoleOwner, RoleAdmin, RoleCoordinator, RoleCrew, RoleViewer}

// CoordinatorRoles receive permit and inspection reminders
var CoordinatorRoles = []Role{RoleOwner, RoleAdmin, RoleCoordinator}

type Job struct {
	Id               string    `json:"id"`
	OrgId            string    `json:"orgId"`
	CustomerName     string    `json:"customerName"`
	SiteAddress      string    `json:"siteAddress"`
	City             *string   `json:"city"`
	UtilityName      *string   `json:"utilityName"`
	JurisdictionName *string   `json:"jurisdictionName"`
	SystemSizeKw     *float64  `json:"systemSizeKw"`
	Status           JobStatus `json:"status"`
	Notes            *string   `json:"notes"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`

	DaysInStatus int `json:"daysInStatus"`
}

type Permit struct {
	Id               string       `json:"id"`
	OrgId            string       `json:"orgId"`
	JobId            string       `json:"jobId"`
	JurisdictionName string       `json:"jurisdictionName"`
	PermitNumber     *string      `json:"permitNumber"`
	Status           PermitStatus `json:"status"`
	SubmittedAt      *time.Time   `json:"submittedAt"`
	ApprovedAt       *time.Time   `json:"approvedAt"`
	LastContactAt    *time.Time   `json:"lastContactAt"`
	NextFollowUpAt   *time.Time   `json:"nextFollowUpAt"`
	Notes            *string      `json:"notes"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`

	// CustomerName and SiteAddress are read from the parent job
	CustomerName string `json:"customerName,omitempty"`
	SiteAddress  string `json:"siteAddress,omitempty"`
}

type Inspection struct {
	Id           string            `json:"id"`
	OrgId        string            `json:"orgId"`
	JobId        string            `json:"jobId"`
	Type         InspectionType    `json:"type"`
	Status       InspectionStatus  `json:"status"`
	ScheduledFor *time.Time        `json:"scheduledFor"`
	CompletedAt  *time.Time        `json:"completedAt"`
	Outcome      InspectionOutcome `json:"outcome"`
	Notes        *string           `json:"notes"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`

	CustomerName string `json:"customerName,omitempty"`
}

type Task struct {
	Id             string     `json:"id"`
	OrgId          string     `json:"orgId"`
	JobId          *string    `json:"jobId"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	Status         TaskStatus `json:"status"`
	DueAt          *time.Time `json:"dueAt"`
	AssigneeUserId *string    `json:"assigneeUserId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	CustomerName  *string `json:"customerName,omitempty"`
	AssigneeEmail *string `json:"assigneeEmail,omitempty"`
}

// Activity is an append-only change record scoped to a job
type Activity struct {
	Id          string    `json:"id"`
	OrgId       string    `json:"orgId"`
	JobId       *string   `json:"jobId"`
	ActorUserId *string   `json:"actorUserId"`
	Action      string    `json:"action"`
	EntityType  string    `json:"entityType"`
	EntityId    string    `json:"entityId"`
	Before      any       `json:"before,omitempty"`
	After       any       `json:"after,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

const (
	ActivityEntityJob        = "JOB"
	ActivityEntityPermit     = "PERMIT"
	ActivityEntityInspection = "INSPECTION"
	ActivityEntityTask       = "TASK"

	ActionJobStatusUpdated  = "job.status.updated"
	ActionPermitCreated     = "permit.created"
	ActionPermitUpdated     = "permit.updated"
	ActionInspectionCreated = "inspection.created"
	ActionInspectionUpdated = "inspection.updated"
	ActionTaskCreated       = "task.created"
	ActionTaskUpdated       = "task.updated"
)
