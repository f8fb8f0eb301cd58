package solar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrorInvalidInput      = errors.New("invalid_input")
	ErrorInvalidTransition = errors.New("invalid_transition")
)

type JobInput struct {
	CustomerName     string     `json:"customerName"`
	SiteAddress      string     `json:"siteAddress"`
	City             *string    `json:"city"`
	UtilityName      *string    `json:"utilityName"`
	JurisdictionName *string    `json:"jurisdictionName"`
	SystemSizeKw     *float64   `json:"systemSizeKw"`
	Status           *JobStatus `json:"status"`
	Notes            *string    `json:"notes"`
}

func (j *JobInput) Normalize() {
	j.CustomerName = strings.TrimSpace(j.CustomerName)
	j.SiteAddress = strings.TrimSpace(j.SiteAddress)
	j.City = trimOptional(j.City)
	j.UtilityName = trimOptional(j.UtilityName)
	j.JurisdictionName = trimOptional(j.JurisdictionName)
	j.Notes = trimOptional(j.Notes)
	if j.Status == nil {
		status := JobStatusLead
		j.Status = &status
	}
}

func (j JobInput) Validate() error {
	errs := []error{}
	if len(j.CustomerName) < 2 {
		errs = append(errs, errors.New("customerName must be at least 2 characters"))
	}
	if len(j.SiteAddress) < 5 {
		errs = append(errs, errors.New("siteAddress must be at least 5 characters"))
	}
	if j.SystemSizeKw != nil && *j.SystemSizeKw <= 0 {
		errs = append(errs, errors.New("systemSizeKw must be positive"))
	}
	if j.Status != nil && !j.Status.IsValid() {
		errs = append(errs, fmt.Errorf("status[%s] is not a job status", *j.Status))
	}
	return joinInputErrors(errs)
}

func (j JobInput) ToJob(orgId string) Job {
	status := JobStatusLead
	if j.Status != nil {
		status = *j.Status
	}
	return Job{
		OrgId:            orgId,
		CustomerName:     j.CustomerName,
		SiteAddress:      j.SiteAddress,
		City:             j.City,
		UtilityName:      j.UtilityName,
		JurisdictionName: j.JurisdictionName,
		SystemSizeKw:     j.SystemSizeKw,
		Status:           status,
		Notes:            j.Notes,
	}
}

type PermitInput struct {
	JurisdictionName string        `json:"jurisdictionName"`
	PermitNumber     *string       `json:"permitNumber"`
	Status           *PermitStatus `json:"status"`
	SubmittedAt      *time.Time    `json:"submittedAt"`
	ApprovedAt       *time.Time    `json:"approvedAt"`
	LastContactAt    *time.Time    `json:"lastContactAt"`
	NextFollowUpAt   *time.Time    `json:"nextFollowUpAt"`
	Notes            *string       `json:"notes"`
}

func (p *PermitInput) Normalize() {
	p.JurisdictionName = strings.TrimSpace(p.JurisdictionName)
	p.PermitNumber = trimOptional(p.PermitNumber)
	p.Notes = trimOptional(p.Notes)
	if p.Status == nil {
		status := PermitStatusNotStarted
		p.Status = &status
	}
}

func (p PermitInput) Validate() error {
	errs := []error{}
	if len(p.JurisdictionName) < 2 {
		errs = append(errs, errors.New("jurisdictionName must be at least 2 characters"))
	}
	if p.Status != nil && !p.Status.IsValid() {
		errs = append(errs, fmt.Errorf("status[%s] is not a permit status", *p.Status))
	}
	return joinInputErrors(errs)
}

// ToPermit returns the permit the input describes; Id and timestamps
// are left to the store
func (p PermitInput) ToPermit(orgId, jobId string) Permit {
	status := PermitStatusNotStarted
	if p.Status != nil {
		status = *p.Status
	}
	return Permit{
		OrgId:            orgId,
		JobId:            jobId,
		JurisdictionName: p.JurisdictionName,
		PermitNumber:     p.PermitNumber,
		Status:           status,
		SubmittedAt:      utcPtr(p.SubmittedAt),
		ApprovedAt:       utcPtr(p.ApprovedAt),
		LastContactAt:    utcPtr(p.LastContactAt),
		NextFollowUpAt:   utcPtr(p.NextFollowUpAt),
		Notes:            p.Notes,
	}
}

// PermitQuickAction names the one-click follow-up shortcuts
type PermitQuickAction string

const (
	PermitQuickActionContactedToday PermitQuickAction = "contacted-today"
	PermitQuickActionFollowUp3Days  PermitQuickAction = "follow-up-3-business-days"
)

// Apply returns the permit with the quick action's date set
func (a PermitQuickAction) Apply(permit Permit, now time.Time) (Permit, error) {
	switch a {
	case PermitQuickActionContactedToday:
		at := ContactedToday(now)
		permit.LastContactAt = &at
	case PermitQuickActionFollowUp3Days:
		at := FollowUpInThreeBusinessDays(now)
		permit.NextFollowUpAt = &at
	default:
		return permit, fmt.Errorf("quick action[%s] is not supported: %w", a, ErrorInvalidInput)
	}
	return permit, nil
}

type InspectionInput struct {
	Type         InspectionType     `json:"type"`
	Status       *InspectionStatus  `json:"status"`
	Outcome      *InspectionOutcome `json:"outcome"`
	ScheduledFor *time.Time         `json:"scheduledFor"`
	CompletedAt  *time.Time         `json:"completedAt"`
	Notes        *string            `json:"notes"`
}

func (i *InspectionInput) Normalize() {
	i.Notes = trimOptional(i.Notes)
	if i.Outcome == nil {
		outcome := InspectionOutcomeNa
		i.Outcome = &outcome
	}
}

func (i InspectionInput) Validate() error {
	errs := []error{}
	if !i.Type.IsValid() {
		errs = append(errs, fmt.Errorf("type[%s] is not an inspection type", i.Type))
	}
	if i.Status != nil && !i.Status.IsValid() {
		errs = append(errs, fmt.Errorf("status[%s] is not an inspection status", *i.Status))
	}
	if i.Outcome != nil && !i.Outcome.IsValid() {
		errs = append(errs, fmt.Errorf("outcome[%s] is not an inspection outcome", *i.Outcome))
	}
	return joinInputErrors(errs)
}

// ToInspection resolves the status against current with the outcome
// rules, pass InspectionStatusNotScheduled as current for new records
func (i InspectionInput) ToInspection(orgId, jobId string, current InspectionStatus) Inspection {
	outcome := InspectionOutcomeNa
	if i.Outcome != nil {
		outcome = *i.Outcome
	}
	return Inspection{
		OrgId:        orgId,
		JobId:        jobId,
		Type:         i.Type,
		Status:       ResolveInspectionStatus(i.Status, current, &outcome),
		Outcome:      outcome,
		ScheduledFor: utcPtr(i.ScheduledFor),
		CompletedAt:  utcPtr(i.CompletedAt),
		Notes:        i.Notes,
	}
}

type TaskInput struct {
	JobId          *string     `json:"jobId"`
	Title          string      `json:"title"`
	Description    *string     `json:"description"`
	Status         *TaskStatus `json:"status"`
	DueAt          *time.Time  `json:"dueAt"`
	AssigneeUserId *string     `json:"assigneeUserId"`
}

func (t *TaskInput) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.JobId = trimOptional(t.JobId)
	t.Description = trimOptional(t.Description)
	t.AssigneeUserId = trimOptional(t.AssigneeUserId)
	if t.Status == nil {
		status := TaskStatusOpen
		t.Status = &status
	}
}

func (t TaskInput) Validate() error {
	errs := []error{}
	if len(t.Title) < 2 {
		errs = append(errs, errors.New("title must be at least 2 characters"))
	}
	if t.Status != nil && !t.Status.IsValid() {
		errs = append(errs, fmt.Errorf("status[%s] is not a task status", *t.Status))
	}
	return joinInputErrors(errs)
}

func (t TaskInput) ToTask(orgId string) Task {
	status := TaskStatusOpen
	if t.Status != nil {
		status = *t.Status
	}
	return Task{
		OrgId:          orgId,
		JobId:          t.JobId,
		Title:          t.Title,
		Description:    t.Description,
		Status:         status,
		DueAt:          utcPtr(t.DueAt),
		AssigneeUserId: t.AssigneeUserId,
	}
}

func joinInputErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(append([]error{ErrorInvalidInput}, errs...)...)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func utcPtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	return &t
}
