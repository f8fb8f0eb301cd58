package reminders

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrorCycleInProgress = errors.New("cycle_in_progress")
	ErrorInvalidPolicy   = errors.New("invalid_policy")
	ErrorStoreUndefined  = errors.New("store_undefined")
	ErrorSenderUndefined = errors.New("sender_undefined")
)

type TriggerType string

const (
	TriggerPermitFollowUp     TriggerType = "PERMIT_FOLLOWUP"
	TriggerInspectionUpcoming TriggerType = "INSPECTION_UPCOMING"
	TriggerTaskDue            TriggerType = "TASK_DUE"
)

var TriggerTypes = []TriggerType{TriggerPermitFollowUp, TriggerInspectionUpcoming, TriggerTaskDue}

func (t TriggerType) IsValid() bool {
	return slices.Contains(TriggerTypes, t)
}

type Channel string

const ChannelEmail Channel = "EMAIL"

type RelatedType string

const (
	RelatedPermit     RelatedType = "PERMIT"
	RelatedInspection RelatedType = "INSPECTION"
	RelatedTask       RelatedType = "TASK"
)

type LogStatus string

const (
	LogStatusSent    LogStatus = "SENT"
	LogStatusSkipped LogStatus = "SKIPPED"
	LogStatusFailed  LogStatus = "FAILED"
)

const (
	DedupeWindow = 24 * time.Hour

	MessageDuplicate    = "Duplicate reminder within 24h window"
	MessageNoRecipients = "No recipients for reminder"

	MaxOffsetHours = 24 * 30
)

type Policy struct {
	Id          string      `json:"id"`
	OrgId       string      `json:"orgId"`
	Name        string      `json:"name"`
	TriggerType TriggerType `json:"triggerType"`
	Channel     Channel     `json:"channel"`
	OffsetHours int         `json:"offsetHours"`
	Enabled     bool        `json:"enabled"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Validate checks a policy before it is stored
func (p Policy) Validate() error {
	errs := []error{}
	if len(p.Name) < 2 || len(p.Name) > 120 {
		errs = append(errs, errors.New("name must be between 2 and 120 characters"))
	}
	if !p.TriggerType.IsValid() {
		errs = append(errs, errors.New("trigger type is not supported"))
	}
	if p.Channel != ChannelEmail {
		errs = append(errs, errors.New("channel must be EMAIL"))
	}
	if p.OffsetHours < 0 || p.OffsetHours > MaxOffsetHours {
		errs = append(errs, errors.New("offset hours must be between 0 and 720"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrorInvalidPolicy}, errs...)...)
	}
	return nil
}

type Log struct {
	Id          string      `json:"id"`
	OrgId       string      `json:"orgId"`
	PolicyId    *string     `json:"policyId"`
	RelatedType RelatedType `json:"relatedType"`
	RelatedId   string      `json:"relatedId"`
	Channel     Channel     `json:"channel"`
	TriggerType TriggerType `json:"triggerType"`
	Status      LogStatus   `json:"status"`
	Message     *string     `json:"message"`
	SentAt      time.Time   `json:"sentAt"`
}

// DedupeKey identifies reminders that count as the same notification
type DedupeKey struct {
	OrgId       string
	RelatedType RelatedType
	RelatedId   string
	Channel     Channel
	TriggerType TriggerType
}

// DedupeWindowStart is the earliest SENT timestamp that suppresses a
// new reminder
func DedupeWindowStart(now time.Time) time.Time {
	return now.Add(-DedupeWindow)
}

// DefaultPolicies are seeded into every new solar org
func DefaultPolicies(orgId string) []Policy {
	return []Policy{
		{OrgId: orgId, Name: "Permit Follow-up", TriggerType: TriggerPermitFollowUp, Channel: ChannelEmail, OffsetHours: 0, Enabled: true},
		{OrgId: orgId, Name: "Inspection 24h Reminder", TriggerType: TriggerInspectionUpcoming, Channel: ChannelEmail, OffsetHours: 24, Enabled: true},
		{OrgId: orgId, Name: "Task 24h Reminder", TriggerType: TriggerTaskDue, Channel: ChannelEmail, OffsetHours: 24, Enabled: true},
	}
}

type CycleResult struct {
	Sent    int `json:"sent"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}
