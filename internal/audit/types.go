package audit

import (
	"context"
	"errors"
	"time"
)

var (
	ErrorNotInitialized = errors.New("not_initialized")
)

type Verb string

const (
	Accept  Verb = "accept"
	Create  Verb = "create"
	Delete  Verb = "delete"
	Disable Verb = "disable"
	Enable  Verb = "enable"
	Import  Verb = "import"
	Login   Verb = "login"
	Logout  Verb = "logout"
	Execute Verb = "execute"
	Update  Verb = "update"
	Start   Verb = "start"
	Stop    Verb = "stop"
)

type EntityType string

const (
	UserEntity       EntityType = "user"
	OrgEntity        EntityType = "org"
	ControllerEntity EntityType = "controller"
	WorkerEntity     EntityType = "worker"
)

type ResourceType string

const (
	ClaimTemplateResource  ResourceType = "claim_template"
	FilterResource         ResourceType = "filter"
	FilterAliasResource    ResourceType = "filter_alias"
	ImportJobResource      ResourceType = "import_job"
	InvitationResource     ResourceType = "invitation"
	MembershipResource     ResourceType = "membership"
	OrgResource            ResourceType = "org"
	ReminderPolicyResource ResourceType = "reminder_policy"
	ReminderCycleResource  ResourceType = "reminder_cycle"
	SessionResource        ResourceType = "session"
	UserResource           ResourceType = "user"
	VendorResource         ResourceType = "vendor"
)

type Status string

const (
	Success Status = "success"
	Failed  Status = "failed"
)

type LogEntries []LogEntry

type LogEntry struct {
	EntityId     string         `bson:"entityId" json:"entityId"`
	EntityType   EntityType     `bson:"entityType" json:"entityType"`
	Verb         Verb           `bson:"verb" json:"verb"`
	OrgId        string         `bson:"orgId,omitempty" json:"orgId,omitempty"`
	ResourceId   string         `bson:"resourceId,omitempty" json:"resourceId,omitempty"`
	ResourceType ResourceType   `bson:"resourceType,omitempty" json:"resourceType,omitempty"`
	Status       Status         `bson:"status,omitempty" json:"status,omitempty"`
	SrcIp        *string        `bson:"srcIp,omitempty" json:"srcIp,omitempty"`
	SrcUa        *string        `bson:"srcUa,omitempty" json:"srcUa,omitempty"`
	Timestamp    time.Time      `bson:"timestamp" json:"timestamp"`
	Data         map[string]any `bson:"data,omitempty" json:"data,omitempty"`
}

type Logger interface {
	Log(ctx context.Context, log LogEntry) error
	GetByEntity(ctx context.Context, entityId string, entityType EntityType, cursor time.Time, limit int64) (LogEntries, error)
}
