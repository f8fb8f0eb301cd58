package reminders

import (
	"context"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
	"tradedesk/internal/email"
)

const (
	// CycleLockKey is held in the cache while a cycle runs
	CycleLockKey = "reminders:cycle:lock"
	cycleLockTtl = 5 * time.Minute
)

type candidate struct {
	relatedType RelatedType
	relatedId   string
	recipients  []string
	title       string
	body        string
}

type RunnerOpts struct {
	Store  Store
	Sender email.Sender

	// Cache is optional, when set a cycle holds a lock so that only one
	// worker or cron call runs at a time
	Cache       cache.Cache
	ServiceLogs chan<- common.ServiceLog
}

func NewRunner(opts RunnerOpts) (*Runner, error) {
	if opts.Store == nil {
		return nil, ErrorStoreUndefined
	}
	if opts.Sender == nil {
		return nil, ErrorSenderUndefined
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	return &Runner{
		store:       opts.Store,
		sender:      opts.Sender,
		cache:       opts.Cache,
		serviceLogs: serviceLogs,
	}, nil
}

type Runner struct {
	store       Store
	sender      email.Sender
	cache       cache.Cache
	serviceLogs chan<- common.ServiceLog
}

// RunCycle evaluates every enabled policy against now and sends at most
// one reminder per entity per 24 hours
func (r *Runner) RunCycle(ctx context.Context, now time.Time) (*CycleResult, error) {
	now = now.UTC()
	if r.cache != nil {
		isLocked, err := r.cache.SetNX(CycleLockKey, now.Format(time.RFC3339), cycleLockTtl)
		if err != nil {
			r.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to acquire reminder cycle lock, continuing without it: %s", err)
		} else if !isLocked {
			return nil, ErrorCycleInProgress
		} else {
			defer r.cache.Del(CycleLockKey)
		}
	}

	r.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "reminder cycle started at %s", now.Format(time.RFC3339))
	policies, err := r.store.ListEnabledPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("reminders.RunCycle: failed to list policies: %w", err)
	}

	result := CycleResult{}
	for _, policy := range policies {
		if err := ctx.Err(); err != nil {
			return &result, err
		}
		candidates, err := r.gatherCandidates(ctx, policy, now)
		if err != nil {
			r.serviceLogs <- common.ServiceLogf(common.LogLevelError, "failed to gather candidates for policy[%s]: %s", policy.Id, err)
			continue
		}
		for _, c := range candidates {
			status, message := r.process(ctx, policy, c, now)
			if err := r.store.CreateLog(ctx, Log{
				OrgId:       policy.OrgId,
				PolicyId:    &policy.Id,
				RelatedType: c.relatedType,
				RelatedId:   c.relatedId,
				Channel:     policy.Channel,
				TriggerType: policy.TriggerType,
				Status:      status,
				Message:     message,
				SentAt:      now,
			}); err != nil {
				r.serviceLogs <- common.ServiceLogf(common.LogLevelError, "failed to write reminder log for %s[%s]: %s", c.relatedType, c.relatedId, err)
			}
			remindersCounter.WithLabelValues(string(status)).Inc()
			switch status {
			case LogStatusSent:
				result.Sent++
			case LogStatusSkipped:
				result.Skipped++
			case LogStatusFailed:
				result.Failed++
			}
		}
	}
	r.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "reminder cycle done: sent[%v] skipped[%v] failed[%v]", result.Sent, result.Skipped, result.Failed)
	return &result, nil
}

func (r *Runner) process(ctx context.Context, policy Policy, c candidate, now time.Time) (LogStatus, *string) {
	isDuplicate, err := r.store.HasSentSince(ctx, DedupeKey{
		OrgId:       policy.OrgId,
		RelatedType: c.relatedType,
		RelatedId:   c.relatedId,
		Channel:     policy.Channel,
		TriggerType: policy.TriggerType,
	}, DedupeWindowStart(now))
	if err != nil {
		message := fmt.Sprintf("failed to check for duplicates: %s", err)
		return LogStatusFailed, &message
	}
	if isDuplicate {
		message := MessageDuplicate
		return LogStatusSkipped, &message
	}
	if len(c.recipients) == 0 {
		message := MessageNoRecipients
		return LogStatusSkipped, &message
	}
	if policy.Channel != ChannelEmail {
		message := fmt.Sprintf("channel %s is not supported", policy.Channel)
		return LogStatusSkipped, &message
	}

	to := make([]email.User, 0, len(c.recipients))
	for _, recipient := range c.recipients {
		to = append(to, email.User{Address: recipient})
	}
	if err := r.sender.Send(ctx, email.Outgoing{To: to, Title: c.title, Body: c.body}); err != nil {
		message := err.Error()
		return LogStatusFailed, &message
	}
	return LogStatusSent, nil
}

func (r *Runner) gatherCandidates(ctx context.Context, policy Policy, now time.Time) ([]candidate, error) {
	deadline := now.Add(time.Duration(policy.OffsetHours) * time.Hour)
	candidates := []candidate{}

	switch policy.TriggerType {
	case TriggerPermitFollowUp:
		permits, err := r.store.ListFollowUpPermits(ctx, policy.OrgId, deadline)
		if err != nil {
			return nil, err
		}
		if len(permits) == 0 {
			return candidates, nil
		}
		recipients, err := r.store.ListCoordinatorEmails(ctx, policy.OrgId)
		if err != nil {
			return nil, err
		}
		for _, permit := range permits {
			candidates = append(candidates, candidate{
				relatedType: RelatedPermit,
				relatedId:   permit.Id,
				recipients:  recipients,
				title:       fmt.Sprintf("Permit follow-up due: %s", permit.CustomerName),
				body:        fmt.Sprintf("%s follow-up is due for %s.", permit.JurisdictionName, permit.SiteAddress),
			})
		}

	case TriggerInspectionUpcoming:
		inspections, err := r.store.ListScheduledInspections(ctx, policy.OrgId, now, deadline)
		if err != nil {
			return nil, err
		}
		if len(inspections) == 0 {
			return candidates, nil
		}
		recipients, err := r.store.ListCoordinatorEmails(ctx, policy.OrgId)
		if err != nil {
			return nil, err
		}
		for _, inspection := range inspections {
			scheduledFor := "TBD"
			if inspection.ScheduledFor != nil {
				scheduledFor = inspection.ScheduledFor.UTC().Format(time.RFC3339)
			}
			candidates = append(candidates, candidate{
				relatedType: RelatedInspection,
				relatedId:   inspection.Id,
				recipients:  recipients,
				title:       fmt.Sprintf("Inspection upcoming: %s", inspection.CustomerName),
				body:        fmt.Sprintf("%s inspection is scheduled for %s.", inspection.Type, scheduledFor),
			})
		}

	case TriggerTaskDue:
		tasks, err := r.store.ListOpenTasksDue(ctx, policy.OrgId, now, deadline)
		if err != nil {
			return nil, err
		}
		var coordinators []string
		for _, task := range tasks {
			recipients := []string{}
			if task.AssigneeEmail != nil && strings.TrimSpace(*task.AssigneeEmail) != "" {
				recipients = append(recipients, *task.AssigneeEmail)
			} else {
				if coordinators == nil {
					if coordinators, err = r.store.ListCoordinatorEmails(ctx, policy.OrgId); err != nil {
						return nil, err
					}
				}
				recipients = coordinators
			}
			customerName := ""
			if task.CustomerName != nil {
				customerName = *task.CustomerName
			}
			dueAt := "soon"
			if task.DueAt != nil {
				dueAt = task.DueAt.UTC().Format(time.RFC3339)
			}
			candidates = append(candidates, candidate{
				relatedType: RelatedTask,
				relatedId:   task.Id,
				recipients:  recipients,
				title:       fmt.Sprintf("Task due soon: %s", task.Title),
				body:        fmt.Sprintf("%s for %s is due %s.", task.Title, customerName, dueAt),
			})
		}

	default:
		return nil, fmt.Errorf("%w: unknown trigger type %s", ErrorInvalidPolicy, policy.TriggerType)
	}
	return candidates, nil
}
