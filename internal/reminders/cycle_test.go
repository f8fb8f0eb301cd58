package reminders

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/email"
	"tradedesk/internal/solar"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeStore struct {
	mutex sync.Mutex

	policies     []Policy
	permits      []solar.Permit
	inspections  []solar.Inspection
	tasks        []solar.Task
	coordinators []string
	logs         []Log

	inspectionWindow [2]time.Time
	permitDeadline   time.Time
}

func (f *fakeStore) ListEnabledPolicies(ctx context.Context) ([]Policy, error) {
	output := []Policy{}
	for _, policy := range f.policies {
		if policy.Enabled {
			output = append(output, policy)
		}
	}
	return output, nil
}

func (f *fakeStore) ListFollowUpPermits(ctx context.Context, orgId string, deadline time.Time) ([]solar.Permit, error) {
	f.permitDeadline = deadline
	return f.permits, nil
}

func (f *fakeStore) ListScheduledInspections(ctx context.Context, orgId string, from, to time.Time) ([]solar.Inspection, error) {
	f.inspectionWindow = [2]time.Time{from, to}
	return f.inspections, nil
}

func (f *fakeStore) ListOpenTasksDue(ctx context.Context, orgId string, from, to time.Time) ([]solar.Task, error) {
	return f.tasks, nil
}

func (f *fakeStore) ListCoordinatorEmails(ctx context.Context, orgId string) ([]string, error) {
	return f.coordinators, nil
}

func (f *fakeStore) HasSentSince(ctx context.Context, key DedupeKey, since time.Time) (bool, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, log := range f.logs {
		if log.OrgId == key.OrgId &&
			log.RelatedType == key.RelatedType &&
			log.RelatedId == key.RelatedId &&
			log.Channel == key.Channel &&
			log.TriggerType == key.TriggerType &&
			log.Status == LogStatusSent &&
			!log.SentAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CreateLog(ctx context.Context, log Log) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.logs = append(f.logs, log)
	return nil
}

type fakeSender struct {
	mutex    sync.Mutex
	messages []email.Outgoing
	err      error
}

func (f *fakeSender) Send(ctx context.Context, message email.Outgoing) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, message)
	return nil
}

var cycleNow = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func newRunner(t *testing.T, store *fakeStore, sender *fakeSender, c cache.Cache) *Runner {
	runner, err := NewRunner(RunnerOpts{Store: store, Sender: sender, Cache: c})
	require.NoError(t, err)
	return runner
}

func TestRunCyclePermitFollowUp(t *testing.T) {
	store := &fakeStore{
		policies: []Policy{
			{Id: "p1", OrgId: "org", TriggerType: TriggerPermitFollowUp, Channel: ChannelEmail, OffsetHours: 0, Enabled: true},
			{Id: "p2", OrgId: "org", TriggerType: TriggerTaskDue, Channel: ChannelEmail, OffsetHours: 24, Enabled: false},
		},
		permits: []solar.Permit{{
			Id:               "permit-1",
			JurisdictionName: "Travis County",
			CustomerName:     "Jane Doe",
			SiteAddress:      "1 Sun St",
		}},
		coordinators: []string{"owner@example.com", "coord@example.com"},
	}
	sender := &fakeSender{}
	runner := newRunner(t, store, sender, nil)

	result, err := runner.RunCycle(context.Background(), cycleNow)
	require.NoError(t, err)
	require.Equal(t, CycleResult{Sent: 1}, *result)
	require.Equal(t, cycleNow, store.permitDeadline)
	require.Len(t, sender.messages, 1)
	require.Equal(t, "Permit follow-up due: Jane Doe", sender.messages[0].Title)
	require.Equal(t, "Travis County follow-up is due for 1 Sun St.", sender.messages[0].Body)
	require.Len(t, sender.messages[0].To, 2)
	require.Equal(t, LogStatusSent, store.logs[0].Status)
	require.Equal(t, TriggerPermitFollowUp, store.logs[0].TriggerType)

	// the second run inside 24h is deduplicated
	result, err = runner.RunCycle(context.Background(), cycleNow.Add(23*time.Hour))
	require.NoError(t, err)
	require.Equal(t, CycleResult{Skipped: 1}, *result)
	require.Equal(t, MessageDuplicate, *store.logs[1].Message)
	require.Len(t, sender.messages, 1)

	// skipped logs do not extend the window
	result, err = runner.RunCycle(context.Background(), cycleNow.Add(25*time.Hour))
	require.NoError(t, err)
	require.Equal(t, CycleResult{Sent: 1}, *result)
}

func TestRunCycleInspectionUpcoming(t *testing.T) {
	scheduledFor := cycleNow.Add(6 * time.Hour)
	store := &fakeStore{
		policies: []Policy{{Id: "p1", OrgId: "org", TriggerType: TriggerInspectionUpcoming, Channel: ChannelEmail, OffsetHours: 24, Enabled: true}},
		inspections: []solar.Inspection{
			{Id: "i1", Type: solar.InspectionTypeBuilding, ScheduledFor: &scheduledFor, CustomerName: "Jane Doe"},
			{Id: "i2", Type: solar.InspectionTypeUtilityMeter, CustomerName: "John Roe"},
		},
		coordinators: []string{"owner@example.com"},
	}
	sender := &fakeSender{}
	result, err := newRunner(t, store, sender, nil).RunCycle(context.Background(), cycleNow)
	require.NoError(t, err)
	require.Equal(t, 2, result.Sent)
	require.Equal(t, [2]time.Time{cycleNow, cycleNow.Add(24 * time.Hour)}, store.inspectionWindow)
	require.Equal(t, "Inspection upcoming: Jane Doe", sender.messages[0].Title)
	require.Equal(t, "BUILDING inspection is scheduled for 2026-01-10T18:00:00Z.", sender.messages[0].Body)
	require.Equal(t, "UTILITY_METER inspection is scheduled for TBD.", sender.messages[1].Body)
}

func TestRunCycleTaskDue(t *testing.T) {
	assignee := "crew@example.com"
	customer := "Jane Doe"
	dueAt := cycleNow.Add(2 * time.Hour)
	store := &fakeStore{
		policies: []Policy{{Id: "p1", OrgId: "org", TriggerType: TriggerTaskDue, Channel: ChannelEmail, OffsetHours: 24, Enabled: true}},
		tasks: []solar.Task{
			{Id: "t1", Title: "Order panels", AssigneeEmail: &assignee, CustomerName: &customer, DueAt: &dueAt},
			{Id: "t2", Title: "Call utility"},
		},
	}
	sender := &fakeSender{}
	result, err := newRunner(t, store, sender, nil).RunCycle(context.Background(), cycleNow)
	require.NoError(t, err)
	require.Equal(t, CycleResult{Sent: 1, Skipped: 1}, *result)
	require.Equal(t, "Task due soon: Order panels", sender.messages[0].Title)
	require.Equal(t, "Order panels for Jane Doe is due 2026-01-10T14:00:00Z.", sender.messages[0].Body)
	require.Equal(t, []email.User{{Address: assignee}}, sender.messages[0].To)
	require.Equal(t, MessageNoRecipients, *store.logs[1].Message)
}

func TestRunCycleSendFailure(t *testing.T) {
	store := &fakeStore{
		policies:     []Policy{{Id: "p1", OrgId: "org", TriggerType: TriggerPermitFollowUp, Channel: ChannelEmail, Enabled: true}},
		permits:      []solar.Permit{{Id: "permit-1"}},
		coordinators: []string{"owner@example.com"},
	}
	sender := &fakeSender{err: errors.New("smtp down")}
	result, err := newRunner(t, store, sender, nil).RunCycle(context.Background(), cycleNow)
	require.NoError(t, err)
	require.Equal(t, CycleResult{Failed: 1}, *result)
	require.Equal(t, "smtp down", *store.logs[0].Message)
	require.Equal(t, LogStatusFailed, store.logs[0].Status)
}

func TestRunCycleLock(t *testing.T) {
	memory := cache.NewMemory()
	_, err := memory.SetNX(CycleLockKey, "held", time.Minute)
	require.NoError(t, err)

	runner := newRunner(t, &fakeStore{}, &fakeSender{}, memory)
	_, err = runner.RunCycle(context.Background(), cycleNow)
	require.ErrorIs(t, err, ErrorCycleInProgress)

	require.NoError(t, memory.Del(CycleLockKey))
	_, err = runner.RunCycle(context.Background(), cycleNow)
	require.NoError(t, err)
	_, err = memory.Get(CycleLockKey)
	require.ErrorIs(t, err, cache.ErrorKeyNotFound)
}

func TestPolicyValidate(t *testing.T) {
	for _, policy := range DefaultPolicies("org") {
		require.NoError(t, policy.Validate())
	}
	err := Policy{Name: "x", TriggerType: "NOPE", Channel: "SMS", OffsetHours: -1}.Validate()
	require.ErrorIs(t, err, ErrorInvalidPolicy)
}

func TestStartStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("tradedesk/internal/common.startNoopServiceLog"))

	store := &fakeStore{}
	runner := newRunner(t, store, &fakeSender{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() {
		done <- runner.Start(ctx, 10*time.Millisecond)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	require.Error(t, runner.Start(context.Background(), 0))
}
