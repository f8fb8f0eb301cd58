package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"tradedesk/internal/queue"
	"tradedesk/internal/vendorcredit"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeScheduler struct {
	err      error
	interval time.Duration
	started  chan struct{}
}

func (f *fakeScheduler) Start(ctx context.Context, interval time.Duration) error {
	f.interval = interval
	close(f.started)
	if f.err != nil {
		return f.err
	}
	<-ctx.Done()
	return nil
}

type fakeProcessor struct {
	mutex     sync.Mutex
	errs      map[string]error
	processed []string
}

func (f *fakeProcessor) ProcessJob(ctx context.Context, jobId string) (*vendorcredit.ImportSummary, error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.processed = append(f.processed, jobId)
	if err, ok := f.errs[jobId]; ok {
		return nil, err
	}
	return &vendorcredit.ImportSummary{JobId: jobId, Created: 1}, nil
}

type fakeQueue struct {
	messages  []queue.Message
	results   chan error
	consumer  string
	queueOpts queue.QueueOpts
}

func (f *fakeQueue) Push(opts queue.PushOpts) (*queue.PushOutput, error) {
	return nil, errors.New("not supported")
}

func (f *fakeQueue) Subscribe(opts queue.SubscribeOpts) error {
	f.consumer = opts.ConsumerId
	f.queueOpts = opts.Queue
	for _, message := range f.messages {
		f.results <- opts.Handler(opts.Context, message)
	}
	<-opts.Context.Done()
	return nil
}

func TestNew(t *testing.T) {
	_, err := New(NewOpts{})
	require.ErrorIs(t, err, ErrorNothingToRun)

	_, err = New(NewOpts{Importer: &fakeProcessor{}})
	require.ErrorIs(t, err, ErrorNothingToRun)

	_, err = New(NewOpts{Importer: &fakeProcessor{}, Reminders: &fakeScheduler{}})
	require.ErrorIs(t, err, ErrorQueueUndefined)

	w, err := New(NewOpts{Reminders: &fakeScheduler{}})
	require.NoError(t, err)
	require.Equal(t, DefaultReminderInterval, w.reminderInterval)
	require.Equal(t, DefaultConsumerId, w.consumerId)
}

func TestHandleImportJobMessage(t *testing.T) {
	processor := &fakeProcessor{
		errs: map[string]error{
			"missing":  fmt.Errorf("%w: import job[missing]", vendorcredit.ErrorImportJobNotFound),
			"done":     fmt.Errorf("%w: import job[done] has status[COMPLETED]", vendorcredit.ErrorImportJobNotReady),
			"unmapped": vendorcredit.ErrorImportMappingMissing,
			"flaky":    errors.New("connection reset"),
		},
	}
	w, err := New(NewOpts{Importer: processor, Queue: &fakeQueue{}})
	require.NoError(t, err)

	cases := map[string]bool{
		"job-1":    false,
		"missing":  false,
		"done":     false,
		"unmapped": false,
		"flaky":    true,
	}
	for jobId, expectError := range cases {
		t.Run(jobId, func(t *testing.T) {
			err := w.handleImportJobMessage(context.Background(), queue.Message{
				Data:    []byte(jobId + "\n"),
				Subject: "tradedesk.imports.org-1",
			})
			if expectError {
				require.Error(t, err)
				require.Contains(t, err.Error(), jobId)
				return
			}
			require.NoError(t, err)
		})
	}

	require.NoError(t, w.handleImportJobMessage(context.Background(), queue.Message{Data: []byte("  ")}))
	require.Len(t, processor.processed, len(cases))
}

func TestStartRunsUntilCancelled(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("tradedesk/internal/common.startNoopServiceLog"))

	scheduler := &fakeScheduler{started: make(chan struct{})}
	processor := &fakeProcessor{}
	jobs := &fakeQueue{
		messages: []queue.Message{{Data: []byte("job-1")}, {Data: []byte("job-2")}},
		results:  make(chan error, 2),
	}
	w, err := New(NewOpts{
		HttpAddr:         "127.0.0.1:0",
		Importer:         processor,
		Queue:            jobs,
		ReminderInterval: time.Minute,
		Reminders:        scheduler,
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan error, 1)
	go func() {
		stopped <- w.Start(ctx)
	}()

	<-scheduler.started
	require.NoError(t, <-jobs.results)
	require.NoError(t, <-jobs.results)
	cancel()

	select {
	case err := <-stopped:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not stop after cancellation")
	}
	require.Equal(t, time.Minute, scheduler.interval)
	require.Equal(t, DefaultConsumerId, jobs.consumer)
	require.Equal(t, queue.ImportJobs, jobs.queueOpts)
	require.Equal(t, []string{"job-1", "job-2"}, processor.processed)
}

func TestStartStopsWhenALoopFails(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("tradedesk/internal/common.startNoopServiceLog"))

	failure := errors.New("store unavailable")
	w, err := New(NewOpts{
		Importer:  &fakeProcessor{},
		Queue:     &fakeQueue{results: make(chan error)},
		Reminders: &fakeScheduler{err: failure, started: make(chan struct{})},
	})
	require.NoError(t, err)

	err = w.Start(context.Background())
	require.ErrorIs(t, err, failure)
}

func TestProbeHandlers(t *testing.T) {
	w, err := New(NewOpts{
		Reminders:       &fakeScheduler{},
		LivenessChecks:  []func() error{func() error { return nil }},
		ReadinessChecks: []func() error{func() error { return nil }, func() error { return errors.New("database unreachable") }},
	})
	require.NoError(t, err)
	handler := w.getHttpHandler()

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Contains(t, recorder.Body.String(), "database unreachable")

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "go_goroutines")
}
