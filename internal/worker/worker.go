package worker

import (
	"context"
	"errors"
	"fmt"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/queue"
	"tradedesk/internal/vendorcredit"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultReminderInterval = 15 * time.Minute
	DefaultConsumerId       = "tradedesk-worker"
	DefaultNakBackoff       = 30 * time.Second

	shutdownTimeout = 5 * time.Second
)

// ReminderScheduler runs reminder cycles until its context is done,
// *reminders.Runner satisfies this
type ReminderScheduler interface {
	Start(ctx context.Context, interval time.Duration) error
}

// JobProcessor materialises an import job, *vendorcredit.Importer
// satisfies this
type JobProcessor interface {
	ProcessJob(ctx context.Context, jobId string) (*vendorcredit.ImportSummary, error)
}

type NewOpts struct {
	// HttpAddr is where /healthz, /readyz and /metrics are served, the
	// listener is skipped when empty
	HttpAddr        string
	LivenessChecks  []func() error
	ReadinessChecks []func() error

	Reminders        ReminderScheduler
	ReminderInterval time.Duration

	Importer   JobProcessor
	Queue      queue.Instance
	ConsumerId string
	NakBackoff time.Duration

	ServiceLogs chan<- common.ServiceLog
}

// New returns a worker that runs the reminder ticker and consumes
// import jobs from the queue. At least one of the two must be set
func New(opts NewOpts) (*Worker, error) {
	isImporting := opts.Importer != nil && opts.Queue != nil
	if opts.Reminders == nil && !isImporting {
		return nil, ErrorNothingToRun
	}
	if opts.Importer != nil && opts.Queue == nil {
		return nil, ErrorQueueUndefined
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	reminderInterval := opts.ReminderInterval
	if reminderInterval <= 0 {
		reminderInterval = DefaultReminderInterval
	}
	consumerId := opts.ConsumerId
	if consumerId == "" {
		consumerId = DefaultConsumerId
	}
	nakBackoff := opts.NakBackoff
	if nakBackoff <= 0 {
		nakBackoff = DefaultNakBackoff
	}
	return &Worker{
		consumerId:       consumerId,
		httpAddr:         opts.HttpAddr,
		importer:         opts.Importer,
		livenessChecks:   opts.LivenessChecks,
		nakBackoff:       nakBackoff,
		queue:            opts.Queue,
		readinessChecks:  opts.ReadinessChecks,
		reminderInterval: reminderInterval,
		reminders:        opts.Reminders,
		serviceLogs:      serviceLogs,
	}, nil
}

type Worker struct {
	consumerId       string
	httpAddr         string
	importer         JobProcessor
	livenessChecks   []func() error
	nakBackoff       time.Duration
	queue            queue.Instance
	readinessChecks  []func() error
	reminderInterval time.Duration
	reminders        ReminderScheduler
	serviceLogs      chan<- common.ServiceLog
}

// Start blocks until ctx is cancelled or one of the worker's loops
// fails, a failing loop stops the others
func (w *Worker) Start(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	if w.reminders != nil {
		group.Go(func() error {
			w.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "starting reminder ticker with interval[%v]", w.reminderInterval)
			if err := w.reminders.Start(groupCtx, w.reminderInterval); err != nil {
				return fmt.Errorf("reminder ticker stopped: %w", err)
			}
			return nil
		})
	}

	if w.importer != nil {
		group.Go(func() error {
			w.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "subscribing to import jobs as consumer[%s]", w.consumerId)
			if err := w.queue.Subscribe(queue.SubscribeOpts{
				ConsumerId: w.consumerId,
				Context:    groupCtx,
				Handler:    w.handleImportJobMessage,
				NakBackoff: w.nakBackoff,
				Queue:      queue.ImportJobs,
			}); err != nil {
				return fmt.Errorf("import job subscription stopped: %w", err)
			}
			return nil
		})
	}

	if w.httpAddr != "" {
		group.Go(func() error {
			return w.serveHttp(groupCtx)
		})
	}

	err := group.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	w.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "worker stopped")
	return nil
}
