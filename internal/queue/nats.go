package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/common"
	"tradedesk/internal/persistence"

	"github.com/nats-io/nats.go"
)

const (
	DefaultNatsAckWaitDuration    time.Duration = 300 * time.Second
	DefaultNatsFetchWait          time.Duration = 2 * time.Second
	DefaultNatsMaxAckPendingCount int           = 64
	DefaultNatsMaxMessageCount    int64         = 1024
	DefaultNatsMaxSizeBytes       int64         = 1024 * 1024 * 128
	DefaultNatsNakBackoff         time.Duration = 10 * time.Second
	DefaultNatsPublishTimeout     time.Duration = 5 * time.Second
	DefaultNatsStreamReplicaCount int           = 1
)

// getNatsQueueInfo returns the stream name and the wildcard subject
// that the stream and its consumers filter on
func getNatsQueueInfo(opts QueueOpts) (stream, subject string) {
	stream = strings.ToLower(opts.Stream)
	subject = fmt.Sprintf("%s.%s.*", stream, strings.ToLower(opts.Subject))
	return
}

// getNatsPublishSubject returns the concrete subject a message with
// key is published on
func getNatsPublishSubject(opts QueueOpts, key string) string {
	if key == "" {
		key = "default"
	}
	_, wildcard := getNatsQueueInfo(opts)
	return strings.TrimSuffix(wildcard, "*") + strings.ToLower(key)
}

type InitNatsOpts struct {
	NatsConnection *persistence.Nats
	ServiceLogs    chan<- common.ServiceLog
}

// InitNats sets the process-wide queue to a JetStream work queue on
// top of the provided connection
func InitNats(opts InitNatsOpts) (*Nats, error) {
	if opts.NatsConnection == nil {
		return nil, ErrorClientUndefined
	}
	serviceLogs := opts.ServiceLogs
	if serviceLogs == nil {
		serviceLogs = common.GetNoopServiceLog()
	}
	streamContext, err := opts.NatsConnection.GetStreamingClient()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrorStreamingClientUndefined, err)
	}
	output := &Nats{
		Client:        opts.NatsConnection.GetClient(),
		ServiceLogs:   serviceLogs,
		streamContext: streamContext,
	}
	Init(output)
	return output, nil
}

type Nats struct {
	Client      *nats.Conn
	ServiceLogs chan<- common.ServiceLog

	streamContext nats.JetStreamContext
}

func (n *Nats) Push(opts PushOpts) (*PushOutput, error) {
	if err := n.ensureNats(); err != nil {
		return nil, fmt.Errorf("failed to validate nats setup: %w", err)
	}
	ensureStreamOpts := getNatsStreamOpts(opts.Queue, opts.Stream)
	if err := n.ensureStream(ensureStreamOpts); err != nil {
		return nil, fmt.Errorf("failed to ensure stream: %w", err)
	}
	subject := getNatsPublishSubject(opts.Queue, opts.Key)
	ctx, cancel := context.WithTimeout(context.Background(), DefaultNatsPublishTimeout)
	defer cancel()
	ack, err := n.streamContext.Publish(subject, opts.Data, nats.Context(ctx))
	if err != nil {
		return nil, fmt.Errorf("failed to publish message: %w", err)
	}
	n.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "published message[%v] to subject[%s]", ack.Sequence, subject)
	return &PushOutput{
		MessageSizeBytes: len(opts.Data),
		Queue:            opts.Queue,
		Subject:          subject,
	}, nil
}

// Subscribe blocks and feeds messages one at a time to opts.Handler
// until opts.Context is cancelled, failed messages are redelivered
// after opts.NakBackoff
func (n *Nats) Subscribe(opts SubscribeOpts) error {
	if err := n.ensureNats(); err != nil {
		return fmt.Errorf("failed to validate nats setup: %w", err)
	}
	if opts.Handler == nil {
		return ErrorHandlerUndefined
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	stream, subject := getNatsQueueInfo(opts.Queue)
	ensureStreamOpts := getNatsStreamOpts(opts.Queue, opts.Stream)
	if err := n.ensureStream(ensureStreamOpts); err != nil {
		return fmt.Errorf("failed to ensure stream: %w", err)
	}
	if err := n.ensureDurable(natsDurableOpts{
		Durable:    opts.ConsumerId,
		Stream:     stream,
		Subject:    subject,
		StreamOpts: ensureStreamOpts,
	}); err != nil {
		return err
	}

	sub, err := n.streamContext.PullSubscribe(
		subject,
		opts.ConsumerId,
		nats.Bind(stream, opts.ConsumerId),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	defer sub.Unsubscribe()

	n.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "nats subscription created: durable=%s stream=%s subject=%s", opts.ConsumerId, stream, subject)

	nakBackoff := DefaultNatsNakBackoff
	if opts.NakBackoff != 0 {
		nakBackoff = opts.NakBackoff
	}

	for {
		select {
		case <-ctx.Done():
			n.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "nats subscription stopping: durable=%s stream=%s subject=%s", opts.ConsumerId, stream, subject)
			return nil
		default:
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(DefaultNatsFetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return fmt.Errorf("failed to fetch from subject[%s]: %w", subject, err)
		}
		if len(msgs) == 0 {
			continue
		}

		msg := msgs[0]
		if err := opts.Handler(ctx, Message{
			Data:    msg.Data,
			Subject: msg.Subject,
		}); err != nil {
			n.ServiceLogs <- common.ServiceLogf(common.LogLevelWarn, "nats message handling failed, sending nak with delay[%v]: %s", nakBackoff, err)
			if err := msg.NakWithDelay(nakBackoff); err != nil {
				n.ServiceLogs <- common.ServiceLogf(common.LogLevelError, "failed to nak message on subject[%s]: %s", msg.Subject, err)
			}
			continue
		}
		if err := msg.Ack(); err != nil {
			return fmt.Errorf("failed to ack: %w", err)
		}
		n.ServiceLogs <- common.ServiceLogf(common.LogLevelDebug, "acked message on subject[%s]", msg.Subject)
	}
}

func (n *Nats) ensureNats() error {
	errs := []error{}
	if n.Client == nil {
		errs = append(errs, ErrorClientUndefined)
	}
	if n.streamContext == nil {
		errs = append(errs, ErrorStreamingClientUndefined)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

type natsDurableOpts struct {
	AckWait    time.Duration
	Durable    string
	Stream     string
	Subject    string
	StreamOpts natsStreamOpts
}

func (n *Nats) ensureDurable(opts natsDurableOpts) error {
	ci, err := n.streamContext.ConsumerInfo(opts.Stream, opts.Durable)
	if err == nil && ci != nil {
		if ci.Config.FilterSubject != opts.Subject {
			return fmt.Errorf("failed to ensure durable subject association: have=%q want=%q", ci.Config.FilterSubject, opts.Subject)
		}
		return nil
	}

	maxAck := opts.StreamOpts.MaxAckPending
	if maxAck <= 0 {
		maxAck = DefaultNatsMaxAckPendingCount
	}
	ackWait := opts.AckWait
	if ackWait <= 0 {
		ackWait = DefaultNatsAckWaitDuration
	}

	_, err = n.streamContext.AddConsumer(opts.Stream, &nats.ConsumerConfig{
		Durable:       opts.Durable,
		FilterSubject: opts.Subject,
		AckPolicy:     nats.AckExplicitPolicy,
		AckWait:       ackWait,
		MaxAckPending: maxAck,
		DeliverPolicy: nats.DeliverAllPolicy,
		ReplayPolicy:  nats.ReplayInstantPolicy,
	})
	if err != nil && !errors.Is(err, nats.ErrConsumerNameAlreadyInUse) {
		return fmt.Errorf("failed to add consumer: %w", err)
	}
	return nil
}

type natsStreamOpts struct {
	MaxAckPending    int
	MaxMessagesCount int64
	MaxSizeBytes     int64
	Replicas         int
	QueueInfo        QueueOpts
}

func getNatsStreamOpts(queueOpts QueueOpts, streamOpts *StreamOpts) natsStreamOpts {
	output := natsStreamOpts{
		MaxMessagesCount: DefaultNatsMaxMessageCount,
		MaxSizeBytes:     DefaultNatsMaxSizeBytes,
		Replicas:         DefaultNatsStreamReplicaCount,
		QueueInfo:        queueOpts,
	}
	if streamOpts != nil {
		if streamOpts.MaxMessagesCount != 0 {
			output.MaxMessagesCount = streamOpts.MaxMessagesCount
		}
		if streamOpts.MaxSizeBytes != 0 {
			output.MaxSizeBytes = streamOpts.MaxSizeBytes
		}
		if streamOpts.ReplicaCount != 0 {
			output.Replicas = streamOpts.ReplicaCount
		}
	}
	return output
}

// ensureStream creates the work-queue stream or adds the subject to an
// existing one
func (n *Nats) ensureStream(opts natsStreamOpts) error {
	stream, subject := getNatsQueueInfo(opts.QueueInfo)
	if streamInfo, err := n.streamContext.StreamInfo(stream); err == nil && streamInfo != nil {
		cfg := streamInfo.Config
		if isSubjectInSubjects(cfg.Subjects, subject) {
			return nil
		}
		cfg.Subjects = append(cfg.Subjects, subject)
		if _, err := n.streamContext.UpdateStream(&cfg); err != nil {
			return fmt.Errorf("failed to update stream[%s:%s]: %w", stream, subject, err)
		}
		return nil
	}

	cfg := &nats.StreamConfig{
		Name:      stream,
		Subjects:  []string{subject},
		Replicas:  opts.Replicas,
		Retention: nats.WorkQueuePolicy,
		MaxMsgs:   opts.MaxMessagesCount,
		MaxBytes:  opts.MaxSizeBytes,
		Storage:   nats.FileStorage,
		Discard:   nats.DiscardOld,
	}
	if _, err := n.streamContext.AddStream(cfg); err != nil {
		return fmt.Errorf("failed to add stream[%s:%s]: %w", stream, subject, err)
	}
	return nil
}

func isSubjectInSubjects(subjects []string, target string) bool {
	for _, s := range subjects {
		if s == target {
			return true
		}
	}
	return false
}
