package queue

import (
	"context"
	"time"
)

var instance Instance

// Init sets the process-wide queue returned by Get
func Init(i Instance) {
	instance = i
}

func Get() Instance {
	return instance
}

type Instance interface {
	Push(PushOpts) (*PushOutput, error)
	Subscribe(SubscribeOpts) error
}

// ImportJobs carries ids of vendor-credit import jobs that are ready
// to be materialised into cases
var ImportJobs = QueueOpts{
	Stream:  "tradedesk",
	Subject: "imports",
}

type Message struct {
	Data    []byte `json:"data"`
	Subject string `json:"subject"`
}

type MessageHandler func(context.Context, Message) error

type PushOpts struct {
	Data []byte

	// Key is appended to the queue subject, defaults to "default"
	Key    string
	Queue  QueueOpts
	Stream *StreamOpts
}

type PushOutput struct {
	MessageSizeBytes int
	Queue            QueueOpts
	Subject          string
}

type QueueOpts struct {
	Stream  string
	Subject string
}

type SubscribeOpts struct {
	ConsumerId string
	Context    context.Context
	Handler    MessageHandler
	Queue      QueueOpts
	Stream     *StreamOpts
	NakBackoff time.Duration
}

type StreamOpts struct {
	MaxMessagesCount int64
	MaxSizeBytes     int64
	ReplicaCount     int
}
