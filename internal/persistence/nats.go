package persistence

import (
	"fmt"
	"sync"
	"time"
	"tradedesk/internal/common"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

type NatsConnectionOpts struct {
	AppName             string
	Host                string
	RetryInterval       time.Duration
	HealthcheckInterval time.Duration
}

type NatsAuthOpts struct {
	NKey     string
	Username string
	Password string
}

func NewNats(
	connectionOpts NatsConnectionOpts,
	authOpts NatsAuthOpts,
	serviceLogs *chan common.ServiceLog,
) (*Nats, error) {
	id := getAppName(connectionOpts.AppName)
	logs := getServiceLogs(serviceLogs)
	output := Nats{
		addr:        connectionOpts.Host,
		id:          id,
		options:     []nats.Option{nats.Name(id)},
		serviceLogs: logs,
		supervisor:  newSupervisor("nats", id, connectionOpts.HealthcheckInterval, connectionOpts.RetryInterval, logs),
	}
	if authOpts.NKey != "" {
		keyPair, err := nkeys.FromSeed([]byte(authOpts.NKey))
		if err != nil {
			return nil, fmt.Errorf("failed to generate keypair from nkey: %w", err)
		}
		publicKey, err := keyPair.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate public key from nkey: %w", err)
		}
		output.options = append(output.options, nats.Nkey(publicKey, keyPair.Sign))
	} else if authOpts.Username != "" && authOpts.Password != "" {
		output.options = append(output.options, nats.UserInfo(authOpts.Username, authOpts.Password))
	} else {
		return nil, fmt.Errorf("failed to receive an auth method")
	}
	output.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "nats service logs is active for connection[%s]", id)
	return &output, nil
}

type Nats struct {
	id          string
	client      *nats.Conn
	clientMutex sync.RWMutex
	addr        string
	options     []nats.Option

	serviceLogs chan common.ServiceLog
	supervisor  *supervisor
}

func (n *Nats) GetClient() *nats.Conn {
	n.clientMutex.RLock()
	defer n.clientMutex.RUnlock()
	return n.client
}

func (n *Nats) GetId() string {
	return n.id
}

func (n *Nats) GetStreamingClient() (nats.JetStreamContext, error) {
	client := n.GetClient()
	if client == nil {
		return nil, fmt.Errorf("failed to get nats[%s] jetstream context: not connected", n.id)
	}
	js, err := client.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to get nats[%s] jetstream context: %w", n.id, err)
	}
	return js, nil
}

func (n *Nats) GetStatus() *Status {
	return n.supervisor.status.snapshot()
}

func (n *Nats) Init() error {
	return n.supervisor.init(n)
}

func (n *Nats) Shutdown() error {
	n.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutting down nats[%s] connection...", n.id)
	n.supervisor.stop()
	n.clientMutex.Lock()
	defer n.clientMutex.Unlock()
	if n.client != nil {
		if err := n.client.Drain(); err != nil {
			n.client.Close()
			return fmt.Errorf("failed to drain nats connection: %w", err)
		}
		n.client = nil
	}
	return nil
}

func (n *Nats) connect() error {
	n.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "nats[%s] running Nats.connect()...", n.id)
	client, connectErr := nats.Connect("nats://"+n.addr, n.options...)
	if connectErr != nil {
		n.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("nats[%s] failed to connect: %w", n.id, connectErr))
		return n.supervisor.status.GetError()
	}
	if !client.IsConnected() {
		client.Close()
		n.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("nats[%s] failed to verify connection", n.id))
		return n.supervisor.status.GetError()
	}
	n.clientMutex.Lock()
	previous := n.client
	n.client = client
	n.clientMutex.Unlock()
	if previous != nil {
		previous.Close()
	}
	n.supervisor.status.set(StatusCodeOk, nil)
	return nil
}

func (n *Nats) ping() error {
	n.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "nats[%s] running Nats.ping()...", n.id)
	client := n.GetClient()
	if client == nil {
		return fmt.Errorf("failed to ping nats[%s], there is no connection", n.id)
	}
	switch {
	case client.IsClosed():
		n.supervisor.status.set(StatusCodePingError, fmt.Errorf("nats[%s] connection closed, last error: %w", n.id, client.LastError()))
		return n.supervisor.status.GetError()
	case client.IsDraining():
		n.supervisor.status.set(StatusCodePingError, fmt.Errorf("nats[%s] connection is being drained, last error: %w", n.id, client.LastError()))
		return n.supervisor.status.GetError()
	case client.IsReconnecting():
		n.supervisor.status.set(StatusCodePingError, fmt.Errorf("nats[%s] connection is re-establishing, last error: %w", n.id, client.LastError()))
		return n.supervisor.status.GetError()
	}
	n.supervisor.status.set(StatusCodeOk, nil)
	return nil
}
