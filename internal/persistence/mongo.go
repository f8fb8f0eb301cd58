package persistence

import (
	"context"
	"fmt"
	"sync"
	"time"
	"tradedesk/internal/common"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const DefaultMongoTimeout = 3 * time.Second

type MongoConnectionOpts struct {
	AppName             string
	Hosts               []string
	Database            string
	IsDirect            bool
	RetryInterval       time.Duration
	HealthcheckInterval time.Duration
}

type MongoAuthOpts struct {
	AuthMechanism string
	AuthSource    string
	Password      string
	Username      string
}

func (mao MongoAuthOpts) toNative() options.Credential {
	return options.Credential{
		AuthMechanism: mao.AuthMechanism,
		AuthSource:    mao.AuthSource,
		Password:      mao.Password,
		Username:      mao.Username,
	}
}

func NewMongo(
	connectionOpts MongoConnectionOpts,
	authOpts MongoAuthOpts,
	serviceLogs *chan common.ServiceLog,
) *Mongo {
	id := getAppName(connectionOpts.AppName)
	logs := getServiceLogs(serviceLogs)
	output := Mongo{
		id: id,
		options: options.Client().
			SetHosts(connectionOpts.Hosts).
			SetDirect(connectionOpts.IsDirect).
			SetAuth(authOpts.toNative()).
			SetAppName(id).
			SetConnectTimeout(DefaultMongoTimeout),
		serviceLogs: logs,
		supervisor:  newSupervisor("mongo", id, connectionOpts.HealthcheckInterval, connectionOpts.RetryInterval, logs),
	}
	output.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "mongo service logs is active for connection[%s]", id)
	return &output
}

type Mongo struct {
	id          string
	client      *mongo.Client
	clientMutex sync.RWMutex
	options     *options.ClientOptions

	serviceLogs chan common.ServiceLog
	supervisor  *supervisor
}

func (m *Mongo) GetClient() *mongo.Client {
	m.clientMutex.RLock()
	defer m.clientMutex.RUnlock()
	return m.client
}

func (m *Mongo) GetId() string {
	return m.id
}

func (m *Mongo) GetStatus() *Status {
	return m.supervisor.status.snapshot()
}

func (m *Mongo) Init() error {
	return m.supervisor.init(m)
}

func (m *Mongo) Shutdown() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutting down mongo[%s] connection...", m.id)
	m.supervisor.stop()
	m.clientMutex.Lock()
	defer m.clientMutex.Unlock()
	if m.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), DefaultMongoTimeout)
		defer cancel()
		if err := m.client.Disconnect(ctx); err != nil {
			return fmt.Errorf("failed to disconnect mongo: %w", err)
		}
		m.client = nil
	}
	return nil
}

// connect creates a client and pings it, mongo.Connect does no I/O so
// the ping is the only proof that the parameters are valid
func (m *Mongo) connect() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "mongo[%s] running Mongo.connect()...", m.id)
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), DefaultMongoTimeout)
	defer cancelConnect()

	client, connectErr := mongo.Connect(connectCtx, m.options)
	if connectErr != nil {
		m.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("mongo[%s] failed to create client: %w", m.id, connectErr))
		return m.supervisor.status.GetError()
	}
	pingCtx, cancelPing := context.WithTimeout(context.Background(), DefaultMongoTimeout)
	defer cancelPing()
	if pingErr := client.Ping(pingCtx, nil); pingErr != nil {
		client.Disconnect(context.Background())
		m.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("mongo[%s] failed to verify connection: %w", m.id, pingErr))
		return m.supervisor.status.GetError()
	}

	m.clientMutex.Lock()
	previous := m.client
	m.client = client
	m.clientMutex.Unlock()
	if previous != nil {
		previous.Disconnect(context.Background())
	}
	m.supervisor.status.set(StatusCodeOk, nil)
	return nil
}

func (m *Mongo) ping() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "mongo[%s] running Mongo.ping()...", m.id)
	client := m.GetClient()
	if client == nil {
		return fmt.Errorf("failed to ping mongo[%s], there is no connection", m.id)
	}
	ctx, cancel := context.WithTimeout(context.Background(), DefaultMongoTimeout)
	defer cancel()
	if pingErr := client.Ping(ctx, nil); pingErr != nil {
		m.supervisor.status.set(StatusCodePingError, pingErr)
		return m.supervisor.status.GetError()
	}
	m.supervisor.status.set(StatusCodeOk, nil)
	return nil
}
