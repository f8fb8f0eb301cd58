package persistence

import (
	"fmt"
	"time"
	"tradedesk/internal/common"

	"github.com/go-redis/redis/v7"
)

const (
	DefaultRedisDialTimeout  = 3 * time.Second
	DefaultRedisReadTimeout  = 3 * time.Second
	DefaultRedisWriteTimeout = 3 * time.Second
	DefaultRedisIdleTimeout  = 30 * time.Second
)

type RedisConnectionOpts struct {
	AppName             string
	Addr                string
	DB                  int
	RetryInterval       time.Duration
	HealthcheckInterval time.Duration
}

type RedisAuthOpts struct {
	Username string
	Password string
}

func NewRedis(
	connectionOpts RedisConnectionOpts,
	authOpts RedisAuthOpts,
	serviceLogs *chan common.ServiceLog,
) *Redis {
	id := getAppName(connectionOpts.AppName)
	logs := getServiceLogs(serviceLogs)
	redisOptions := &redis.Options{
		Addr:         connectionOpts.Addr,
		DB:           connectionOpts.DB,
		Username:     authOpts.Username,
		Password:     authOpts.Password,
		DialTimeout:  DefaultRedisDialTimeout,
		ReadTimeout:  DefaultRedisReadTimeout,
		WriteTimeout: DefaultRedisWriteTimeout,
		IdleTimeout:  DefaultRedisIdleTimeout,
		OnConnect: func(c *redis.Conn) error {
			logs <- common.ServiceLogf(common.LogLevelDebug, "connection to redis[%s] created", id)
			return nil
		},
	}
	output := Redis{
		client:      redis.NewClient(redisOptions),
		id:          id,
		serviceLogs: logs,
		supervisor:  newSupervisor("redis", id, connectionOpts.HealthcheckInterval, connectionOpts.RetryInterval, logs),
	}
	output.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "redis service logs is active for connection[%s]", id)
	return &output
}

// Redis keeps a single *redis.Client for its lifetime, the client
// maintains its own pool so reconnecting means verifying it again
type Redis struct {
	id     string
	client *redis.Client

	serviceLogs chan common.ServiceLog
	supervisor  *supervisor
}

func (r *Redis) GetClient() *redis.Client {
	return r.client
}

func (r *Redis) GetId() string {
	return r.id
}

func (r *Redis) GetStatus() *Status {
	return r.supervisor.status.snapshot()
}

func (r *Redis) Init() error {
	return r.supervisor.init(r)
}

func (r *Redis) Shutdown() error {
	r.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutting down redis[%s] connection...", r.id)
	r.supervisor.stop()
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis connection: %w", err)
	}
	return nil
}

// connect verifies the connection with a SET/GET/UNLINK round trip on
// a throwaway key
func (r *Redis) connect() error {
	r.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "redis[%s] running Redis.connect()...", r.id)
	testKey := "connect-test-" + r.id + "-" + time.Now().Format("20060102150405.000")
	testValue := "test"
	if status := r.client.Set(testKey, testValue, 5*time.Second); status.Err() != nil {
		r.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("redis[%s] failed to SET: %w", r.id, status.Err()))
		return r.supervisor.status.GetError()
	}
	if res := r.client.Get(testKey); res.Err() != nil {
		r.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("redis[%s] failed to GET: %w", r.id, res.Err()))
		return r.supervisor.status.GetError()
	} else if res.Val() != testValue {
		r.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("redis[%s] failed to reconcile SET/GET value", r.id))
		return r.supervisor.status.GetError()
	}
	if res := r.client.Unlink(testKey); res.Err() != nil {
		r.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("redis[%s] failed to DEL: %w", r.id, res.Err()))
		return r.supervisor.status.GetError()
	}
	r.supervisor.status.set(StatusCodeOk, nil)
	return nil
}

func (r *Redis) ping() error {
	r.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "redis[%s] running Redis.ping()...", r.id)
	if err := r.client.Ping().Err(); err != nil {
		r.supervisor.status.set(StatusCodePingError, fmt.Errorf("redis[%s] connection closed, last error: %w", r.id, err))
		return r.supervisor.status.GetError()
	}
	r.supervisor.status.set(StatusCodeOk, nil)
	return nil
}
