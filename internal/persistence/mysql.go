package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
	"tradedesk/internal/common"

	"github.com/go-sql-driver/mysql"
)

const (
	// mysqlErrorInactivityDisconnect is raised by the server when it
	// closes a connection that has been idle for too long
	mysqlErrorInactivityDisconnect = 4031

	DefaultMysqlMaxOpenConnections = 16
	DefaultMysqlMaxIdleConnections = 4
	DefaultMysqlConnectionLifetime = 5 * time.Minute
)

type MysqlConnectionOpts struct {
	AppName             string
	Host                string
	Database            string
	RetryInterval       time.Duration
	HealthcheckInterval time.Duration
}

type MysqlAuthOpts struct {
	Password string
	Username string
}

func NewMysql(
	connectionOpts MysqlConnectionOpts,
	authOpts MysqlAuthOpts,
	serviceLogs *chan common.ServiceLog,
) *Mysql {
	id := getAppName(connectionOpts.AppName)
	logs := getServiceLogs(serviceLogs)
	output := Mysql{
		id: id,
		options: mysql.Config{
			User:                 authOpts.Username,
			Passwd:               authOpts.Password,
			Net:                  "tcp",
			Addr:                 connectionOpts.Host,
			DBName:               connectionOpts.Database,
			AllowNativePasswords: true,
			ClientFoundRows:      true,
			ParseTime:            true,
			Loc:                  time.UTC,
			MultiStatements:      true,
		},
		serviceLogs: logs,
		supervisor:  newSupervisor("mysql", id, connectionOpts.HealthcheckInterval, connectionOpts.RetryInterval, logs),
	}
	output.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "mysql service logs is active for connection[%s]", id)
	return &output
}

type Mysql struct {
	id          string
	client      *sql.DB
	clientMutex sync.RWMutex
	options     mysql.Config

	serviceLogs chan common.ServiceLog
	supervisor  *supervisor
}

func (m *Mysql) GetClient() *sql.DB {
	m.clientMutex.RLock()
	defer m.clientMutex.RUnlock()
	return m.client
}

func (m *Mysql) GetId() string {
	return m.id
}

func (m *Mysql) GetStatus() *Status {
	return m.supervisor.status.snapshot()
}

func (m *Mysql) Init() error {
	return m.supervisor.init(m)
}

func (m *Mysql) Shutdown() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "shutting down mysql[%s] connection...", m.id)
	m.supervisor.stop()
	m.clientMutex.Lock()
	defer m.clientMutex.Unlock()
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			return fmt.Errorf("failed to close mysql connection: %w", err)
		}
		m.client = nil
	}
	return nil
}

func (m *Mysql) connect() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "mysql[%s] running Mysql.connect()...", m.id)
	client, connectErr := sql.Open("mysql", m.options.FormatDSN())
	if connectErr != nil {
		m.supervisor.status.set(StatusCodeConnectError, fmt.Errorf("mysql[%s] failed to connect: %w", m.id, connectErr))
		return m.supervisor.status.GetError()
	}
	client.SetMaxOpenConns(DefaultMysqlMaxOpenConnections)
	client.SetMaxIdleConns(DefaultMysqlMaxIdleConnections)
	client.SetConnMaxLifetime(DefaultMysqlConnectionLifetime)

	m.clientMutex.Lock()
	previous := m.client
	m.client = client
	m.clientMutex.Unlock()
	if previous != nil {
		previous.Close()
	}
	m.supervisor.status.set(StatusCodeOk, nil)
	return nil
}

func (m *Mysql) ping() error {
	m.serviceLogs <- common.ServiceLogf(common.LogLevelTrace, "mysql[%s] running Mysql.ping()...", m.id)
	client := m.GetClient()
	if client == nil {
		return fmt.Errorf("failed to ping mysql[%s], there is no connection", m.id)
	}
	if _, pingErr := client.Exec("SELECT 1"); pingErr != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(pingErr, &mysqlErr) && mysqlErr.Number == mysqlErrorInactivityDisconnect {
			m.supervisor.status.set(StatusCodePingError, fmt.Errorf("mysql[%s] caught inactivity disconnect: %w", m.id, pingErr))
			return m.supervisor.status.GetError()
		}
		m.supervisor.status.set(StatusCodePingError, pingErr)
		return m.supervisor.status.GetError()
	}
	m.supervisor.status.set(StatusCodeOk, nil)
	return nil
}
