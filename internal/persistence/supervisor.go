package persistence

import (
	"sync"
	"time"
	"tradedesk/internal/common"
)

// connector is implemented by every backend in this package, connect
// (re)creates the underlying client and ping verifies it is usable
type connector interface {
	connect() error
	ping() error
}

// supervisor runs the reconnect and healthcheck loops shared by all
// backends, both loops exit once stop() is called
type supervisor struct {
	kind string
	id   string

	healthcheckInterval time.Duration
	retryInterval       time.Duration

	serviceLogs chan common.ServiceLog
	status      *Status

	retryCount int
	retryMutex sync.Mutex

	done     chan struct{}
	stopOnce sync.Once
}

func newSupervisor(kind, id string, healthcheckInterval, retryInterval time.Duration, serviceLogs chan common.ServiceLog) *supervisor {
	return &supervisor{
		kind:                kind,
		id:                  id,
		healthcheckInterval: orDefaultDuration(healthcheckInterval, DefaultHealthcheckInterval),
		retryInterval:       orDefaultDuration(retryInterval, DefaultRetryInterval),
		serviceLogs:         serviceLogs,
		status:              newStatus(),
		done:                make(chan struct{}),
	}
}

// init performs the first connection synchronously and starts the
// background loops once it succeeds
func (s *supervisor) init(c connector) error {
	s.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "%s[%s] is initialising...", s.kind, s.id)
	if err := c.connect(); err != nil {
		return err
	}
	if err := c.ping(); err != nil {
		return err
	}
	go s.startAutoReconnector(c)
	go s.startConnectionPinger(c)
	return nil
}

func (s *supervisor) getRetryCount() int {
	s.retryMutex.Lock()
	defer s.retryMutex.Unlock()
	return s.retryCount
}

// startAutoReconnector checks for an errored status and attempts to
// reconnect until it is successful again
func (s *supervisor) startAutoReconnector(c connector) {
	s.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "%s[%s] auto-reconnector starting...", s.kind, s.id)
	ticker := time.NewTicker(s.healthcheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
		if s.status.GetError() == nil {
			continue
		}
		for {
			err := c.connect()
			if err == nil {
				err = c.ping()
			}
			if err == nil {
				break
			}
			s.retryMutex.Lock()
			s.retryCount++
			s.retryMutex.Unlock()
			s.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "%s[%s] failed to reconnect after %v attempts: %s", s.kind, s.id, s.getRetryCount(), err)
			select {
			case <-s.done:
				return
			case <-time.After(s.retryInterval):
			}
		}
		s.serviceLogs <- common.ServiceLogf(common.LogLevelInfo, "%s[%s] reconnected after %v attempts", s.kind, s.id, s.getRetryCount()+1)
		s.retryMutex.Lock()
		s.retryCount = 0
		s.retryMutex.Unlock()
	}
}

// startConnectionPinger pings the target and lets ping() record an
// error status when the request fails
func (s *supervisor) startConnectionPinger(c connector) {
	s.serviceLogs <- common.ServiceLogf(common.LogLevelDebug, "%s[%s] connection pinger starting...", s.kind, s.id)
	ticker := time.NewTicker(s.healthcheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
		if s.status.GetCode() == StatusCodeConnectError {
			continue
		}
		if err := c.ping(); err != nil {
			s.serviceLogs <- common.ServiceLogf(common.LogLevelWarn, "failed to ping %s[%s]: %s", s.kind, s.id, err)
		}
	}
}

// stop marks the connection as shutting down and returns the status
// code held before the call
func (s *supervisor) stop() statusCode {
	previous := s.status.GetCode()
	s.status.set(StatusCodeShuttingDown, nil)
	s.stopOnce.Do(func() { close(s.done) })
	return previous
}
