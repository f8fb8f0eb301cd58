package persistence

import (
	"errors"
	"sync"
	"testing"
	"time"
	"tradedesk/internal/common"

	"go.uber.org/goleak"
)

type fakeConnector struct {
	mutex        sync.Mutex
	status       *Status
	connectCalls int
	pingErrors   []error
}

func (f *fakeConnector) connect() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.connectCalls++
	f.status.set(StatusCodeOk, nil)
	return nil
}

func (f *fakeConnector) ping() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if len(f.pingErrors) > 0 {
		err := f.pingErrors[0]
		f.pingErrors = f.pingErrors[1:]
		if err != nil {
			f.status.set(StatusCodePingError, err)
			return err
		}
	}
	f.status.set(StatusCodeOk, nil)
	return nil
}

func (f *fakeConnector) getConnectCalls() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.connectCalls
}

func TestSupervisorReconnectsAfterPingError(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreAnyFunction("tradedesk/internal/common.startNoopServiceLog"))

	s := newSupervisor("fake", "test", 10*time.Millisecond, 10*time.Millisecond, common.GetNoopServiceLog())
	c := &fakeConnector{status: s.status, pingErrors: []error{nil, errors.New("boom")}}
	if err := s.init(c); err != nil {
		t.Fatalf("expected init to succeed, got %s", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for c.getConnectCalls() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.getConnectCalls() < 2 {
		t.Fatalf("expected a reconnect after the ping error, got %v connect calls", c.getConnectCalls())
	}

	if previous := s.stop(); previous == StatusCodeShuttingDown {
		t.Fatalf("expected previous status to not be shutting down")
	}
	if s.status.GetCode() != StatusCodeShuttingDown {
		t.Fatalf("expected status to be shutting down")
	}
	s.stop()
	time.Sleep(30 * time.Millisecond)
}

func TestStatusSnapshotIsDetached(t *testing.T) {
	status := newStatus()
	status.set(StatusCodePingError, errors.New("ping failed"))
	snapshot := status.snapshot()
	status.set(StatusCodeOk, nil)
	if snapshot.GetCode() != StatusCodePingError || snapshot.GetError() == nil {
		t.Fatalf("expected snapshot to keep the old state")
	}
	if status.GetCode() != StatusCodeOk {
		t.Fatalf("expected live status to be updated")
	}
}
