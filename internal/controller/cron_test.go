package controller

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tradedesk/internal/cache"
	"tradedesk/internal/email"
	"tradedesk/internal/reminders"

	"github.com/stretchr/testify/require"
)

// lockedStore and lockedSender are never reached while the cycle lock is held
type lockedStore struct{ reminders.Store }

type lockedSender struct{ email.Sender }

func TestHandleRunReminderCycleV1WhileLocked(t *testing.T) {
	memory := cache.NewMemory()
	_, err := memory.SetNX(reminders.CycleLockKey, "held", time.Minute)
	require.NoError(t, err)
	runner, err := reminders.NewRunner(reminders.RunnerOpts{
		Store:  lockedStore{},
		Sender: lockedSender{},
		Cache:  memory,
	})
	require.NoError(t, err)
	previous := reminderRunner
	reminderRunner = runner
	defer func() { reminderRunner = previous }()

	recorder := httptest.NewRecorder()
	handleRunReminderCycleV1(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/cron/reminders", nil))
	require.Equal(t, http.StatusConflict, recorder.Code)
	require.Equal(t, ErrorCycleInProgress.Error(), decodeResponse(t, recorder).Data)
}
