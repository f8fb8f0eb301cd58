package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"tradedesk/internal/auth"
	"tradedesk/internal/cache"
	"tradedesk/internal/common"
	"tradedesk/internal/controller/models"
	"tradedesk/internal/reminders"
	"tradedesk/internal/solar"
	"tradedesk/internal/vendorcredit"

	"github.com/stretchr/testify/require"
)

const testSigningToken = "test-signing-token"

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) commonHttpResponse {
	t.Helper()
	var response commonHttpResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func setupSession(t *testing.T, userId string) string {
	t.Helper()
	sessionSigningToken = testSigningToken
	cacheInstance = cache.NewMemory()
	sessionId := "session-" + userId
	token, err := auth.GenerateJwt(auth.GenerateJwtOpts{
		Email:     userId + "@example.com",
		Secret:    testSigningToken,
		SessionId: sessionId,
		Ttl:       time.Hour,
		UserId:    userId,
	})
	require.NoError(t, err)
	require.NoError(t, cacheInstance.Set(auth.SessionKey(userId, sessionId), userId+"@example.com", time.Hour))
	return token
}

func TestRouteAuther(t *testing.T) {
	token := setupSession(t, "user-1")
	var seen userIdentity
	handler := getRouteAuther(common.GetNoopServiceLog())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = getIdentity(r)
		common.SendHttpSuccessResponse(w, r, http.StatusOK, "ok")
	}))

	t.Run("missing header", func(t *testing.T) {
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		require.Equal(t, ErrorAuthRequired.Error(), decodeResponse(t, recorder).Data)
	})

	t.Run("bad signature", func(t *testing.T) {
		forged, err := auth.GenerateJwt(auth.GenerateJwtOpts{
			Secret:    "another-secret",
			SessionId: "session-user-1",
			Ttl:       time.Hour,
			UserId:    "user-1",
		})
		require.NoError(t, err)
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+forged)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid session", func(t *testing.T) {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusOK, recorder.Code)
		require.Equal(t, "user-1", seen.UserId)
		require.Equal(t, "session-user-1", seen.SessionId)
		require.Equal(t, "user-1@example.com", seen.Username)
	})

	t.Run("logged out session", func(t *testing.T) {
		require.NoError(t, cacheInstance.Del(auth.SessionKey("user-1", "session-user-1")))
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}

func TestCronAuther(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cronSecret = ""
	recorder := httptest.NewRecorder()
	getCronAuther(common.GetNoopServiceLog())(next).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	require.Equal(t, ErrorCronDisabled.Error(), decodeResponse(t, recorder).Data)

	cronSecret = "cron-secret"
	defer func() { cronSecret = "" }()
	guarded := getCronAuther(common.GetNoopServiceLog())(next)

	cases := map[string]struct {
		header string
		status int
	}{
		"no header":    {header: "", status: http.StatusUnauthorized},
		"wrong secret": {header: "Bearer nope", status: http.StatusForbidden},
		"right secret": {header: "Bearer cron-secret", status: http.StatusNoContent},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/", nil)
			if c.header != "" {
				request.Header.Set("Authorization", c.header)
			}
			recorder := httptest.NewRecorder()
			guarded.ServeHTTP(recorder, request)
			require.Equal(t, c.status, recorder.Code)
		})
	}
}

func TestSendModelError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   error
	}{
		{err: fmt.Errorf("lookup: %w", models.ErrorNotFound), status: http.StatusNotFound, code: ErrorNotFound},
		{err: vendorcredit.ErrorImportJobNotFound, status: http.StatusNotFound, code: ErrorNotFound},
		{err: errors.Join(solar.ErrorInvalidInput, errors.New("customerName is required")), status: http.StatusBadRequest, code: ErrorInvalidInput},
		{err: reminders.ErrorInvalidPolicy, status: http.StatusBadRequest, code: ErrorInvalidInput},
		{err: vendorcredit.ErrorInvalidTemplate, status: http.StatusBadRequest, code: ErrorInvalidInput},
		{err: vendorcredit.ErrorImportFileEmpty, status: http.StatusBadRequest, code: ErrorInvalidInput},
		{err: fmt.Errorf("%w: from[NEW] to[CLOSED]", vendorcredit.ErrorInvalidTransition), status: http.StatusConflict, code: ErrorInvalidTransition},
		{err: solar.ErrorInvalidTransition, status: http.StatusConflict, code: ErrorInvalidTransition},
		{err: vendorcredit.ErrorImportJobNotReady, status: http.StatusConflict, code: ErrorInvalidTransition},
		{err: models.ErrorDuplicateEntry, status: http.StatusConflict, code: ErrorDuplicateEntry},
		{err: models.ErrorSeatLimitReached, status: http.StatusForbidden, code: ErrorSeatLimitReached},
		{err: models.ErrorInvitationExpired, status: http.StatusGone, code: ErrorInvitationUnusable},
		{err: models.ErrorInvitationAccepted, status: http.StatusGone, code: ErrorInvitationUnusable},
		{err: models.ErrorCredentialsAuthenticationFailed, status: http.StatusUnauthorized, code: ErrorInvalidCredentials},
		{err: errors.New("connection refused"), status: http.StatusInternalServerError, code: ErrorDatabaseIssue},
	}
	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			recorder := httptest.NewRecorder()
			sendModelError(recorder, httptest.NewRequest(http.MethodGet, "/", nil), "failed", c.err)
			require.Equal(t, c.status, recorder.Code)
			response := decodeResponse(t, recorder)
			require.False(t, response.Success)
			require.Equal(t, c.code.Error(), response.Data)
		})
	}
}

func TestRequireRole(t *testing.T) {
	withRole := func(role string) *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/", nil)
		return request.WithContext(contextWithOrgAccess(request, orgAccess{
			Membership: models.Membership{Role: role},
		}))
	}

	recorder := httptest.NewRecorder()
	require.True(t, requireRole(recorder, withRole(string(solar.RoleCrew)), canEditSolar))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	require.False(t, requireRole(recorder, withRole(string(solar.RoleViewer)), canEditSolar))
	require.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	require.False(t, requireRole(recorder, withRole(string(solar.RoleCoordinator)), canManageReminders))
	require.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	require.True(t, requireRole(recorder, withRole(string(vendorcredit.RoleAdmin)), canManageTemplates))
}

func TestRouterGuardsOrgRoutes(t *testing.T) {
	setupSession(t, "user-1")
	cronSecret = ""
	router, err := newRouter(routerOpts{ServiceLogs: common.GetNoopServiceLog()})
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/orgs",
		"/api/v1/solar/orgs/org-1/jobs",
		"/api/v1/solar/orgs/org-1/reminders/policies",
		"/api/v1/vendorcredit/orgs/org-1/cases",
		"/api/v1/vendorcredit/orgs/org-1/imports",
	} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, recorder.Code, path)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/cron/reminders", nil))
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/nothing-here", nil))
	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandleGetImportTemplateV1(t *testing.T) {
	recorder := httptest.NewRecorder()
	handleGetImportTemplateV1(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "text/csv", recorder.Header().Get("Content-Type"))
	require.Contains(t, recorder.Header().Get("Content-Disposition"), importTemplateFilename)

	headers, rows, err := vendorcredit.ParseCsv(recorder.Body)
	require.NoError(t, err)
	require.Contains(t, headers, "receiptId")
	require.Len(t, rows, 2)
}

func TestRouterRejectsMalformedPathIds(t *testing.T) {
	token := setupSession(t, "user-1")
	router, err := newRouter(routerOpts{ServiceLogs: common.GetNoopServiceLog()})
	require.NoError(t, err)

	for _, path := range []string{
		"/api/v1/solar/orgs/not-a-uuid/jobs",
		"/api/v1/solar/orgs/4f9c2c1e-8a47-4c55-9a61-0f3f5d2b7e10/jobs/job-1",
		"/api/v1/vendorcredit/orgs/4f9c2c1e-8a47-4c55-9a61-0f3f5d2b7e10/cases/case-1",
	} {
		request := httptest.NewRequest(http.MethodGet, path, nil)
		request.Header.Set("Authorization", "Bearer "+token)
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, request)
		require.Equal(t, http.StatusBadRequest, recorder.Code, path)
		require.Contains(t, recorder.Body.String(), "is not a valid id", path)
	}
}
