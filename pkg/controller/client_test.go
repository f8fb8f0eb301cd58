package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"tradedesk/internal/common"
	"tradedesk/internal/filters"
	"tradedesk/internal/solar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewClient(NewClientOpts{
		ControllerUrl: server.URL,
		BearerAuth:    &NewClientBearerAuthOpts{Token: "token-1"},
		Id:            "test",
	})
	require.NoError(t, err)
	return client
}

func writeResponse(w http.ResponseWriter, status int, response common.HttpResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

func TestNewClient(t *testing.T) {
	for _, controllerUrl := range []string{"localhost:8080", "ftp://localhost:8080", "http://", "/api/v1"} {
		_, err := NewClient(NewClientOpts{ControllerUrl: controllerUrl})
		require.Error(t, err, controllerUrl)
	}

	client, err := NewClient(NewClientOpts{ControllerUrl: "http://localhost:8080"})
	require.NoError(t, err)
	require.Equal(t, defaultTimeout, client.HttpClient.Timeout)
}

func TestListStuckPermitsV1(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/solar/orgs/org-1/permits/stuck", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("staleDays"))
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		assert.Equal(t, "tradedesk/controller-sdk/client-test", r.Header.Get("User-Agent"))
		writeResponse(w, http.StatusOK, common.HttpResponse{
			Success: true,
			Message: "ok",
			Data: []solar.Permit{
				{Id: "permit-1", JurisdictionName: "Austin", Status: solar.PermitStatusSubmitted},
			},
		})
	})

	output, err := client.ListStuckPermitsV1(ListStuckPermitsV1Input{OrgId: "org-1", StaleDays: 3})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, output.StatusCode)
	require.Len(t, output.Data, 1)
	require.Equal(t, "Austin", output.Data[0].JurisdictionName)
	require.Equal(t, solar.PermitStatusSubmitted, output.Data[0].Status)
}

func TestErrorCodes(t *testing.T) {
	cases := map[string]struct {
		status   int
		response string
		expected error
	}{
		"known code": {
			status:   http.StatusPaymentRequired,
			response: `{"success":false,"message":"billing required","data":"billing_required"}`,
			expected: ErrorBillingRequired,
		},
		"auth": {
			status:   http.StatusUnauthorized,
			response: `{"success":false,"message":"no session","data":"auth_required"}`,
			expected: ErrorAuthRequired,
		},
		"cycle in progress": {
			status:   http.StatusConflict,
			response: `{"success":false,"message":"a reminder cycle is already running","data":"cycle_in_progress"}`,
			expected: ErrorCycleInProgress,
		},
		"not json": {
			status:   http.StatusForbidden,
			response: "forbidden\n",
			expected: ErrorUnknown,
		},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				io.WriteString(w, c.response)
			})
			output, err := client.GetVendorCreditDashboardV1(GetVendorCreditDashboardV1Input{OrgId: "org-1"})
			require.ErrorIs(t, err, c.expected)
			require.Equal(t, c.status, output.StatusCode)
		})
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, http.StatusConflict, common.HttpResponse{Message: "taken", Data: "something_new"})
	})
	_, err := client.GetVendorCreditDashboardV1(GetVendorCreditDashboardV1Input{OrgId: "org-1"})
	require.EqualError(t, err, "something_new: taken")
}

func TestImportFiltersV1(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/filters/import", r.URL.Path)
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		assert.Equal(t, "catalog.csv", header.Filename)
		content, err := io.ReadAll(file)
		assert.NoError(t, err)
		assert.Contains(t, string(content), "brand,sku")
		writeResponse(w, http.StatusOK, common.HttpResponse{
			Success: true,
			Data: filters.ImportResult{
				Status:   "ok",
				Inserted: 1,
				Failed:   1,
				Errors:   []filters.ImportRowError{{Row: 3, Message: "brand, sku, and product_name are required."}},
			},
		})
	})

	output, err := client.ImportFiltersV1(ImportFiltersV1Input{
		Filename: "catalog.csv",
		Data:     strings.NewReader("brand,sku,product_name,nominal_w,nominal_h,thickness\n"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, output.Data.Inserted)
	require.Equal(t, 3, output.Data.Errors[0].Row)
}

func TestExportCasesReportV1(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/vendorcredit/orgs/org-1/reports/cases.csv", r.URL.Path)
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("start"))
		assert.False(t, r.URL.Query().Has("vendorId"))
		w.Header().Set("Content-Type", "text/csv")
		io.WriteString(w, "caseId,status\ncase-1,NEW\n")
	})

	output, err := client.ExportCasesReportV1(ExportCasesReportV1Input{OrgId: "org-1", Start: "2026-01-01"})
	require.NoError(t, err)
	require.Equal(t, "caseId,status\ncase-1,NEW\n", string(output.Data))
}

func TestSessionTokenFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, _, err := GetSessionToken()
	require.ErrorIs(t, err, ErrorNoCurrentSession)

	path, err := SaveSessionToken("token-1\n")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, ".tradedesk/session/current"))

	token, readPath, err := GetSessionToken()
	require.NoError(t, err)
	require.Equal(t, "token-1", token)
	require.Equal(t, path, readPath)

	require.NoError(t, DeleteSessionToken())
	require.NoError(t, DeleteSessionToken())
	_, _, err = GetSessionToken()
	require.ErrorIs(t, err, ErrorNoCurrentSession)
}

func TestListJobsV1(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/solar/orgs/org-1/jobs", r.URL.Path)
		assert.Equal(t, "ada", r.URL.Query().Get("q"))
		assert.Equal(t, "days_stuck", r.URL.Query().Get("sort"))
		assert.False(t, r.URL.Query().Has("city"))
		writeResponse(w, http.StatusOK, common.HttpResponse{
			Success: true,
			Data:    []solar.Job{{Id: "job-1", CustomerName: "Ada Lovelace", Status: solar.JobStatusInstalled, DaysInStatus: 4}},
		})
	})

	output, err := client.ListJobsV1(ListJobsV1Input{OrgId: "org-1", Query: "ada", Sort: "days_stuck"})
	require.NoError(t, err)
	require.Len(t, output.Data, 1)
	require.Equal(t, 4, output.Data[0].DaysInStatus)
}

func TestGetSolarTodayV1(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/solar/orgs/org-1/today", r.URL.Path)
		writeResponse(w, http.StatusOK, common.HttpResponse{
			Success: true,
			Data: solar.Today{
				FollowUpsDue:     []solar.Permit{{Id: "permit-1"}},
				InspectionsToday: []solar.Inspection{},
				TasksDue:         []solar.Task{{Id: "task-1", Title: "Call utility"}},
			},
		})
	})

	output, err := client.GetSolarTodayV1(GetSolarTodayV1Input{OrgId: "org-1"})
	require.NoError(t, err)
	require.Len(t, output.Data.FollowUpsDue, 1)
	require.Empty(t, output.Data.InspectionsToday)
	require.Equal(t, "Call utility", output.Data.TasksDue[0].Title)
}
