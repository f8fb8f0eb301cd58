package models

import (
	"context"
	"testing"
	"time"
	"tradedesk/internal/solar"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestListJobsV1AppliesBoardFilter(t *testing.T) {
	db, mock := newMockDb(t)
	updatedAt := time.Now().UTC().Add(-72 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "org_id", "customer_name", "site_address", "city", "utility_name", "jurisdiction_name",
		"system_size_kw", "status", "notes", "created_at", "updated_at",
	}).AddRow("job-1", "org-1", "Ada Lovelace", "12 Analytical Way", "Portland", nil, nil, nil, "INSTALLED", nil, updatedAt, updatedAt)
	mock.ExpectPrepare(`SELECT .* FROM jobs WHERE jobs.org_id = \? AND jobs.city LIKE \? AND \(jobs.customer_name LIKE \? OR jobs.site_address LIKE \?\) ORDER BY jobs.updated_at ASC LIMIT 60`).
		ExpectQuery().
		WithArgs("org-1", "%Port%", "%ada%", "%ada%").
		WillReturnRows(rows)

	jobs, err := ListJobsV1(context.Background(), ListJobsV1Opts{
		Db:     db,
		OrgId:  "org-1",
		Filter: solar.JobListFilter{City: "Port", Query: "ada", Sort: solar.JobSortDaysStuck},
	})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	require.Equal(t, "Portland", *jobs[0].City)
	require.Equal(t, 3, jobs[0].DaysInStatus)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSolarTodayV1(t *testing.T) {
	db, mock := newMockDb(t)
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	startOfDay, endOfDay := solar.TodayWindow(now)

	mock.ExpectPrepare("SELECT .* FROM permits").ExpectQuery().
		WithArgs("org-1", "SUBMITTED", "IN_REVIEW", endOfDay).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectPrepare("SELECT .* FROM inspections").ExpectQuery().
		WithArgs("org-1", startOfDay, endOfDay).
		WillReturnRows(inspectionRow(solar.InspectionOutcomeNa, solar.InspectionStatusScheduled, now))
	mock.ExpectPrepare("SELECT .* FROM tasks").ExpectQuery().
		WithArgs("org-1", "OPEN", endOfDay).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	today, err := GetSolarTodayV1(context.Background(), GetSolarTodayV1Opts{Db: db, OrgId: "org-1", Now: now})
	require.NoError(t, err)
	require.Empty(t, today.FollowUpsDue)
	require.Len(t, today.InspectionsToday, 1)
	require.Equal(t, "Ada Lovelace", today.InspectionsToday[0].CustomerName)
	require.Empty(t, today.TasksDue)
	require.NoError(t, mock.ExpectationsWereMet())
}
