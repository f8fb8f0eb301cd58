package models

import (
	"context"
	"database/sql"
	"testing"
	"time"
	"tradedesk/internal/solar"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var inspectionColumnNames = []string{
	"id", "org_id", "job_id", "type", "status", "scheduled_for", "completed_at",
	"outcome", "notes", "created_at", "updated_at", "customer_name",
}

func inspectionRow(outcome solar.InspectionOutcome, status solar.InspectionStatus, at time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(inspectionColumnNames).AddRow(
		"insp-1", "org-1", "job-1", string(solar.InspectionTypeBuilding), string(status), nil, nil,
		string(outcome), nil, at, at, "Ada Lovelace",
	)
}

func newMockDb(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func expectInspectionUpdate(mock sqlmock.Sqlmock, stored, next solar.InspectionOutcome, nextStatus solar.InspectionStatus, at time.Time) {
	mock.ExpectBegin()
	mock.ExpectPrepare("SELECT .* FROM inspections").ExpectQuery().
		WithArgs("org-1", "insp-1").
		WillReturnRows(inspectionRow(stored, solar.InspectionStatusRescheduleNeeded, at))
	mock.ExpectPrepare("UPDATE inspections SET").ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("SELECT .* FROM inspections").ExpectQuery().
		WithArgs("org-1", "insp-1").
		WillReturnRows(inspectionRow(next, nextStatus, at))
	mock.ExpectPrepare("INSERT INTO activity_logs").ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestUpdateInspectionV1RepeatedFailCreatesCorrectionTask(t *testing.T) {
	db, mock := newMockDb(t)
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	expectInspectionUpdate(mock, solar.InspectionOutcomeFail, solar.InspectionOutcomeFail, solar.InspectionStatusRescheduleNeeded, now)
	mock.ExpectPrepare("INSERT INTO tasks").ExpectExec().
		WithArgs(sqlmock.AnyArg(), "org-1", "job-1", solar.CorrectionTaskTitle, nil, string(solar.TaskStatusOpen), now.Add(solar.CorrectionTaskDueIn), nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectPrepare("INSERT INTO activity_logs").ExpectExec().
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fail := solar.InspectionOutcomeFail
	notes := "x"
	updated, err := UpdateInspectionV1(context.Background(), UpdateInspectionV1Opts{
		Db:          db,
		OrgId:       "org-1",
		Id:          "insp-1",
		ActorUserId: "user-1",
		Input:       solar.InspectionInput{Type: solar.InspectionTypeBuilding, Outcome: &fail, Notes: &notes},
		Now:         now,
	})
	require.NoError(t, err)
	require.Equal(t, solar.InspectionOutcomeFail, updated.Outcome)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInspectionV1PassCreatesNoTask(t *testing.T) {
	db, mock := newMockDb(t)
	now := time.Date(2026, 3, 2, 15, 0, 0, 0, time.UTC)
	expectInspectionUpdate(mock, solar.InspectionOutcomeFail, solar.InspectionOutcomePass, solar.InspectionStatusCompleted, now)
	mock.ExpectCommit()

	pass := solar.InspectionOutcomePass
	_, err := UpdateInspectionV1(context.Background(), UpdateInspectionV1Opts{
		Db:          db,
		OrgId:       "org-1",
		Id:          "insp-1",
		ActorUserId: "user-1",
		Input:       solar.InspectionInput{Type: solar.InspectionTypeBuilding, Outcome: &pass},
		Now:         now,
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
