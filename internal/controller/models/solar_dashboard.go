package models

import (
	"context"
	"time"
	"tradedesk/internal/solar"
)

type GetSolarDashboardV1Opts struct {
	Db Db

	OrgId string
	Now   time.Time
}

func GetSolarDashboardV1(ctx context.Context, opts GetSolarDashboardV1Opts) (*solar.Dashboard, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	dashboard := solar.NewDashboard()

	counts, err := CountJobsByStatusV1(ctx, CountJobsByStatusV1Opts{Db: opts.Db, OrgId: opts.OrgId})
	if err != nil {
		return nil, err
	}
	for status, count := range counts {
		dashboard.JobsByStatus[status] = count
	}

	if dashboard.OpenTasks, err = CountOpenTasksV1(ctx, CountOpenTasksV1Opts{Db: opts.Db, OrgId: opts.OrgId}); err != nil {
		return nil, err
	}

	upcoming, err := ListScheduledInspectionsV1(ctx, ListScheduledInspectionsV1Opts{
		Db:    opts.Db,
		OrgId: opts.OrgId,
		From:  now,
		To:    now.Add(solar.UpcomingInspectionWindow),
	})
	if err != nil {
		return nil, err
	}
	dashboard.UpcomingInspections = upcoming

	if dashboard.StuckPermitCount, err = CountStuckPermitsV1(ctx, CountStuckPermitsV1Opts{
		Db:       opts.Db,
		OrgId:    opts.OrgId,
		Criteria: solar.StuckPermitCriteria{Today: solar.StartOfDay(now)},
	}); err != nil {
		return nil, err
	}
	return &dashboard, nil
}

type GetSolarTodayV1Opts GetSolarDashboardV1Opts

// GetSolarTodayV1 lists follow-ups and open tasks due by the end of the
// day, overdue ones included, and every inspection scheduled that day
func GetSolarTodayV1(ctx context.Context, opts GetSolarTodayV1Opts) (*solar.Today, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}
	startOfDay, endOfDay := solar.TodayWindow(now)
	today := solar.Today{}

	var err error
	if today.FollowUpsDue, err = ListFollowUpPermitsV1(ctx, ListFollowUpPermitsV1Opts{
		Db:       opts.Db,
		OrgId:    opts.OrgId,
		Deadline: endOfDay,
	}); err != nil {
		return nil, err
	}

	if today.InspectionsToday, err = selectInspections(
		ctx,
		opts.Db,
		"models.GetSolarTodayV1",
		`inspections.org_id = ?
			AND inspections.scheduled_for >= ?
			AND inspections.scheduled_for <= ?
			ORDER BY inspections.scheduled_for ASC`,
		opts.OrgId,
		startOfDay,
		endOfDay,
	); err != nil {
		return nil, err
	}

	if today.TasksDue, err = selectTasks(
		ctx,
		opts.Db,
		"models.GetSolarTodayV1",
		`tasks.org_id = ?
			AND tasks.status = ?
			AND tasks.due_at <= ?
			ORDER BY tasks.due_at ASC`,
		opts.OrgId,
		string(solar.TaskStatusOpen),
		endOfDay,
	); err != nil {
		return nil, err
	}
	return &today, nil
}
