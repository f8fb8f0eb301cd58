package solar

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseJobListFilter(t *testing.T) {
	filter, err := ParseJobListFilter("", " ada ", " Portland", "2026-03-01", "2026-03-05", "")
	require.NoError(t, err)
	require.Nil(t, filter.Status)
	require.Equal(t, "ada", filter.Query)
	require.Equal(t, "Portland", filter.City)
	require.Equal(t, JobSortUpdatedDesc, filter.Sort)
	require.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *filter.UpdatedFrom)
	require.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), *filter.UpdatedTo)

	filter, err = ParseJobListFilter("PERMIT_SUBMITTED", "", "", "", "", "days_stuck")
	require.NoError(t, err)
	require.Equal(t, JobStatusPermitSubmitted, *filter.Status)
	require.Equal(t, JobSortDaysStuck, filter.Sort)

	_, err = ParseJobListFilter("DONE", "", "", "", "", "")
	require.ErrorContains(t, err, "status[DONE]")
	_, err = ParseJobListFilter("", "", "", "03/01/2026", "", "")
	require.ErrorContains(t, err, "from[03/01/2026]")
	_, err = ParseJobListFilter("", "", "", "", "", "newest")
	require.ErrorContains(t, err, "sort[newest]")
}

func TestJobListClause(t *testing.T) {
	clause, args := JobListClause("org-1", JobListFilter{Sort: JobSortUpdatedDesc})
	require.Equal(t, "jobs.org_id = ? ORDER BY jobs.updated_at DESC LIMIT 60", clause)
	require.Equal(t, []any{"org-1"}, args)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	status := JobStatusInstalled
	clause, args = JobListClause("org-1", JobListFilter{
		Status:      &status,
		Query:       "50%",
		City:        "Port",
		UpdatedFrom: &from,
		Sort:        JobSortDaysStuck,
	})
	require.True(t, strings.HasSuffix(clause, "ORDER BY jobs.updated_at ASC LIMIT 60"))
	require.Contains(t, clause, "jobs.city LIKE ?")
	require.Contains(t, clause, "(jobs.customer_name LIKE ? OR jobs.site_address LIKE ?)")
	require.Equal(t, []any{"org-1", "INSTALLED", "%Port%", `%50\%%`, `%50\%%`, from}, args)
}

func TestTodayWindow(t *testing.T) {
	start, end := TodayWindow(time.Date(2026, 3, 2, 15, 4, 0, 0, time.UTC))
	require.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2026, 3, 2, 23, 59, 59, 999999999, time.UTC), end)
}
