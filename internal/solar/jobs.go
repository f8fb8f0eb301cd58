package solar

import (
	"fmt"
	"strings"
	"time"
	"tradedesk/internal/common"
)

type JobSort string

const (
	JobSortUpdatedDesc JobSort = "updated_desc"
	JobSortUpdatedAsc  JobSort = "updated_asc"
	JobSortDaysStuck   JobSort = "days_stuck"

	JobListLimit = 60

	// JobListDateLayout is the layout of the from and to filters
	JobListDateLayout = "2006-01-02"
)

func (s JobSort) IsValid() bool {
	return s == JobSortUpdatedDesc || s == JobSortUpdatedAsc || s == JobSortDaysStuck
}

// JobListFilter narrows the job board. Query matches customer name or
// site address, UpdatedFrom and UpdatedTo are inclusive start-of-day
// bounds on updatedAt
type JobListFilter struct {
	Status      *JobStatus
	Query       string
	City        string
	UpdatedFrom *time.Time
	UpdatedTo   *time.Time
	Sort        JobSort
}

// ParseJobListFilter reads the raw query values of the job board, empty
// values are ignored
func ParseJobListFilter(status, query, city, from, to, sort string) (JobListFilter, error) {
	filter := JobListFilter{
		Query: strings.TrimSpace(query),
		City:  strings.TrimSpace(city),
		Sort:  JobSortUpdatedDesc,
	}
	if status = strings.TrimSpace(status); status != "" {
		jobStatus := JobStatus(status)
		if !jobStatus.IsValid() {
			return filter, fmt.Errorf("status[%s] is not a job status", status)
		}
		filter.Status = &jobStatus
	}
	if sort = strings.TrimSpace(sort); sort != "" {
		filter.Sort = JobSort(sort)
		if !filter.Sort.IsValid() {
			return filter, fmt.Errorf("sort[%s] must be one of %s, %s or %s", sort, JobSortUpdatedDesc, JobSortUpdatedAsc, JobSortDaysStuck)
		}
	}
	for _, bound := range []struct {
		name  string
		value string
		dest  **time.Time
	}{
		{"from", from, &filter.UpdatedFrom},
		{"to", to, &filter.UpdatedTo},
	} {
		value := strings.TrimSpace(bound.value)
		if value == "" {
			continue
		}
		parsed, err := time.Parse(JobListDateLayout, value)
		if err != nil {
			return filter, fmt.Errorf("%s[%s] must be a YYYY-MM-DD date", bound.name, value)
		}
		day := StartOfDay(parsed)
		*bound.dest = &day
	}
	return filter, nil
}

// JobListClause returns the WHERE clause, ordering and limit for the
// job board of an org
func JobListClause(orgId string, filter JobListFilter) (string, []any) {
	clauses := []string{`jobs.org_id = ?`}
	args := []any{orgId}
	if filter.Status != nil {
		clauses = append(clauses, `jobs.status = ?`)
		args = append(args, string(*filter.Status))
	}
	if filter.City != "" {
		clauses = append(clauses, `jobs.city LIKE ?`)
		args = append(args, "%"+common.EscapeSqlLike(filter.City)+"%")
	}
	if filter.Query != "" {
		pattern := "%" + common.EscapeSqlLike(filter.Query) + "%"
		clauses = append(clauses, `(jobs.customer_name LIKE ? OR jobs.site_address LIKE ?)`)
		args = append(args, pattern, pattern)
	}
	if filter.UpdatedFrom != nil {
		clauses = append(clauses, `jobs.updated_at >= ?`)
		args = append(args, filter.UpdatedFrom.UTC())
	}
	if filter.UpdatedTo != nil {
		clauses = append(clauses, `jobs.updated_at <= ?`)
		args = append(args, filter.UpdatedTo.UTC())
	}
	order := `jobs.updated_at DESC`
	if filter.Sort == JobSortUpdatedAsc || filter.Sort == JobSortDaysStuck {
		order = `jobs.updated_at ASC`
	}
	return fmt.Sprintf(`%s ORDER BY %s LIMIT %d`, strings.Join(clauses, " AND "), order, JobListLimit), args
}

// Today is the coordinator's daily view: follow-ups due, inspections
// happening and open tasks due by the end of the day
type Today struct {
	FollowUpsDue     []Permit     `json:"followUpsDue"`
	InspectionsToday []Inspection `json:"inspectionsToday"`
	TasksDue         []Task       `json:"tasksDue"`
}

// TodayWindow returns the UTC start and the last instant of the day
// containing now
func TodayWindow(now time.Time) (time.Time, time.Time) {
	start := StartOfDay(now)
	return start, start.Add(24*time.Hour - time.Nanosecond)
}
