package solar

import (
	"sort"
	"time"
)

const (
	DefaultStaleContactDays     = 5
	SubmittedWithoutContactDays = 7
)

// ContactedToday is the "contacted today" quick action
func ContactedToday(now time.Time) time.Time {
	return StartOfDay(now)
}

// FollowUpInThreeBusinessDays is the "follow up in 3 business days"
// quick action
func FollowUpInThreeBusinessDays(now time.Time) time.Time {
	return AddBusinessDays(StartOfDay(now), 3)
}

type StuckPermitCriteria struct {
	Today            time.Time
	StaleContactDays int
}

func (c StuckPermitCriteria) withDefaults() StuckPermitCriteria {
	if c.Today.IsZero() {
		c.Today = time.Now().UTC()
	}
	if c.StaleContactDays <= 0 {
		c.StaleContactDays = DefaultStaleContactDays
	}
	return c
}

// StuckPermitClause returns the WHERE clause selecting stuck permits for
// an org, it mirrors IsPermitStuck
func StuckPermitClause(orgId string, criteria StuckPermitCriteria) (string, []any) {
	criteria = criteria.withDefaults()
	today := criteria.Today.UTC()
	return `permits.org_id = ?
		AND permits.status IN (?, ?)
		AND (
			permits.next_follow_up_at <= ?
			OR permits.last_contact_at < ?
			OR (permits.submitted_at <= ? AND permits.last_contact_at IS NULL)
		)`,
		[]any{
			orgId,
			string(PermitStatusSubmitted),
			string(PermitStatusInReview),
			today,
			today.AddDate(0, 0, -criteria.StaleContactDays),
			today.AddDate(0, 0, -SubmittedWithoutContactDays),
		}
}

// IsPermitStuck reports whether a permit needs chasing
func IsPermitStuck(permit Permit, criteria StuckPermitCriteria) bool {
	criteria = criteria.withDefaults()
	today := criteria.Today.UTC()
	if permit.Status != PermitStatusSubmitted && permit.Status != PermitStatusInReview {
		return false
	}
	if permit.NextFollowUpAt != nil && !permit.NextFollowUpAt.After(today) {
		return true
	}
	if permit.LastContactAt != nil && permit.LastContactAt.Before(today.AddDate(0, 0, -criteria.StaleContactDays)) {
		return true
	}
	if permit.SubmittedAt != nil && permit.LastContactAt == nil && !permit.SubmittedAt.After(today.AddDate(0, 0, -SubmittedWithoutContactDays)) {
		return true
	}
	return false
}

// SortByNextFollowUp orders permits by next follow-up ascending with
// unset dates first, matching MySQL's NULL ordering
func SortByNextFollowUp(permits []Permit) {
	sort.SliceStable(permits, func(i, j int) bool {
		a, b := permits[i].NextFollowUpAt, permits[j].NextFollowUpAt
		switch {
		case a == nil && b == nil:
			return false
		case a == nil:
			return true
		case b == nil:
			return false
		}
		return a.Before(*b)
	})
}
