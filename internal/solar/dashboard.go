package solar

import "time"

const UpcomingInspectionWindow = 7 * 24 * time.Hour

type Dashboard struct {
	JobsByStatus        map[JobStatus]int `json:"jobsByStatus"`
	OpenTasks           int               `json:"openTasks"`
	UpcomingInspections []Inspection      `json:"upcomingInspections"`
	StuckPermitCount    int               `json:"stuckPermitCount"`
}

// NewDashboard seeds every job status with zero so clients render the
// full pipeline
func NewDashboard() Dashboard {
	dashboard := Dashboard{
		JobsByStatus:        map[JobStatus]int{},
		UpcomingInspections: []Inspection{},
	}
	for _, status := range JobStatuses {
		dashboard.JobsByStatus[status] = 0
	}
	return dashboard
}

// IsInspectionUpcoming reports a SCHEDULED inspection within the next
// seven days
func IsInspectionUpcoming(inspection Inspection, now time.Time) bool {
	if inspection.Status != InspectionStatusScheduled || inspection.ScheduledFor == nil {
		return false
	}
	at := *inspection.ScheduledFor
	return !at.Before(now) && !at.After(now.Add(UpcomingInspectionWindow))
}
