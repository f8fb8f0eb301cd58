package vendorcredit

import (
	"sort"
	"time"
)

const (
	AgingBucket0To7   = "0-7"
	AgingBucket8To14  = "8-14"
	AgingBucket15To30 = "15-30"
	AgingBucketOver30 = "30+"

	DashboardTopVendors = 5
)

var agingBuckets = []string{AgingBucket0To7, AgingBucket8To14, AgingBucket15To30, AgingBucketOver30}

func AgingBucket(days int) string {
	switch {
	case days <= 7:
		return AgingBucket0To7
	case days <= 14:
		return AgingBucket8To14
	case days <= 30:
		return AgingBucket15To30
	}
	return AgingBucketOver30
}

type AgingCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

type VendorTotal struct {
	VendorId       string  `json:"vendorId"`
	VendorName     string  `json:"vendorName"`
	ExpectedCredit float64 `json:"expectedCredit"`
}

type Dashboard struct {
	OpenCount           int           `json:"openCount"`
	ExpectedOpenTotal   float64       `json:"expectedOpenTotal"`
	ActualReceivedTotal float64       `json:"actualReceivedTotal"`
	Aging               []AgingCount  `json:"aging"`
	TopVendors          []VendorTotal `json:"topVendors"`
}

// BuildDashboard aggregates an org's cases as of now. Aging only
// counts open cases and uses whole days since creation
func BuildDashboard(cases []Case, now time.Time) Dashboard {
	dashboard := Dashboard{
		Aging:      make([]AgingCount, len(agingBuckets)),
		TopVendors: []VendorTotal{},
	}
	agingIndex := map[string]int{}
	for i, bucket := range agingBuckets {
		dashboard.Aging[i] = AgingCount{Bucket: bucket}
		agingIndex[bucket] = i
	}

	vendorTotals := map[string]*VendorTotal{}
	for _, c := range cases {
		if c.Status == CaseStatusCreditReceived || c.Status == CaseStatusClosed {
			if c.ActualCredit != nil {
				dashboard.ActualReceivedTotal += *c.ActualCredit
			}
		}
		if !c.Status.IsOpen() {
			continue
		}
		dashboard.OpenCount++
		days := int(now.Sub(c.CreatedAt) / (24 * time.Hour))
		dashboard.Aging[agingIndex[AgingBucket(days)]].Count++

		total, ok := vendorTotals[c.VendorId]
		if !ok {
			total = &VendorTotal{VendorId: c.VendorId, VendorName: c.VendorName}
			vendorTotals[c.VendorId] = total
		}
		if c.ExpectedCredit != nil {
			dashboard.ExpectedOpenTotal += *c.ExpectedCredit
			total.ExpectedCredit += *c.ExpectedCredit
		}
	}

	for _, total := range vendorTotals {
		dashboard.TopVendors = append(dashboard.TopVendors, *total)
	}
	sort.Slice(dashboard.TopVendors, func(i, j int) bool {
		a, b := dashboard.TopVendors[i], dashboard.TopVendors[j]
		if a.ExpectedCredit != b.ExpectedCredit {
			return a.ExpectedCredit > b.ExpectedCredit
		}
		return a.VendorName < b.VendorName
	})
	if len(dashboard.TopVendors) > DashboardTopVendors {
		dashboard.TopVendors = dashboard.TopVendors[:DashboardTopVendors]
	}
	return dashboard
}
