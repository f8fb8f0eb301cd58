package vendorcredit

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func floatPtr(value float64) *float64 {
	return &value
}

func TestAgingBucket(t *testing.T) {
	require.Equal(t, AgingBucket0To7, AgingBucket(0))
	require.Equal(t, AgingBucket0To7, AgingBucket(7))
	require.Equal(t, AgingBucket8To14, AgingBucket(8))
	require.Equal(t, AgingBucket15To30, AgingBucket(30))
	require.Equal(t, AgingBucketOver30, AgingBucket(31))
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
	daysAgo := func(days int) time.Time {
		return now.Add(-time.Duration(days) * 24 * time.Hour)
	}
	cases := []Case{
		{VendorId: "v1", VendorName: "Acme", Status: CaseStatusNew, ExpectedCredit: floatPtr(100), CreatedAt: daysAgo(1)},
		{VendorId: "v1", VendorName: "Acme", Status: CaseStatusSubmitted, ExpectedCredit: floatPtr(50), CreatedAt: daysAgo(10)},
		{VendorId: "v2", VendorName: "Bolt", Status: CaseStatusDenied, ExpectedCredit: floatPtr(200), CreatedAt: daysAgo(45)},
		{VendorId: "v3", VendorName: "Core", Status: CaseStatusNeedsInfo, CreatedAt: daysAgo(20)},
		{VendorId: "v2", VendorName: "Bolt", Status: CaseStatusCreditReceived, ExpectedCredit: floatPtr(80), ActualCredit: floatPtr(75), CreatedAt: daysAgo(3)},
		{VendorId: "v4", VendorName: "Dyn", Status: CaseStatusClosed, ActualCredit: floatPtr(25), CreatedAt: daysAgo(90)},
	}
	dashboard := BuildDashboard(cases, now)
	require.Equal(t, 4, dashboard.OpenCount)
	require.Equal(t, 350.0, dashboard.ExpectedOpenTotal)
	require.Equal(t, 100.0, dashboard.ActualReceivedTotal)
	require.Equal(t, []AgingCount{
		{Bucket: AgingBucket0To7, Count: 1},
		{Bucket: AgingBucket8To14, Count: 1},
		{Bucket: AgingBucket15To30, Count: 1},
		{Bucket: AgingBucketOver30, Count: 1},
	}, dashboard.Aging)
	require.Equal(t, []VendorTotal{
		{VendorId: "v2", VendorName: "Bolt", ExpectedCredit: 200},
		{VendorId: "v1", VendorName: "Acme", ExpectedCredit: 150},
		{VendorId: "v3", VendorName: "Core", ExpectedCredit: 0},
	}, dashboard.TopVendors)
}

func TestWriteCasesReport(t *testing.T) {
	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	var buffer bytes.Buffer
	err := WriteCasesReport(&buffer, []Case{
		{
			Id:             "case-1",
			VendorName:     "Acme, Inc.",
			Status:         CaseStatusSubmitted,
			ReceiptId:      strPtr("R-1"),
			Qty:            2,
			UnitCost:       floatPtr(19.99),
			ExpectedCredit: floatPtr(39.98),
			DueDate:        &due,
			CreatedAt:      time.Date(2026, 3, 1, 8, 30, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(buffer.String()), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, strings.Join(ReportColumns, ","), lines[0])
	require.Equal(t, `case-1,"Acme, Inc.",SUBMITTED,R-1,,2,19.99,39.98,0,2026-04-01T00:00:00.000Z,2026-03-01T08:30:00.000Z`, lines[1])
}

func TestParseReportFilter(t *testing.T) {
	filter, err := ParseReportFilter("2026-01-01", "", "vendor-1", "BOGUS")
	require.NoError(t, err)
	require.NotNil(t, filter.Start)
	require.Nil(t, filter.End)
	require.Equal(t, "vendor-1", *filter.VendorId)
	require.Nil(t, filter.Status)

	filter, err = ParseReportFilter("", "", "", "CLOSED")
	require.NoError(t, err)
	require.Equal(t, CaseStatusClosed, *filter.Status)

	_, err = ParseReportFilter("yesterday", "", "", "")
	require.ErrorIs(t, err, ErrorInvalidInput)
}
