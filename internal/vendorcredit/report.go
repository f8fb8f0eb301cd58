package vendorcredit

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

const ReportFilename = "cases-report.csv"

var ReportColumns = []string{
	"caseId",
	"vendor",
	"status",
	"receiptId",
	"sku",
	"qty",
	"unitCost",
	"expectedCredit",
	"actualCredit",
	"dueDate",
	"createdAt",
}

// ReportFilter narrows the cases report, nil fields are not applied
type ReportFilter struct {
	Start    *time.Time
	End      *time.Time
	VendorId *string
	Status   *CaseStatus
}

// ParseReportFilter reads the report query parameters, an unknown
// status is ignored rather than rejected
func ParseReportFilter(start, end, vendorId, status string) (ReportFilter, error) {
	var filter ReportFilter
	if start != "" {
		if filter.Start = ParseIsoDate(&start); filter.Start == nil {
			return filter, fmt.Errorf("%w: start[%s] is not a valid date", ErrorInvalidInput, start)
		}
	}
	if end != "" {
		if filter.End = ParseIsoDate(&end); filter.End == nil {
			return filter, fmt.Errorf("%w: end[%s] is not a valid date", ErrorInvalidInput, end)
		}
	}
	if vendorId != "" {
		filter.VendorId = &vendorId
	}
	if caseStatus := CaseStatus(status); caseStatus.IsValid() {
		filter.Status = &caseStatus
	}
	return filter, nil
}

// WriteCasesReport writes one CSV line per case under ReportColumns.
// Missing money values are written as 0 and missing dates as empty
func WriteCasesReport(writer io.Writer, cases []Case) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write(ReportColumns); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}
	for _, c := range cases {
		dueDate := ""
		if c.DueDate != nil {
			dueDate = formatReportTime(*c.DueDate)
		}
		if err := csvWriter.Write([]string{
			c.Id,
			c.VendorName,
			string(c.Status),
			stringOrEmpty(c.ReceiptId),
			stringOrEmpty(c.Sku),
			strconv.Itoa(c.Qty),
			formatMoney(c.UnitCost),
			formatMoney(c.ExpectedCredit),
			formatMoney(c.ActualCredit),
			dueDate,
			formatReportTime(c.CreatedAt),
		}); err != nil {
			return fmt.Errorf("failed to write report row for case[%s]: %w", c.Id, err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func formatReportTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

func formatMoney(value *float64) string {
	if value == nil {
		return "0"
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
