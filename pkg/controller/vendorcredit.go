package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"tradedesk/internal/vendorcredit"
)

const vendorCreditOrgPath = "/api/v1/vendorcredit/orgs/%s"

type GetVendorCreditDashboardV1Input struct {
	OrgId string
}

type GetVendorCreditDashboardV1Output struct {
	Data vendorcredit.Dashboard

	http.Response
}

func (c Client) GetVendorCreditDashboardV1(input GetVendorCreditDashboardV1Input) (*GetVendorCreditDashboardV1Output, error) {
	var outputData vendorcredit.Dashboard
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(vendorCreditOrgPath, input.OrgId) + "/dashboard",
		Output: &outputData,
	})
	return &GetVendorCreditDashboardV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type GetCaseReadinessV1Input struct {
	OrgId  string
	CaseId string
}

type GetCaseReadinessV1Output struct {
	Data vendorcredit.Readiness

	http.Response
}

func (c Client) GetCaseReadinessV1(input GetCaseReadinessV1Input) (*GetCaseReadinessV1Output, error) {
	var outputData vendorcredit.Readiness
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(vendorCreditOrgPath, input.OrgId) + fmt.Sprintf("/cases/%s/readiness", input.CaseId),
		Output: &outputData,
	})
	return &GetCaseReadinessV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type ExportCasesReportV1Input struct {
	OrgId string

	// Start and End are YYYY-MM-DD dates, both inclusive
	Start    string
	End      string
	VendorId string
	Status   string
}

type ExportCasesReportV1Output struct {
	// Data is the raw csv report
	Data []byte

	http.Response
}

func (c Client) ExportCasesReportV1(input ExportCasesReportV1Input) (*ExportCasesReportV1Output, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"start":    input.Start,
		"end":      input.End,
		"vendorId": input.VendorId,
		"status":   input.Status,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(vendorCreditOrgPath, input.OrgId) + "/reports/cases.csv",
		Query:  query,
		Raw:    true,
	})
	output := &ExportCasesReportV1Output{Response: outputClient.GetResponse()}
	if err == nil {
		output.Data = outputClient.Body
	}
	return output, err
}
