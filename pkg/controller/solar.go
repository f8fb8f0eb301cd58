package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"tradedesk/internal/solar"
)

const solarOrgPath = "/api/v1/solar/orgs/%s"

type GetSolarDashboardV1Input struct {
	OrgId string
}

type GetSolarDashboardV1Output struct {
	Data solar.Dashboard

	http.Response
}

func (c Client) GetSolarDashboardV1(input GetSolarDashboardV1Input) (*GetSolarDashboardV1Output, error) {
	var outputData solar.Dashboard
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(solarOrgPath, input.OrgId) + "/dashboard",
		Output: &outputData,
	})
	return &GetSolarDashboardV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type ListStuckPermitsV1Input struct {
	OrgId string

	// StaleDays overrides how many days without contact make a permit
	// stuck, the controller's default applies when zero
	StaleDays int
}

type ListStuckPermitsV1Output struct {
	Data []solar.Permit

	http.Response
}

func (c Client) ListStuckPermitsV1(input ListStuckPermitsV1Input) (*ListStuckPermitsV1Output, error) {
	var query url.Values
	if input.StaleDays > 0 {
		query = url.Values{"staleDays": []string{strconv.Itoa(input.StaleDays)}}
	}
	var outputData []solar.Permit
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(solarOrgPath, input.OrgId) + "/permits/stuck",
		Query:  query,
		Output: &outputData,
	})
	return &ListStuckPermitsV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

type GetSolarTodayV1Input struct {
	OrgId string
}

type GetSolarTodayV1Output struct {
	Data solar.Today

	http.Response
}

func (c Client) GetSolarTodayV1(input GetSolarTodayV1Input) (*GetSolarTodayV1Output, error) {
	var outputData solar.Today
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(solarOrgPath, input.OrgId) + "/today",
		Output: &outputData,
	})
	return &GetSolarTodayV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}

// ListJobsV1Input mirrors the job board filters, empty fields are not
// sent; From and To are YYYY-MM-DD dates
type ListJobsV1Input struct {
	OrgId string

	Status string
	Query  string
	City   string
	From   string
	To     string
	Sort   string
}

type ListJobsV1Output struct {
	Data []solar.Job

	http.Response
}

func (c Client) ListJobsV1(input ListJobsV1Input) (*ListJobsV1Output, error) {
	query := url.Values{}
	for key, value := range map[string]string{
		"status": input.Status,
		"q":      input.Query,
		"city":   input.City,
		"from":   input.From,
		"to":     input.To,
		"sort":   input.Sort,
	} {
		if value != "" {
			query.Set(key, value)
		}
	}
	var outputData []solar.Job
	outputClient, err := c.do(request{
		Method: http.MethodGet,
		Path:   fmt.Sprintf(solarOrgPath, input.OrgId) + "/jobs",
		Query:  query,
		Output: &outputData,
	})
	return &ListJobsV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
