package controller

import (
	"io"
	"net/http"
	"tradedesk/internal/filters"
)

type ImportFiltersV1Input struct {
	Filename string
	Data     io.Reader
}

type ImportFiltersV1Output struct {
	Data filters.ImportResult

	http.Response
}

// ImportFiltersV1 uploads a catalog csv, rows that fail validation are
// reported in the output and do not fail the call
func (c Client) ImportFiltersV1(input ImportFiltersV1Input) (*ImportFiltersV1Output, error) {
	var outputData filters.ImportResult
	outputClient, err := c.upload(http.MethodPost, "/api/v1/filters/import", input.Filename, input.Data, nil, &outputData)
	return &ImportFiltersV1Output{
		Data:     outputData,
		Response: outputClient.GetResponse(),
	}, err
}
