package filters

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	ImportStatusSuccess = "success"
	ImportStatusError   = "error"

	ImportMessageMissingRequired = "brand, sku, and product_name are required."
	ImportMessageInsertFailed    = "Database insert failed. Check your CSV."
	ImportMessageNoFile          = "Please choose a CSV file."
)

var ImportColumns = []string{
	"brand",
	"series",
	"nominal_w",
	"nominal_h",
	"thickness",
	"merv",
	"sku",
	"upc",
	"product_name",
	"url",
	"notes",
}

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Status   string           `json:"status"`
	Inserted int              `json:"inserted"`
	Failed   int              `json:"failed"`
	Errors   []ImportRowError `json:"errors"`
}

// InsertFunc persists every valid row in one batch
type InsertFunc func(ctx context.Context, inputs []Input) error

// Import parses a catalog CSV and inserts the valid rows in a single
// batch; rows are reported with their line number in the file
func Import(ctx context.Context, reader io.Reader, insert InsertFunc) ImportResult {
	result := ImportResult{Errors: []ImportRowError{}}

	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true

	headers, err := csvReader.Read()
	if err != nil {
		message := ImportMessageNoFile
		if !errors.Is(err, io.EOF) {
			message = err.Error()
		}
		result.Status = ImportStatusError
		result.Errors = append(result.Errors, ImportRowError{Row: 0, Message: message})
		return result
	}
	for i := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(headers[i], "\ufeff"))
	}

	payloads := []Input{}
	for rowIndex := 0; ; rowIndex++ {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line := rowIndex + 2
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				line = parseErr.Line
			}
			result.Errors = append(result.Errors, ImportRowError{Row: line, Message: err.Error()})
			continue
		}
		if isBlankRecord(record) {
			rowIndex--
			continue
		}
		values := map[string]string{}
		for i, header := range headers {
			if i < len(record) {
				values[header] = strings.TrimSpace(record[i])
			}
		}
		input, err := parseImportRow(values)
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: rowIndex + 2, Message: err.Error()})
			continue
		}
		payloads = append(payloads, *input)
	}

	if len(payloads) > 0 {
		if err := insert(ctx, payloads); err != nil {
			return ImportResult{
				Status: ImportStatusError,
				Failed: len(payloads),
				Errors: []ImportRowError{{Row: 0, Message: ImportMessageInsertFailed}},
			}
		}
		result.Inserted = len(payloads)
	}

	result.Failed = len(result.Errors)
	result.Status = ImportStatusSuccess
	if len(result.Errors) > 0 {
		result.Status = ImportStatusError
	}
	return result
}

func parseImportRow(values map[string]string) (*Input, error) {
	if values["brand"] == "" || values["sku"] == "" || values["product_name"] == "" {
		return nil, &InputError{Message: ImportMessageMissingRequired}
	}
	return ParseInput(values)
}

func isBlankRecord(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

// FormatImportSummary renders the one-line outcome shown after an import
func FormatImportSummary(result ImportResult) string {
	plural := func(n int) string {
		if n == 1 {
			return ""
		}
		return "s"
	}
	return fmt.Sprintf("Imported %d row%s. %d row%s failed.", result.Inserted, plural(result.Inserted), result.Failed, plural(result.Failed))
}
