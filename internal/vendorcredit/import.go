package vendorcredit

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	ImportPreviewRows     = 25
	ImportCronBatchSize   = 20
	MessageNoVendorForRow = "No vendor found for import row"
	MessageCaseImported   = "Case created from CSV import"
	MessageCaseReimported = "Case updated from import"
)

// ImportTemplateCsv is the sample file offered to users before their
// first upload
const ImportTemplateCsv = `receiptId,sku,description,returnReason,unitCost,qty,vendor,brand,returnDate,serialNumber,expectedCredit
R-1001,SKU-001,Drill Battery,Dead on arrival,39.99,1,Acme Tools,Acme,2026-02-01,SN-001,32.00
R-1002,SKU-002,Alternator,Failed test,129.00,1,AutoMakers,VoltWorks,2026-02-03,SN-002,112.00
`

type Decision string

const (
	DecisionCreate Decision = "CREATE"
	DecisionSkip   Decision = "SKIP"
	DecisionUpdate Decision = "UPDATE"
)

// Mapping points each case field at a CSV column, an empty value leaves
// the field unmapped
type Mapping struct {
	Sku            string `json:"sku,omitempty"`
	Description    string `json:"description,omitempty"`
	ReturnReason   string `json:"returnReason,omitempty"`
	UnitCost       string `json:"unitCost,omitempty"`
	Qty            string `json:"qty,omitempty"`
	Vendor         string `json:"vendor,omitempty"`
	Brand          string `json:"brand,omitempty"`
	ReturnDate     string `json:"returnDate,omitempty"`
	ReceiptId      string `json:"receiptId,omitempty"`
	SerialNumber   string `json:"serialNumber,omitempty"`
	ExpectedCredit string `json:"expectedCredit,omitempty"`
}

// Validate checks that every mapped column exists in headers
func (m Mapping) Validate(headers []string) error {
	known := map[string]struct{}{}
	for _, header := range headers {
		known[header] = struct{}{}
	}
	columns := map[string]string{
		"sku":            m.Sku,
		"description":    m.Description,
		"returnReason":   m.ReturnReason,
		"unitCost":       m.UnitCost,
		"qty":            m.Qty,
		"vendor":         m.Vendor,
		"brand":          m.Brand,
		"returnDate":     m.ReturnDate,
		"receiptId":      m.ReceiptId,
		"serialNumber":   m.SerialNumber,
		"expectedCredit": m.ExpectedCredit,
	}
	errs := []error{}
	for _, field := range slices.Sorted(maps.Keys(columns)) {
		column := columns[field]
		if column == "" {
			continue
		}
		if _, ok := known[column]; !ok {
			errs = append(errs, fmt.Errorf("%s maps to unknown column[%s]", field, column))
		}
	}
	if len(errs) > 0 {
		errs = append([]error{ErrorInvalidInput}, errs...)
		return errors.Join(errs...)
	}
	return nil
}

type MappedRow struct {
	Sku                  *string  `json:"sku"`
	Description          *string  `json:"description"`
	CustomerReturnReason *string  `json:"customerReturnReason"`
	UnitCost             *float64 `json:"unitCost"`
	Qty                  int      `json:"qty"`
	Brand                *string  `json:"brand"`
	ReturnDate           *string  `json:"returnDate"`
	ReceiptId            *string  `json:"receiptId"`
	SerialNumber         *string  `json:"serialNumber"`
	ExpectedCredit       *float64 `json:"expectedCredit"`
	VendorName           *string  `json:"vendorName"`
}

var nonNumericCharacters = regexp.MustCompile(`[^0-9.-]`)

// parseNumber strips everything but digits, dots and dashes so that
// values like "$1,299.00" survive
func parseNumber(value *string) *float64 {
	if value == nil || *value == "" {
		return nil
	}
	stripped := nonNumericCharacters.ReplaceAllString(*value, "")
	if stripped == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(stripped, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) {
		return nil
	}
	return &parsed
}

// MapRow applies a column mapping to a raw CSV row
func MapRow(row map[string]string, mapping Mapping) MappedRow {
	get := func(column string) *string {
		if column == "" {
			return nil
		}
		value, ok := row[column]
		if !ok {
			return nil
		}
		return &value
	}
	qty := 1
	if parsed := parseNumber(get(mapping.Qty)); parsed != nil {
		qty = max(1, int(math.Floor(*parsed+0.5)))
	}
	return MappedRow{
		Sku:                  get(mapping.Sku),
		Description:          get(mapping.Description),
		CustomerReturnReason: get(mapping.ReturnReason),
		UnitCost:             parseNumber(get(mapping.UnitCost)),
		Qty:                  qty,
		Brand:                get(mapping.Brand),
		ReturnDate:           get(mapping.ReturnDate),
		ReceiptId:            get(mapping.ReceiptId),
		SerialNumber:         get(mapping.SerialNumber),
		ExpectedCredit:       parseNumber(get(mapping.ExpectedCredit)),
		VendorName:           get(mapping.Vendor),
	}
}

// Fingerprint is the dedupe key of an imported row, rows without a
// receipt never dedupe and yield an empty fingerprint
func Fingerprint(receiptId, sku string, returnDate *time.Time) string {
	receipt := strings.ToLower(strings.TrimSpace(receiptId))
	if receipt == "" {
		return ""
	}
	date := ""
	if returnDate != nil {
		date = returnDate.UTC().Format(time.DateOnly)
	}
	return receipt + "|" + strings.ToLower(strings.TrimSpace(sku)) + "|" + date
}

func ChooseDecision(hasExisting bool, mode DedupeMode) Decision {
	if !hasExisting {
		return DecisionCreate
	}
	if mode == DedupeModeUpdate {
		return DecisionUpdate
	}
	return DecisionSkip
}

func NormalizeReceiptId(value *string) *string {
	if value == nil {
		return nil
	}
	normalized := strings.TrimSpace(*value)
	if normalized == "" {
		return nil
	}
	return &normalized
}

var isoDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"01/02/2006",
}

// ParseIsoDate returns nil for empty or unparseable input, values
// without a zone are read as UTC
func ParseIsoDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range isoDateLayouts {
		if parsed, err := time.ParseInLocation(layout, trimmed, time.UTC); err == nil {
			parsed = parsed.UTC()
			return &parsed
		}
	}
	return nil
}

// ParseCsv reads a CSV with a header row into one map per record.
// Values are trimmed, blank lines are skipped and short records are
// padded with empty strings
func ParseCsv(reader io.Reader) ([]string, []map[string]string, error) {
	csvReader := csv.NewReader(reader)
	csvReader.FieldsPerRecord = -1
	csvReader.TrimLeadingSpace = true
	header, err := csvReader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrorImportFileEmpty
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	headers := make([]string, len(header))
	for i, column := range header {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
	}
	rows := []map[string]string{}
	for {
		record, err := csvReader.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, nil, fmt.Errorf("failed to read csv record: %w", err)
		}
		if isBlankRecord(record) {
			continue
		}
		row := make(map[string]string, len(headers))
		for i, column := range headers {
			if i < len(record) {
				row[column] = strings.TrimSpace(record[i])
			} else {
				row[column] = ""
			}
		}
		rows = append(rows, row)
	}
	return headers, rows, nil
}

func isBlankRecord(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// Preview returns at most ImportPreviewRows rows
func Preview(rows []map[string]string) []map[string]string {
	if len(rows) > ImportPreviewRows {
		return rows[:ImportPreviewRows]
	}
	return rows
}
