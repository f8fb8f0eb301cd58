package vendorcredit

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func strPtr(value string) *string {
	return &value
}

func TestFingerprint(t *testing.T) {
	date := time.Date(2026, 2, 1, 15, 0, 0, 0, time.UTC)
	require.Equal(t, "r-1001|sku-1|2026-02-01", Fingerprint(" R-1001 ", " SKU-1 ", &date))
	require.Equal(t, "r-1001||", Fingerprint("R-1001", "", nil))
	require.Equal(t, "", Fingerprint("   ", "sku", &date))
}

func TestChooseDecision(t *testing.T) {
	require.Equal(t, DecisionSkip, ChooseDecision(true, DedupeModeSkip))
	require.Equal(t, DecisionUpdate, ChooseDecision(true, DedupeModeUpdate))
	require.Equal(t, DecisionCreate, ChooseDecision(false, DedupeModeSkip))
	require.Equal(t, DecisionCreate, ChooseDecision(false, DedupeModeUpdate))
}

func TestNormalizeReceiptIdAndParseIsoDate(t *testing.T) {
	require.Nil(t, NormalizeReceiptId(strPtr("  ")))
	require.Nil(t, NormalizeReceiptId(nil))
	require.Equal(t, "R-1", *NormalizeReceiptId(strPtr(" R-1 ")))

	parsed := ParseIsoDate(strPtr("2026-02-02"))
	require.NotNil(t, parsed)
	require.Equal(t, "2026-02-02", parsed.Format(time.DateOnly))
	require.NotNil(t, ParseIsoDate(strPtr("2026-02-02T10:00:00+02:00")))
	require.Equal(t, time.UTC, ParseIsoDate(strPtr("2026-02-02T10:00:00+02:00")).Location())
	require.Nil(t, ParseIsoDate(strPtr("invalid")))
	require.Nil(t, ParseIsoDate(strPtr("")))
}

func TestMapRow(t *testing.T) {
	mapping := Mapping{
		Sku:            "Item",
		ReturnReason:   "Reason",
		UnitCost:       "Cost",
		Qty:            "Qty",
		Vendor:         "Supplier",
		ReceiptId:      "Receipt",
		ExpectedCredit: "Credit",
		SerialNumber:   "Missing",
	}
	row := map[string]string{
		"Item":     "SKU-9",
		"Reason":   "cracked housing",
		"Cost":     "$1,299.50",
		"Qty":      "2.5",
		"Supplier": "Acme",
		"Receipt":  "R-77",
		"Credit":   "n/a",
	}
	got := MapRow(row, mapping)
	expected := MappedRow{
		Sku:                  strPtr("SKU-9"),
		CustomerReturnReason: strPtr("cracked housing"),
		UnitCost:             func() *float64 { v := 1299.5; return &v }(),
		Qty:                  3,
		ReceiptId:            strPtr("R-77"),
		VendorName:           strPtr("Acme"),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Fatalf("MapRow() mismatch (-want +got):\n%s", diff)
	}

	require.Equal(t, 1, MapRow(map[string]string{"Qty": "0"}, Mapping{Qty: "Qty"}).Qty)
	require.Equal(t, 1, MapRow(map[string]string{"Qty": "-4"}, Mapping{Qty: "Qty"}).Qty)
	require.Equal(t, 1, MapRow(map[string]string{}, Mapping{Qty: "Qty"}).Qty)
	require.Nil(t, MapRow(map[string]string{"Cost": "1.2.3"}, Mapping{UnitCost: "Cost"}).UnitCost)
}

func TestMappingValidate(t *testing.T) {
	headers := []string{"Item", "Receipt"}
	require.NoError(t, Mapping{Sku: "Item", ReceiptId: "Receipt"}.Validate(headers))
	err := Mapping{Sku: "Item", Vendor: "Supplier"}.Validate(headers)
	require.ErrorIs(t, err, ErrorInvalidInput)
	require.ErrorContains(t, err, "vendor maps to unknown column[Supplier]")
}

func TestParseCsv(t *testing.T) {
	input := "\ufeffReceipt, Item ,Cost\n R-1 ,SKU-1,\"1,000\"\n\n,,\nR-2,SKU-2\n"
	headers, rows, err := ParseCsv(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []string{"Receipt", "Item", "Cost"}, headers)
	require.Len(t, rows, 2)
	require.Equal(t, map[string]string{"Receipt": "R-1", "Item": "SKU-1", "Cost": "1,000"}, rows[0])
	require.Equal(t, "", rows[1]["Cost"])

	_, _, err = ParseCsv(strings.NewReader(""))
	require.ErrorIs(t, err, ErrorImportFileEmpty)
}

func TestPreview(t *testing.T) {
	rows := make([]map[string]string, 40)
	require.Len(t, Preview(rows), ImportPreviewRows)
	require.Len(t, Preview(rows[:3]), 3)
}
