package filters

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseInput(t *testing.T) {
	valid := map[string]string{
		"brand":        " Filtrete ",
		"nominal_w":    "16",
		"nominal_h":    "25",
		"thickness":    "1",
		"merv":         "",
		"sku":          "FT-1625",
		"product_name": "Basic Dust",
		"url":          "  ",
	}
	input, err := ParseInput(valid)
	require.NoError(t, err)
	require.Equal(t, "Filtrete", input.Brand)
	require.Nil(t, input.Merv)
	require.Nil(t, input.Url)

	cases := []struct {
		mutate   func(map[string]string)
		expected string
	}{
		{func(v map[string]string) { v["brand"] = "" }, "brand is required."},
		{func(v map[string]string) { v["nominal_w"] = "abc" }, "nominal_w must be a number."},
		{func(v map[string]string) { v["thickness"] = "" }, "thickness must be a number."},
		{func(v map[string]string) { v["merv"] = "high" }, "merv must be a number."},
		{func(v map[string]string) { v["sku"] = " " }, "sku is required."},
		{func(v map[string]string) { v["product_name"] = "" }, "product_name is required."},
	}
	for _, c := range cases {
		values := map[string]string{}
		for k, v := range valid {
			values[k] = v
		}
		c.mutate(values)
		_, err := ParseInput(values)
		var inputErr *InputError
		require.True(t, errors.As(err, &inputErr))
		require.Equal(t, c.expected, inputErr.Message)
	}
}

func TestImport(t *testing.T) {
	csvData := strings.Join([]string{
		" brand , series ,nominal_w,nominal_h,thickness,merv,sku,upc,product_name,url,notes",
		"Filtrete,,16,25,1,11,FT-1,,Dust,,",
		"",
		"Honeywell,,x,25,1,,HW-1,,Pleated,,",
		",,16,25,1,,,,,,",
		"Nordic,,20,20,4,8,NP-1,,Pure,,",
	}, "\n")

	var inserted []Input
	result := Import(context.Background(), strings.NewReader(csvData), func(ctx context.Context, inputs []Input) error {
		inserted = inputs
		return nil
	})
	require.Equal(t, ImportStatusError, result.Status)
	require.Equal(t, 2, result.Inserted)
	require.Equal(t, 2, result.Failed)
	require.Equal(t, []ImportRowError{
		{Row: 3, Message: "nominal_w must be a number."},
		{Row: 4, Message: ImportMessageMissingRequired},
	}, result.Errors)
	require.Len(t, inserted, 2)
	require.Equal(t, "NP-1", inserted[1].Sku)
	require.Equal(t, "Imported 2 rows. 2 rows failed.", FormatImportSummary(result))
}

func TestImportInsertFailure(t *testing.T) {
	csvData := "brand,nominal_w,nominal_h,thickness,sku,product_name\nA,16,25,1,S,P\n"
	result := Import(context.Background(), strings.NewReader(csvData), func(ctx context.Context, inputs []Input) error {
		return errors.New("duplicate")
	})
	require.Equal(t, ImportResult{
		Status: ImportStatusError,
		Failed: 1,
		Errors: []ImportRowError{{Row: 0, Message: ImportMessageInsertFailed}},
	}, result)
}

func TestImportEmpty(t *testing.T) {
	result := Import(context.Background(), strings.NewReader(""), nil)
	require.Equal(t, ImportStatusError, result.Status)
	require.Equal(t, ImportMessageNoFile, result.Errors[0].Message)
}

func TestImportByteOrderMark(t *testing.T) {
	csvData := "\ufeffbrand,nominal_w,nominal_h,thickness,sku,product_name\nA,16,25,1,S,P\n"
	var inserted []Input
	result := Import(context.Background(), strings.NewReader(csvData), func(ctx context.Context, inputs []Input) error {
		inserted = inputs
		return nil
	})
	require.Empty(t, result.Errors)
	require.Equal(t, 1, result.Inserted)
	require.Len(t, inserted, 1)
	require.Equal(t, "A", inserted[0].Brand)
}
