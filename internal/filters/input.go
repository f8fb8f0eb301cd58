package filters

import (
	"fmt"
	"strconv"
	"strings"
)

// Input is the writable part of a Filter as submitted by an admin
type Input struct {
	Brand       string  `json:"brand"`
	Series      *string `json:"series"`
	NominalW    int     `json:"nominalW"`
	NominalH    int     `json:"nominalH"`
	Thickness   int     `json:"thickness"`
	Merv        *int    `json:"merv"`
	Sku         string  `json:"sku"`
	Upc         *string `json:"upc"`
	ProductName string  `json:"productName"`
	Url         *string `json:"url"`
	Notes       *string `json:"notes"`
}

// InputError carries a message that is safe to show to the admin as-is
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return e.Message
}

// ParseInput reads the admin form fields keyed by their column names,
// stopping at the first invalid field
func ParseInput(values map[string]string) (*Input, error) {
	var input Input
	var err error
	if input.Brand, err = requiredText(values, "brand"); err != nil {
		return nil, err
	}
	input.Series = optionalText(values, "series")
	if input.NominalW, err = requiredInt(values, "nominal_w"); err != nil {
		return nil, err
	}
	if input.NominalH, err = requiredInt(values, "nominal_h"); err != nil {
		return nil, err
	}
	if input.Thickness, err = requiredInt(values, "thickness"); err != nil {
		return nil, err
	}
	if input.Merv, err = optionalInt(values, "merv"); err != nil {
		return nil, err
	}
	if input.Sku, err = requiredText(values, "sku"); err != nil {
		return nil, err
	}
	input.Upc = optionalText(values, "upc")
	if input.ProductName, err = requiredText(values, "product_name"); err != nil {
		return nil, err
	}
	input.Url = optionalText(values, "url")
	input.Notes = optionalText(values, "notes")
	return &input, nil
}

func requiredText(values map[string]string, key string) (string, error) {
	value := strings.TrimSpace(values[key])
	if value == "" {
		return "", &InputError{Message: fmt.Sprintf("%s is required.", key)}
	}
	return value, nil
}

func optionalText(values map[string]string, key string) *string {
	value := strings.TrimSpace(values[key])
	if value == "" {
		return nil
	}
	return &value
}

func requiredInt(values map[string]string, key string) (int, error) {
	raw := strings.TrimSpace(values[key])
	value, ok := parseLeadingInt(raw)
	if raw == "" || !ok {
		return 0, &InputError{Message: fmt.Sprintf("%s must be a number.", key)}
	}
	return value, nil
}

func optionalInt(values map[string]string, key string) (*int, error) {
	raw := strings.TrimSpace(values[key])
	if raw == "" {
		return nil, nil
	}
	value, ok := parseLeadingInt(raw)
	if !ok {
		return nil, &InputError{Message: fmt.Sprintf("%s must be a number.", key)}
	}
	return &value, nil
}

// parseLeadingInt accepts values like `16` or `16.5` or `1in`, taking
// the leading integer the way form inputs are commonly read
func parseLeadingInt(raw string) (int, bool) {
	end := 0
	for end < len(raw) {
		c := raw[end]
		if (c >= '0' && c <= '9') || (end == 0 && (c == '-' || c == '+')) {
			end++
			continue
		}
		break
	}
	value, err := strconv.Atoi(raw[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}
