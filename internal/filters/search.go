package filters

import (
	"regexp"
	"strconv"
	"strings"
	"tradedesk/internal/common"
)

var sizeDigitsRegex = regexp.MustCompile(`\d+`)

// ParseSize reads sizes such as `16x25x1`, `16×25×1` or `16 x 25 x 1`;
// returns nil when fewer than three numbers are present
func ParseSize(input string) *Size {
	normalized := strings.ReplaceAll(input, "×", "x")
	matches := sizeDigitsRegex.FindAllString(normalized, -1)
	if len(matches) < 3 {
		return nil
	}
	values := [3]int{}
	for i, match := range matches[:3] {
		value, err := strconv.Atoi(match)
		if err != nil {
			return nil
		}
		values[i] = value
	}
	return &Size{W: values[0], H: values[1], T: values[2]}
}

// EscapeLike escapes the LIKE wildcards so user input matches literally
func EscapeLike(input string) string {
	return common.EscapeSqlLike(input)
}

// SizeClause matches a filter in either orientation with the same
// thickness
func SizeClause(size Size) (string, []any) {
	return "((filters.nominal_w = ? AND filters.nominal_h = ? AND filters.thickness = ?) OR " +
			"(filters.nominal_w = ? AND filters.nominal_h = ? AND filters.thickness = ?))",
		[]any{size.W, size.H, size.T, size.H, size.W, size.T}
}

// SearchClause builds the WHERE clause for a catalog search, an empty
// query and nil size match everything
func SearchClause(query string, size *Size) (string, []any) {
	clauses := []string{}
	args := []any{}

	query = strings.TrimSpace(query)
	if query != "" {
		pattern := "%" + EscapeLike(query) + "%"
		clauses = append(clauses, `(filters.sku LIKE ? OR filters.upc LIKE ? OR filters.brand LIKE ? OR filters.product_name LIKE ? OR EXISTS (
			SELECT 1 FROM filter_aliases WHERE filter_aliases.filter_id = filters.id AND filter_aliases.alias LIKE ?
		))`)
		args = append(args, pattern, pattern, pattern, pattern, pattern)
	}
	if size != nil {
		sizeClause, sizeArgs := SizeClause(*size)
		clauses = append(clauses, sizeClause)
		args = append(args, sizeArgs...)
	}
	if len(clauses) == 0 {
		return "1 = 1", args
	}
	return strings.Join(clauses, " AND "), args
}
