package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"tradedesk/internal/filters"

	"github.com/google/uuid"
)

const (
	FilterAdminPageSize = 20
	FilterSearchLimit   = 100
)

const filterColumns = `filters.id, filters.brand, filters.series, filters.nominal_w, filters.nominal_h, filters.thickness, filters.merv, filters.sku, filters.upc, filters.product_name, filters.url, filters.notes, filters.created_at`

func scanFilter(row rowScanner) (*filters.Filter, error) {
	var filter filters.Filter
	var series, upc, url, notes sql.NullString
	var merv sql.NullInt64
	if err := row.Scan(
		&filter.Id,
		&filter.Brand,
		&series,
		&filter.NominalW,
		&filter.NominalH,
		&filter.Thickness,
		&merv,
		&filter.Sku,
		&upc,
		&filter.ProductName,
		&url,
		&notes,
		&filter.CreatedAt,
	); err != nil {
		return nil, err
	}
	filter.Series = nullStringPtr(series)
	filter.Merv = nullIntPtr(merv)
	filter.Upc = nullStringPtr(upc)
	filter.Url = nullStringPtr(url)
	filter.Notes = nullStringPtr(notes)
	return &filter, nil
}

type SearchFiltersV1Opts struct {
	Db Db

	Query string
	Size  *filters.Size
}

// SearchFiltersV1 returns the catalog matches for a lookup, ranked with
// filters.Sort so exact sku/upc hits come first
func SearchFiltersV1(ctx context.Context, opts SearchFiltersV1Opts) ([]filters.Filter, error) {
	clause, args := filters.SearchClause(opts.Query, opts.Size)
	results := []filters.Filter{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM filters WHERE %s LIMIT %d`, filterColumns, clause, FilterSearchLimit),
		Args:     args,
		FnSource: "models.SearchFiltersV1",
		ProcessRows: func(r *sql.Rows) error {
			filter, err := scanFilter(r)
			if err != nil {
				return err
			}
			results = append(results, *filter)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return filters.Sort(results, opts.Query), nil
}

type ListFiltersV1Opts struct {
	Db Db

	// Page starts at 1
	Page int
}

type ListFiltersV1Output struct {
	Filters    []filters.Filter `json:"filters"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// ListFiltersV1 pages through the catalog for the admin view ordered by
// brand then product name
func ListFiltersV1(ctx context.Context, opts ListFiltersV1Opts) (*ListFiltersV1Output, error) {
	page := max(1, opts.Page)
	total := 0
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT COUNT(*) FROM filters`,
		FnSource: "models.ListFiltersV1",
		ProcessRow: func(r *sql.Row) error {
			return r.Scan(&total)
		},
	}); err != nil {
		return nil, err
	}
	output := ListFiltersV1Output{
		Filters:    []filters.Filter{},
		Page:       page,
		TotalPages: max(1, (total+FilterAdminPageSize-1)/FilterAdminPageSize),
	}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM filters ORDER BY filters.brand ASC, filters.product_name ASC LIMIT ? OFFSET ?`, filterColumns),
		Args:     []any{FilterAdminPageSize, (page - 1) * FilterAdminPageSize},
		FnSource: "models.ListFiltersV1",
		ProcessRows: func(r *sql.Rows) error {
			filter, err := scanFilter(r)
			if err != nil {
				return err
			}
			output.Filters = append(output.Filters, *filter)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return &output, nil
}

type GetFilterV1Opts struct {
	Db Db

	Id string
}

// GetFilterV1 returns the filter with its aliases ordered by alias
func GetFilterV1(ctx context.Context, opts GetFilterV1Opts) (*filters.Filter, error) {
	var filter *filters.Filter
	if err := executeMysqlSelect(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     fmt.Sprintf(`SELECT %s FROM filters WHERE filters.id = ?`, filterColumns),
		Args:     []any{opts.Id},
		FnSource: "models.GetFilterV1",
		ProcessRow: func(r *sql.Row) (err error) {
			filter, err = scanFilter(r)
			return err
		},
	}); err != nil {
		return nil, err
	}
	filter.Aliases = []filters.Alias{}
	if err := executeMysqlSelects(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `SELECT id, alias, filter_id FROM filter_aliases WHERE filter_id = ? ORDER BY alias ASC`,
		Args:     []any{opts.Id},
		FnSource: "models.GetFilterV1",
		ProcessRows: func(r *sql.Rows) error {
			var alias filters.Alias
			if err := r.Scan(&alias.Id, &alias.Alias, &alias.FilterId); err != nil {
				return err
			}
			filter.Aliases = append(filter.Aliases, alias)
			return nil
		},
	}); err != nil {
		return nil, err
	}
	return filter, nil
}

func filterInputArgs(input filters.Input) []any {
	return []any{
		input.Brand,
		input.Series,
		input.NominalW,
		input.NominalH,
		input.Thickness,
		input.Merv,
		input.Sku,
		input.Upc,
		input.ProductName,
		input.Url,
		input.Notes,
	}
}

type CreateFiltersV1Opts struct {
	Db Db

	Inputs []filters.Input
}

// CreateFiltersV1 inserts every input in one statement so that a CSV
// import either lands completely or not at all
func CreateFiltersV1(ctx context.Context, opts CreateFiltersV1Opts) ([]string, error) {
	if len(opts.Inputs) == 0 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(opts.Inputs))
	values := make([]string, 0, len(opts.Inputs))
	args := []any{}
	for _, input := range opts.Inputs {
		id := uuid.NewString()
		ids = append(ids, id)
		values = append(values, "("+placeholders(12)+")")
		args = append(args, id)
		args = append(args, filterInputArgs(input)...)
	}
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			INSERT INTO filters(
				id,
				brand,
				series,
				nominal_w,
				nominal_h,
				thickness,
				merv,
				sku,
				upc,
				product_name,
				url,
				notes
			) VALUES ` + strings.Join(values, ", "),
		Args:         args,
		FnSource:     "models.CreateFiltersV1",
		RowsAffected: func(n int64) bool { return n == int64(len(opts.Inputs)) },
	}); err != nil {
		return nil, err
	}
	return ids, nil
}

type UpdateFilterV1Opts struct {
	Db Db

	Id    string
	Input filters.Input
}

func UpdateFilterV1(ctx context.Context, opts UpdateFilterV1Opts) error {
	return executeMysqlUpdate(ctx, mysqlQueryInput{
		Db: opts.Db,
		Stmt: `
			UPDATE filters SET
				brand = ?,
				series = ?,
				nominal_w = ?,
				nominal_h = ?,
				thickness = ?,
				merv = ?,
				sku = ?,
				upc = ?,
				product_name = ?,
				url = ?,
				notes = ?
			WHERE id = ?`,
		Args:         append(filterInputArgs(opts.Input), opts.Id),
		FnSource:     "models.UpdateFilterV1",
		RowsAffected: atLeastNRowsAffected(0),
	})
}

type DeleteFilterV1Opts struct {
	Db Db

	Id string
}

func DeleteFilterV1(ctx context.Context, opts DeleteFilterV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM filters WHERE id = ?`,
		Args:     []any{opts.Id},
		FnSource: "models.DeleteFilterV1",
	})
}

type CreateFilterAliasV1Opts struct {
	Db Db

	FilterId string
	Alias    string
}

func CreateFilterAliasV1(ctx context.Context, opts CreateFilterAliasV1Opts) (string, error) {
	alias := strings.TrimSpace(opts.Alias)
	if opts.FilterId == "" || alias == "" {
		return "", fmt.Errorf("models.CreateFilterAliasV1: alias is required: %w", ErrorInvalidInput)
	}
	aliasId := uuid.NewString()
	if err := executeMysqlInsert(ctx, mysqlQueryInput{
		Db:           opts.Db,
		Stmt:         `INSERT INTO filter_aliases(id, filter_id, alias) VALUES (?, ?, ?)`,
		Args:         []any{aliasId, opts.FilterId, alias},
		FnSource:     "models.CreateFilterAliasV1",
		RowsAffected: oneRowAffected,
	}); err != nil {
		return "", err
	}
	return aliasId, nil
}

type DeleteFilterAliasV1Opts struct {
	Db Db

	FilterId string
	AliasId  string
}

func DeleteFilterAliasV1(ctx context.Context, opts DeleteFilterAliasV1Opts) error {
	return executeMysqlDelete(ctx, mysqlQueryInput{
		Db:       opts.Db,
		Stmt:     `DELETE FROM filter_aliases WHERE id = ? AND filter_id = ?`,
		Args:     []any{opts.AliasId, opts.FilterId},
		FnSource: "models.DeleteFilterAliasV1",
	})
}
