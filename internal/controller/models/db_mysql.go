package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Db is satisfied by both *sql.DB and *sql.Tx so that the helpers below
// can run inside a transaction
type Db interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

func atLeastNRowsAffected(expected int64) func(int64) bool {
	return func(observed int64) bool {
		return observed >= expected
	}
}

func oneRowAffected(observed int64) bool {
	return observed == 1
}

type mysqlQueryInput struct {
	Db           Db
	Stmt         string
	Args         []any
	RowsAffected func(int64) bool
	FnSource     string
	ProcessRows  func(*sql.Rows) error
	ProcessRow   func(*sql.Row) error
}

func (o mysqlQueryInput) prepare(ctx context.Context, operation string) (*sql.Stmt, error) {
	if o.Db == nil || isNilDb(o.Db) {
		return nil, fmt.Errorf("%s: missing db input: %w", o.FnSource, ErrorDatabaseUndefined)
	}
	inputStmt := strings.TrimSpace(o.Stmt)
	inputOp := strings.SplitN(strings.ReplaceAll(inputStmt, "\n", " "), " ", 2)
	if strings.ToLower(inputOp[0]) != operation {
		return nil, fmt.Errorf("%s: only '%s' statements are allowed: %w", o.FnSource, operation, ErrorInvalidInput)
	}
	stmt, err := o.Db.PrepareContext(ctx, inputStmt)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to prepare %s statement: %w (%w)", o.FnSource, operation, ErrorStmtPreparationFailed, err)
	}
	return stmt, nil
}

func (o mysqlQueryInput) checkRowsAffected(results sql.Result) error {
	if o.RowsAffected == nil {
		return nil
	}
	rowsAffected, err := results.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: failed to get n(rows) affected: %w (%w)", o.FnSource, ErrorRowsAffectedCheckFailed, err)
	}
	if !o.RowsAffected(rowsAffected) {
		return fmt.Errorf("%s: n(rows) affected was wrong (got %v): %w", o.FnSource, rowsAffected, ErrorRowsAffectedCheckFailed)
	}
	return nil
}

func isNilDb(db Db) bool {
	value := reflect.ValueOf(db)
	return value.Kind() == reflect.Pointer && value.IsNil()
}

func executeMysqlDelete(ctx context.Context, opts mysqlQueryInput) error {
	stmt, err := opts.prepare(ctx, "delete")
	if err != nil {
		return err
	}
	defer stmt.Close()
	results, err := stmt.ExecContext(ctx, opts.Args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute delete statement: %w (%w)", opts.FnSource, ErrorDeleteFailed, err)
	}
	if opts.RowsAffected == nil {
		opts.RowsAffected = oneRowAffected
	}
	if err := opts.checkRowsAffected(results); err != nil {
		if errors.Is(err, ErrorRowsAffectedCheckFailed) {
			return fmt.Errorf("%w: %w", ErrorNotFound, err)
		}
		return err
	}
	return nil
}

func executeMysqlInsert(ctx context.Context, opts mysqlQueryInput) error {
	stmt, err := opts.prepare(ctx, "insert")
	if err != nil {
		return err
	}
	defer stmt.Close()
	results, err := stmt.ExecContext(ctx, opts.Args...)
	if err != nil {
		if isMysqlDuplicateError(err) {
			return fmt.Errorf("%s: duplicate detected: %w: %w", opts.FnSource, ErrorDuplicateEntry, err)
		}
		return fmt.Errorf("%s: failed to execute insert statement: %w (%w)", opts.FnSource, ErrorInsertFailed, err)
	}
	return opts.checkRowsAffected(results)
}

func executeMysqlSelect(ctx context.Context, opts mysqlQueryInput) error {
	if opts.ProcessRow == nil {
		return fmt.Errorf("%s: ProcessRow is undefined: %w", opts.FnSource, ErrorInvalidInput)
	}
	stmt, err := opts.prepare(ctx, "select")
	if err != nil {
		return err
	}
	defer stmt.Close()
	row := stmt.QueryRowContext(ctx, opts.Args...)
	if row.Err() != nil {
		return fmt.Errorf("%s: failed to execute select statement: %w (%w)", opts.FnSource, ErrorSelectFailed, row.Err())
	}
	if err := opts.ProcessRow(row); err != nil {
		if isMysqlNotFoundError(err) {
			return fmt.Errorf("%s: no rows: %w: %w", opts.FnSource, ErrorNotFound, err)
		}
		return fmt.Errorf("%s: failed to process result: %w", opts.FnSource, err)
	}
	return nil
}

func executeMysqlSelects(ctx context.Context, opts mysqlQueryInput) error {
	if opts.ProcessRows == nil {
		return fmt.Errorf("%s: ProcessRows is undefined: %w", opts.FnSource, ErrorInvalidInput)
	}
	stmt, err := opts.prepare(ctx, "select")
	if err != nil {
		return err
	}
	defer stmt.Close()
	rows, err := stmt.QueryContext(ctx, opts.Args...)
	if err != nil {
		return fmt.Errorf("%s: failed to execute select statement: %w (%w)", opts.FnSource, ErrorSelectsFailed, err)
	}
	defer rows.Close()
	counter := 0
	for rows.Next() {
		if err := opts.ProcessRows(rows); err != nil {
			return fmt.Errorf("%s: failed to process row[%v]: %w", opts.FnSource, counter, err)
		}
		counter++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%s: failed to iterate rows: %w (%w)", opts.FnSource, ErrorSelectsFailed, err)
	}
	return nil
}

func executeMysqlUpdate(ctx context.Context, opts mysqlQueryInput) error {
	stmt, err := opts.prepare(ctx, "update")
	if err != nil {
		return err
	}
	defer stmt.Close()
	results, err := stmt.ExecContext(ctx, opts.Args...)
	if err != nil {
		if isMysqlDuplicateError(err) {
			return fmt.Errorf("%s: duplicate detected: %w: %w", opts.FnSource, ErrorDuplicateEntry, err)
		}
		return fmt.Errorf("%s: failed to execute update statement: %w (%w)", opts.FnSource, ErrorUpdateFailed, err)
	}
	// the connection reports matched rows, so a short count means the
	// row is missing
	if err := opts.checkRowsAffected(results); err != nil {
		if errors.Is(err, ErrorRowsAffectedCheckFailed) {
			return fmt.Errorf("%w: %w", ErrorNotFound, err)
		}
		return err
	}
	return nil
}

// withTransaction runs fn inside a transaction that is committed when
// fn returns nil and rolled back otherwise
func withTransaction(ctx context.Context, db *sql.DB, fnSource string, fn func(tx *sql.Tx) error) error {
	if db == nil {
		return fmt.Errorf("%s: missing db input: %w", fnSource, ErrorDatabaseUndefined)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w (%w)", fnSource, ErrorTransactionFailed, err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w (%w)", fnSource, ErrorTransactionFailed, err)
	}
	return nil
}

func isMysqlNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isMysqlDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number == mysqlErrorDuplicateEntryCode {
			return true
		}
	}
	return false
}

// parseUpdateMap converts a column-to-value map into SET clauses; keys
// are sorted so that statements are stable across calls
func parseUpdateMap(updateMap map[string]any) (fieldSetters []string, fieldValues []any, err error) {
	keys := make([]string, 0, len(updateMap))
	for k := range updateMap {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var errs []error
	for _, k := range keys {
		switch val := updateMap[k].(type) {
		case nil:
			fieldSetters = append(fieldSetters, fmt.Sprintf("`%s` = NULL", k))
		case string, int, int64, float64, bool, time.Time,
			*string, *int, *int64, *float64, *bool, *time.Time:
			fieldSetters = append(fieldSetters, fmt.Sprintf("`%s` = ?", k))
			fieldValues = append(fieldValues, val)
		case []byte:
			fieldSetters = append(fieldSetters, fmt.Sprintf("`%s` = ?", k))
			fieldValues = append(fieldValues, string(val))
		case DatabaseFunction:
			fieldSetters = append(fieldSetters, fmt.Sprintf("`%s` = %s", k, val))
		default:
			errs = append(errs, fmt.Errorf("field[%s] has invalid type '%s'", k, reflect.TypeOf(val).String()))
		}
	}
	if len(errs) > 0 {
		return nil, nil, errors.Join(errs...)
	}
	return fieldSetters, fieldValues, nil
}

// placeholders returns n comma-separated question marks for IN clauses
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrorNotFound)
}
