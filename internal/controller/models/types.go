package models

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

type DatabaseConnection struct {
	Db *sql.DB
}

// DatabaseFunction is written into a statement verbatim instead of
// being bound as an argument, eg. `NOW()`
type DatabaseFunction string

const (
	DatabaseFunctionNow DatabaseFunction = "NOW()"
)

// jsonColumn is scanned from and written to MySQL JSON columns
type jsonColumn[T any] struct {
	Value T
	Valid bool
}

func (c *jsonColumn[T]) Scan(src any) error {
	var data []byte
	switch value := src.(type) {
	case nil:
		c.Valid = false
		return nil
	case []byte:
		data = value
	case string:
		data = []byte(value)
	default:
		return fmt.Errorf("unexpected json column type %T", src)
	}
	if err := json.Unmarshal(data, &c.Value); err != nil {
		return fmt.Errorf("failed to parse json column: %w", err)
	}
	c.Valid = true
	return nil
}

func toJsonColumn(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialise json column: %w", err)
	}
	return string(data), nil
}

func nullStringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

func nullTimePtr(value sql.NullTime) *time.Time {
	if !value.Valid {
		return nil
	}
	t := value.Time.UTC()
	return &t
}

func nullFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	return &value.Float64
}

func nullIntPtr(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	v := int(value.Int64)
	return &v
}

func utcTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	t := value.UTC()
	return &t
}
