package database

import (
	"database/sql/driver"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	"github.com/weiawesome/prefixid/pkg/typeid"
)

// Column stores an identifier of kind K as its raw payload bytes. The prefix
// is implied by the column's Go type and is never written.
//   - PostgreSQL: bytea
//   - MySQL: binary(width)
//   - SQLite: blob
//
// A zero identifier is stored as NULL.
type Column[K typeid.Kind] struct {
	typeid.ID[K]
}

// NewColumn wraps id for storage.
func NewColumn[K typeid.Kind](id typeid.ID[K]) Column[K] {
	return Column[K]{ID: id}
}

// Scan implements the sql.Scanner interface for reading from the database.
func (c *Column[K]) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		c.ID = typeid.ID[K]{}
		return nil
	case []byte:
		return c.ID.UnmarshalBinary(v)
	case string:
		return c.ID.UnmarshalBinary([]byte(v))
	default:
		return fmt.Errorf("database: cannot scan %T into %T", value, c)
	}
}

// Value implements the driver.Valuer interface for writing to the database.
func (c Column[K]) Value() (driver.Value, error) {
	if c.IsZero() {
		return nil, nil
	}
	return c.Bytes(), nil
}

// GormDataType returns the GORM data type hint.
func (Column[K]) GormDataType() string {
	return string(schema.Bytes)
}

// GormDBDataType returns the column type for the connected dialect.
func (Column[K]) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	spec, err := typeid.SpecOf[K]()
	if err != nil {
		return ""
	}
	switch db.Dialector.Name() {
	case "postgres":
		return "bytea"
	case "mysql":
		return fmt.Sprintf("binary(%d)", spec.Width)
	case "sqlite":
		return "blob"
	}
	return ""
}
