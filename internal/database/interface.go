package database

import "context"

// ColumnRow is one row of a SHOW FULL COLUMNS catalog query, in the shape
// MySQL returns it. Drivers for other engines emulate the same shape.
type ColumnRow struct {
	Field      string  `db:"Field"`
	Type       string  `db:"Type"`
	Collation  *string `db:"Collation"`
	Null       string  `db:"Null"`
	Key        string  `db:"Key"`
	Default    *string `db:"Default"` // nil when the column has no default
	Extra      string  `db:"Extra"`
	Privileges string  `db:"Privileges"`
	Comment    string  `db:"Comment"`
}

// Catalog answers metadata questions about the connected database.
// Implementations must return columns in their DDL order.
type Catalog interface {
	// ShowFullColumns returns the raw column rows of table.
	// A missing table yields an error of kind errs.ErrKindNotFound.
	ShowFullColumns(ctx context.Context, table string) ([]ColumnRow, error)

	// ListTables returns all user-defined base table names, sorted.
	ListTables(ctx context.Context) ([]string, error)
}

// DB is a live catalog connection.
// All layers above this package talk only to this interface.
type DB interface {
	Catalog

	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the connection pool.
	Close()
}
