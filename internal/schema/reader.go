package schema

import (
	"context"
	"strings"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/logger"
)

// Config controls how physical types map to representational types.
type Config struct {
	// IntSize is the native integer width of the code consuming the
	// columns, 32 or 64. Integers that may not fit are represented as strings.
	IntSize int `yaml:"int_size"`
}

// DefaultConfig returns a Config for 64-bit consumers.
func DefaultConfig() *Config {
	return &Config{IntSize: 64}
}

// Reader turns catalog rows into Columns. It holds no mutable state and
// may be shared between goroutines.
type Reader struct {
	catalog database.Catalog
	intSize int
	log     *logger.Logger
}

// NewReader returns a Reader over catalog. A nil cfg uses DefaultConfig and
// a nil log discards output.
func NewReader(catalog database.Catalog, cfg *Config, log *logger.Logger) (*Reader, error) {
	if catalog == nil {
		return nil, errs.New(errs.ErrKindInvalidInput, "catalog is nil")
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.IntSize != 32 && cfg.IntSize != 64 {
		return nil, errs.Newf(errs.ErrKindInvalidInput, "int size must be 32 or 64, got %d", cfg.IntSize)
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reader{catalog: catalog, intSize: cfg.IntSize, log: log}, nil
}

// ReadColumns returns the columns of table in DDL order. Failures are
// returned as *SchemaError; a missing table satisfies errs.IsNotFound.
func (r *Reader) ReadColumns(ctx context.Context, table string) ([]*Column, error) {
	if strings.TrimSpace(table) == "" {
		return nil, &SchemaError{Table: table, Err: errs.New(errs.ErrKindInvalidInput, "table name is empty")}
	}

	rows, err := r.catalog.ShowFullColumns(ctx, table)
	if err != nil {
		return nil, &SchemaError{Table: table, Err: err}
	}
	if len(rows) == 0 {
		return nil, &SchemaError{Table: table, Err: errs.Newf(errs.ErrKindNotFound, "table %q has no columns", table)}
	}

	log := r.log.With().Str("table", table).Logger()
	columns := make([]*Column, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, r.loadColumn(log, row))
	}
	log.Debugf("read %d columns", len(columns))
	return columns, nil
}

// ReadTables reads every named table, or every table in the catalog when
// no names are given. It stops at the first failure.
func (r *Reader) ReadTables(ctx context.Context, tables ...string) ([]*Table, error) {
	if len(tables) == 0 {
		names, err := r.catalog.ListTables(ctx)
		if err != nil {
			return nil, err
		}
		tables = names
	}

	out := make([]*Table, 0, len(tables))
	for _, name := range tables {
		cols, err := r.ReadColumns(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, &Table{Name: name, Columns: cols})
	}
	return out, nil
}

func (r *Reader) loadColumn(log *logger.Logger, row database.ColumnRow) *Column {
	c := NewColumn(row.Field, row.Type, r.intSize)
	c.AllowNull = row.Null == "YES"
	c.IsPrimaryKey = strings.Contains(row.Key, "PRI")
	c.AutoIncrement = strings.Contains(strings.ToLower(row.Extra), "auto_increment")
	c.Comment = row.Comment
	c.Collation = row.Collation
	c.Extra = row.Extra

	if _, known := lookupType(c.BaseType()); !known {
		log.DebugWith("unknown column type, treating as string", map[string]any{
			"column": c.Name,
			"type":   c.DBType,
		})
	}

	if c.IsPrimaryKey || row.Default == nil {
		return c
	}
	c.Default = c.Typecast(*row.Default)
	if s, ok := c.Default.(string); ok && c.RepType != RepString && c.RepType != RepResource {
		log.DebugWith("default kept as written", map[string]any{
			"column":  c.Name,
			"default": s,
		})
	}
	return c
}
