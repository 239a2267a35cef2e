package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
)

// Driver is a PostgreSQL implementation of database.DB backed by pgxpool.
// It reports columns in the same row shape MySQL's SHOW FULL COLUMNS uses,
// so the schema reader handles both engines identically.
type Driver struct {
	pool   *pgxpool.Pool
	schema string
	cfg    *database.Config
}

// New connects to PostgreSQL using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidInput, "invalid postgres DSN", err)
	}

	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "failed to create connection pool", err)
	}

	schema := cfg.Schema
	if schema == "" {
		schema = "public"
	}
	d := &Driver{pool: pool, schema: schema, cfg: cfg}

	if err := d.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return d, nil
}

// --- database.DB implementation ---

// Ping verifies the database is reachable by acquiring and releasing a connection.
func (d *Driver) Ping(ctx context.Context) error {
	if err := d.pool.Ping(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

// Close drains the connection pool.
func (d *Driver) Close() {
	d.pool.Close()
}

// showColumnsQuery emulates MySQL's SHOW FULL COLUMNS from pg_catalog.
// Column order in the SELECT list matches database.ColumnRow field order.
const showColumnsQuery = `
	SELECT
		a.attname::text AS field,
		CASE
			WHEN t.typname = 'varchar' AND a.atttypmod > 4
				THEN 'varchar(' || (a.atttypmod - 4)::text || ')'
			WHEN t.typname = 'bpchar' AND a.atttypmod > 4
				THEN 'char(' || (a.atttypmod - 4)::text || ')'
			WHEN t.typname = 'bpchar'
				THEN 'char'
			WHEN t.typname = 'numeric' AND a.atttypmod > 4
				THEN 'numeric(' || ((a.atttypmod - 4) >> 16)::text || ',' || ((a.atttypmod - 4) & 65535)::text || ')'
			WHEN t.typname = 'bit' AND a.atttypmod > 0
				THEN 'bit(' || a.atttypmod::text || ')'
			ELSE t.typname::text
		END AS type,
		co.collname::text AS collation,
		CASE WHEN a.attnotnull THEN 'NO' ELSE 'YES' END AS "null",
		CASE WHEN EXISTS (
			SELECT 1 FROM pg_index i
			WHERE i.indrelid = c.oid AND i.indisprimary AND a.attnum = ANY(i.indkey)
		) THEN 'PRI' ELSE '' END AS "key",
		pg_get_expr(ad.adbin, ad.adrelid) AS "default",
		CASE
			WHEN a.attidentity <> '' THEN 'auto_increment'
			WHEN pg_get_expr(ad.adbin, ad.adrelid) LIKE 'nextval(%' THEN 'auto_increment'
			ELSE ''
		END AS extra,
		'' AS privileges,
		COALESCE(col_description(c.oid, a.attnum), '') AS comment
	FROM pg_attribute a
	JOIN pg_class c      ON c.oid = a.attrelid
	JOIN pg_namespace n  ON n.oid = c.relnamespace
	JOIN pg_type t       ON t.oid = a.atttypid
	LEFT JOIN pg_collation co ON co.oid = a.attcollation AND a.attcollation <> 0
	LEFT JOIN pg_attrdef ad   ON ad.adrelid = a.attrelid AND ad.adnum = a.attnum
	WHERE n.nspname = $1
	  AND c.relname = $2
	  AND c.relkind IN ('r', 'p')
	  AND a.attnum > 0
	  AND NOT a.attisdropped
	ORDER BY a.attnum`

// ShowFullColumns returns the column rows of table, in attribute order.
// A "schema.table" name overrides the configured schema.
func (d *Driver) ShowFullColumns(ctx context.Context, table string) ([]database.ColumnRow, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "table name is empty")
	}
	schema, name := d.schema, table
	if i := strings.IndexByte(table, '.'); i > 0 {
		schema, name = table[:i], table[i+1:]
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	rows, err := d.pool.Query(ctx, showColumnsQuery, schema, name)
	if err != nil {
		return nil, mapError(err, "failed to show columns of "+table)
	}
	cols, err := pgx.CollectRows(rows, pgx.RowToStructByPos[database.ColumnRow])
	if err != nil {
		return nil, mapError(err, "failed to scan columns of "+table)
	}
	if len(cols) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q not found in schema %q", name, schema)
	}

	for i := range cols {
		cols[i].Default = columnDefault(cols[i].Type, cols[i].Default)
	}
	return cols, nil
}

// ListTables returns all user-defined table names in the configured schema.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	rows, err := d.pool.Query(ctx, q, d.schema)
	if err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	tables, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapError(err, "failed to scan table name")
	}
	return tables, nil
}

func (d *Driver) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg == nil || d.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.QueryTimeout)
}
