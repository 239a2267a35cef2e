package mysql

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"

	_ "github.com/go-sql-driver/mysql" // register "mysql" driver
)

// Driver is a MySQL implementation of database.DB backed by sqlx.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	db  *sqlx.DB
	cfg *database.Config
}

// New opens a MySQL connection pool using the provided Config and returns a Driver.
// It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *database.Config) (*Driver, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid DSN", err)
	}
	configurePool(db, cfg)

	d := &Driver{db: db, cfg: cfg}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := d.Ping(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return d, nil
}

// --- database.DB implementation ---

func (d *Driver) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return mapError(err, "ping failed")
	}
	return nil
}

func (d *Driver) Close() {
	_ = d.db.Close()
}

// ShowFullColumns runs SHOW FULL COLUMNS for table. Rows come back in the
// table's DDL column order.
func (d *Driver) ShowFullColumns(ctx context.Context, table string) ([]database.ColumnRow, error) {
	if table == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "table name is empty")
	}

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	var rows []database.ColumnRow
	if err := d.db.SelectContext(ctx, &rows, showColumnsQuery(table)); err != nil {
		return nil, mapError(err, "failed to show columns of "+table)
	}
	if len(rows) == 0 {
		return nil, errs.Newf(errs.ErrKindNotFound, "table %q has no columns", table)
	}
	return rows, nil
}

func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	const q = `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_type   = 'BASE TABLE'
		ORDER BY table_name`

	ctx, cancel := d.queryContext(ctx)
	defer cancel()

	var tables []string
	if err := d.db.SelectContext(ctx, &tables, q); err != nil {
		return nil, mapError(err, "failed to list tables")
	}
	return tables, nil
}

func (d *Driver) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if d.cfg == nil || d.cfg.QueryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d.cfg.QueryTimeout)
}

// showColumnsQuery builds the catalog statement. SHOW does not accept bind
// parameters, so the identifier is backtick-quoted instead.
func showColumnsQuery(table string) string {
	return "SHOW FULL COLUMNS FROM " + quoteIdent(table)
}

// quoteIdent quotes a MySQL identifier, doubling embedded backticks.
// A "db.table" name is quoted part by part.
func quoteIdent(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = "`" + strings.ReplaceAll(p, "`", "``") + "`"
	}
	return strings.Join(parts, ".")
}
