package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/koustreak/colmeta/internal/config"
	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/database/mysql"
	"github.com/koustreak/colmeta/internal/database/postgres"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/filestore/minio"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/spf13/cobra"
)

// app carries the state shared by every subcommand.
type app struct {
	configPath string
	dsn        string
	driver     string
	format     string
	intSize    int
	verbose    bool

	cfg *config.Config
	log *logger.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "colmeta",
		Short: "Read table column metadata from MySQL or PostgreSQL",
		Long: `colmeta reads the columns of database tables and normalises them into
portable descriptors for code generators: abstract type, host value type,
nullability, keys, enum options and typed defaults.

Examples:
  colmeta columns orders --dsn 'root:secret@tcp(localhost:3306)/shop'
  colmeta tables --driver postgres --dsn postgres://app@localhost/shop
  colmeta export --config colmeta.yaml
  colmeta snapshots orders --format yaml
  colmeta serve --config colmeta.yaml
  colmeta mcp --dsn 'root:secret@tcp(localhost:3306)/shop'`,
		Version:           version + " (" + commit + ")",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error { return a.load(cmd) },
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "colmeta.yaml", "config file")
	flags.StringVar(&a.dsn, "dsn", "", "data source name (overrides config and "+config.EnvDSN+")")
	flags.StringVar(&a.driver, "driver", "", "database driver: mysql or postgres (detected from the DSN when omitted)")
	flags.StringVarP(&a.format, "format", "f", "", "output format: json or yaml")
	flags.IntVar(&a.intSize, "int-size", 0, "native integer width of the consumer: 32 or 64")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newColumnsCmd(a),
		newTablesCmd(a),
		newExportCmd(a),
		newSnapshotsCmd(a),
		newServeCmd(a),
		newMCPCmd(a),
	)
	return root
}

// load reads the config file and applies flag overrides.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dsn") {
		cfg.Database.DSN = a.dsn
		if !flags.Changed("driver") {
			cfg.Database.Driver = detectDriver(a.dsn)
		}
	}
	if flags.Changed("driver") {
		cfg.Database.Driver = database.Driver(a.driver)
	}
	if flags.Changed("format") {
		cfg.Export.Format = a.format
	}
	if flags.Changed("int-size") {
		cfg.Schema.IntSize = a.intSize
	}
	if a.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = logger.New(&cfg.Log)
	if flags.Changed("config") {
		if _, err := os.Stat(a.configPath); errors.Is(err, fs.ErrNotExist) {
			a.log.Warn("config file " + a.configPath + " not found, using defaults")
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(a.log.WithContext(ctx))
	return nil
}

// detectDriver guesses the driver from the shape of dsn.
func detectDriver(dsn string) database.Driver {
	lower := strings.ToLower(dsn)
	if strings.HasPrefix(lower, "postgres://") || strings.HasPrefix(lower, "postgresql://") ||
		strings.Contains(lower, "sslmode=") || strings.Contains(lower, "host=") {
		return database.DriverPostgres
	}
	return database.DriverMySQL
}

// connect opens the configured catalog database.
func (a *app) connect(ctx context.Context) (database.DB, error) {
	a.log.With().Str("driver", string(a.cfg.Database.Driver)).Logger().Debug("connecting")

	var (
		db  database.DB
		err error
	)
	switch a.cfg.Database.Driver {
	case database.DriverMySQL:
		db, err = mysql.New(ctx, &a.cfg.Database)
	case database.DriverPostgres:
		db, err = postgres.New(ctx, &a.cfg.Database)
	default:
		err = errs.Newf(errs.ErrKindInvalidInput, "unsupported database driver %q", a.cfg.Database.Driver)
	}
	if err != nil {
		return nil, err
	}
	return db, nil
}

func (a *app) reader(db database.Catalog) (*schema.Reader, error) {
	return schema.NewReader(db, &a.cfg.Schema, a.log)
}

// exporter opens the configured object store and returns an Exporter on
// bucket, or on filestore.bucket when bucket is empty. The returned func
// closes the store.
func (a *app) exporter(ctx context.Context, bucket string) (*export.Exporter, func(), error) {
	if !a.cfg.Filestore.Enabled() {
		return nil, nil, errs.New(errs.ErrKindInvalidInput, "filestore.endpoint is not configured")
	}
	if bucket == "" {
		bucket = a.cfg.Filestore.Bucket
	}

	store, err := minio.New(ctx, &a.cfg.Filestore)
	if err != nil {
		return nil, nil, err
	}
	exporter, err := export.New(store, bucket, &a.cfg.Export, a.log)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return exporter, func() { store.Close() }, nil
}

func (a *app) outputFormat() export.Format {
	f, err := export.ParseFormat(a.cfg.Export.Format)
	if err != nil {
		return export.FormatJSON
	}
	return f
}
