// Package config loads the colmeta configuration file.
package config

import (
	"os"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/koustreak/colmeta/internal/filestore"
	"github.com/koustreak/colmeta/internal/logger"
	"github.com/koustreak/colmeta/internal/schema"
	"github.com/koustreak/colmeta/internal/server"
	"go.yaml.in/yaml/v3"
)

// EnvDSN overrides database.dsn when set.
const EnvDSN = "COLMETA_DSN"

// Config is the whole configuration file.
type Config struct {
	Database  database.Config  `yaml:"database"`
	Schema    schema.Config    `yaml:"schema"`
	Log       logger.Config    `yaml:"log"`
	Filestore filestore.Config `yaml:"filestore"`
	Export    export.Config    `yaml:"export"`
	Server    server.Config    `yaml:"server"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Database:  *database.DefaultConfig(""),
		Schema:    *schema.DefaultConfig(),
		Log:       *logger.DefaultConfig(),
		Filestore: *filestore.DefaultConfig("", "", ""),
		Export:    *export.DefaultConfig(),
		Server:    *server.DefaultConfig(),
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. COLMETA_DSN, when set, replaces the configured DSN.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, errs.Wrap(errs.ErrKindInvalidInput, "read config", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errs.Wrap(errs.ErrKindInvalidInput, "parse config "+path, err)
			}
		}
	}

	if dsn := os.Getenv(EnvDSN); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case database.DriverMySQL, database.DriverPostgres:
	default:
		return errs.Newf(errs.ErrKindInvalidInput, "unsupported database driver %q", c.Database.Driver)
	}
	if c.Schema.IntSize != 32 && c.Schema.IntSize != 64 {
		return errs.Newf(errs.ErrKindInvalidInput, "schema.int_size must be 32 or 64, got %d", c.Schema.IntSize)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return err
	}
	return nil
}
