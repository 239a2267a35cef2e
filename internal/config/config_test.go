package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "colmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvDSN, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 64, cfg.Schema.IntSize)
	assert.Equal(t, database.DriverMySQL, cfg.Database.Driver)
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv(EnvDSN, "")
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: postgres://app@localhost/shop
  query_timeout: 5s
schema:
  int_size: 32
log:
  level: debug
  format: console
filestore:
  endpoint: localhost:9000
  bucket: snapshots
export:
  format: yaml
server:
  addr: 127.0.0.1:9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, database.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://app@localhost/shop", cfg.Database.DSN)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 10*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 32, cfg.Schema.IntSize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "rfc3339", cfg.Log.TimeFormat)
	assert.True(t, cfg.Filestore.Enabled())
	assert.Equal(t, "snapshots", cfg.Filestore.Bucket)
	assert.Equal(t, "yaml", cfg.Export.Format)
	assert.Equal(t, "schema", cfg.Export.Prefix)
	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Addr)
}

func TestLoadEnvDSN(t *testing.T) {
	t.Setenv(EnvDSN, "root:secret@tcp(db:3306)/shop")
	path := writeConfig(t, "database:\n  dsn: ignored\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "root:secret@tcp(db:3306)/shop", cfg.Database.DSN)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv(EnvDSN, "")
	tests := map[string]string{
		"bad yaml":   "database: [",
		"bad driver": "database:\n  driver: oracle\n",
		"bad width":  "schema:\n  int_size: 16\n",
		"bad format": "export:\n  format: xml\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.True(t, errs.IsInvalidInput(err))
		})
	}
}
