package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/koustreak/colmeta/internal/config"
	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
	"github.com/koustreak/colmeta/internal/export"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectDriver(t *testing.T) {
	tests := map[string]database.Driver{
		"postgres://app@localhost/shop":      database.DriverPostgres,
		"postgresql://app@localhost/shop":    database.DriverPostgres,
		"host=localhost dbname=shop":         database.DriverPostgres,
		"root:secret@tcp(localhost:3306)/db": database.DriverMySQL,
		"root@/shop?parseTime=true":          database.DriverMySQL,
	}
	for dsn, want := range tests {
		assert.Equal(t, want, detectDriver(dsn), dsn)
	}
}

func TestLoadAppliesFlags(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	path := filepath.Join(t.TempDir(), "colmeta.yaml")
	require.NoError(t, os.WriteFile(path, []byte("schema:\n  int_size: 64\nexport:\n  format: json\n"), 0o600))

	a := &app{}
	root := newRootCmd(a)
	require.NoError(t, root.ParseFlags([]string{
		"--config", path,
		"--dsn", "postgres://app@localhost/shop",
		"--int-size", "32",
		"--format", "yaml",
		"-v",
	}))
	require.NoError(t, a.load(root))

	assert.Equal(t, database.DriverPostgres, a.cfg.Database.Driver)
	assert.Equal(t, "postgres://app@localhost/shop", a.cfg.Database.DSN)
	assert.Equal(t, 32, a.cfg.Schema.IntSize)
	assert.Equal(t, export.FormatYAML, a.outputFormat())
	assert.Equal(t, "debug", a.cfg.Log.Level)
	assert.NotNil(t, a.log)
}

func TestLoadExplicitDriverWins(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	a := &app{}
	root := newRootCmd(a)
	require.NoError(t, root.ParseFlags([]string{
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--dsn", "host=db dbname=shop",
		"--driver", "mysql",
	}))
	require.NoError(t, a.load(root))
	assert.Equal(t, database.DriverMySQL, a.cfg.Database.Driver)
}

func TestRootRejectsBadIntSize(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	root := newRootCmd(&app{})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"tables", "--config", filepath.Join(t.TempDir(), "none.yaml"), "--int-size", "16"})

	err := root.Execute()
	assert.True(t, errs.IsInvalidInput(err))
}

func TestColumnsRequiresTable(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	root := newRootCmd(&app{})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"columns", "--config", filepath.Join(t.TempDir(), "none.yaml")})

	assert.Error(t, root.Execute())
}

func TestSnapshotsNeedsFilestore(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	root := newRootCmd(&app{})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"snapshots", "--config", filepath.Join(t.TempDir(), "none.yaml")})

	err := root.Execute()
	assert.True(t, errs.IsInvalidInput(err))
}

func TestSnapshotsTakesOneTable(t *testing.T) {
	t.Setenv(config.EnvDSN, "")
	root := newRootCmd(&app{})
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"snapshots", "orders", "users", "--config", filepath.Join(t.TempDir(), "none.yaml")})

	assert.Error(t, root.Execute())
}
