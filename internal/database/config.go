package database

import "time"

// Driver identifies the database engine.
type Driver string

const (
	DriverMySQL    Driver = "mysql"
	DriverPostgres Driver = "postgres"
)

// Config holds all settings needed to connect to the catalog.
type Config struct {
	// Driver is the database engine (e.g. DriverMySQL).
	Driver Driver `yaml:"driver"`

	// DSN is the full data source name. When empty the connection is
	// assembled from Host, Port, User, Password and Database.
	// Example: "user:pass@tcp(localhost:3306)/shop"
	DSN string `yaml:"dsn"`

	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`

	// Schema is the Postgres search schema. Ignored by MySQL.
	Schema string `yaml:"schema"`

	// Pool tuning
	MaxConns        int32         `yaml:"max_conns"`         // maximum number of connections in the pool
	MinConns        int32         `yaml:"min_conns"`         // minimum number of idle connections kept alive
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"` // maximum time a connection may be reused
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time"`

	// Timeouts
	ConnectTimeout time.Duration `yaml:"connect_timeout"` // time limit for establishing a new connection
	QueryTimeout   time.Duration `yaml:"query_timeout"`   // per catalog query deadline, 0 disables it
}

// DefaultConfig returns pool settings sized for introspection: a handful of
// short catalog reads, never a sustained workload.
func DefaultConfig(dsn string) *Config {
	return &Config{
		Driver:          DriverMySQL,
		DSN:             dsn,
		Schema:          "public",
		MaxConns:        4,
		MinConns:        1,
		MaxConnLifetime: 30 * time.Minute,
		MaxConnIdleTime: 5 * time.Minute,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}
