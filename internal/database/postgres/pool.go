package postgres

import (
	"net"
	"net/url"
	"strconv"

	"github.com/koustreak/colmeta/internal/database"
	"github.com/koustreak/colmeta/internal/errs"
)

const defaultPort = 5432

// buildDSN returns cfg.DSN when set, otherwise a postgres:// URL assembled
// from the discrete fields.
func buildDSN(cfg *database.Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.Host == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "postgres host or DSN is required")
	}
	if cfg.Database == "" {
		return "", errs.New(errs.ErrKindInvalidInput, "postgres database name is required")
	}

	port := cfg.Port
	if port == 0 {
		port = defaultPort
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(port)),
		Path:   "/" + cfg.Database,
	}
	switch {
	case cfg.User != "" && cfg.Password != "":
		u.User = url.UserPassword(cfg.User, cfg.Password)
	case cfg.User != "":
		u.User = url.User(cfg.User)
	}
	return u.String(), nil
}
