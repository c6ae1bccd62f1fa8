// Package dburl maps a store URL — the sole external configuration value —
// onto a database/sql driver name and data source string.
package dburl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/markbook/markbook/dbstrings"
)

var (
	ErrUnknownDialect = errors.New("unknown database dialect")
	ErrInvalidURL     = errors.New("invalid database URL")
)

// InferDialect returns the dialect for a store URL based on its scheme.
// URLs with no scheme (bare file paths, ":memory:") are treated as sqlite,
// matching the common case of a local database file.
func InferDialect(storeURL string) (dbstrings.Dialect, error) {
	if storeURL == "" {
		return "", fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}
	if storeURL == ":memory:" || !strings.Contains(storeURL, "://") {
		return dbstrings.DialectSQLite, nil
	}

	u, err := url.Parse(storeURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		return dbstrings.DialectPostgres, nil
	case "mysql":
		return dbstrings.DialectMySQL, nil
	case "sqlite", "sqlite3":
		return dbstrings.DialectSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, u.Scheme)
	}
}

// DriverName returns the database/sql driver name registered for the dialect.
func DriverName(dialect dbstrings.Dialect) (string, error) {
	switch dialect {
	case dbstrings.DialectSQLite:
		return "sqlite", nil
	case dbstrings.DialectPostgres:
		return "pgx", nil
	case dbstrings.DialectMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
	}
}

// DataSource converts a store URL into the data source string the dialect's
// driver expects. sqlite URLs are reduced to a bare file path (or ":memory:");
// postgres URLs pass through unchanged; mysql URLs are rewritten into the
// go-sql-driver DSN form user:pass@tcp(host:port)/dbname.
func DataSource(storeURL string, dialect dbstrings.Dialect) (string, error) {
	switch dialect {
	case dbstrings.DialectSQLite:
		// Accept sqlite://file, sqlite:file, and bare paths. The scheme is
		// only decoration; the driver wants a plain path or ":memory:".
		for _, prefix := range []string{"sqlite3://", "sqlite://", "sqlite3:", "sqlite:"} {
			if strings.HasPrefix(storeURL, prefix) {
				return strings.TrimPrefix(storeURL, prefix), nil
			}
		}
		return storeURL, nil

	case dbstrings.DialectPostgres:
		return storeURL, nil

	case dbstrings.DialectMySQL:
		u, err := url.Parse(storeURL)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
		}
		host := u.Hostname()
		port := u.Port()
		if port == "" {
			port = "3306"
		}
		user := u.User.Username()
		pass, _ := u.User.Password()
		cred := user
		if pass != "" {
			cred = user + ":" + pass
		}
		dbname := strings.TrimPrefix(u.Path, "/")
		return fmt.Sprintf("%s@tcp(%s:%s)/%s", cred, host, port, dbname), nil

	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownDialect, dialect)
	}
}
