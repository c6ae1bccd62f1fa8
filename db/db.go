// Package db implements the storage gateway: a single database connection
// with explicit transaction control, parameterized statement execution, and
// rows exposed as name-addressable maps.
//
// The gateway batches writes: the first Exec opens a transaction that stays
// pending until Commit, Rollback, or Close. Batching many sequential saves
// into one transaction is much faster than committing each individually.
// Close commits whatever is pending — callers must call it exactly once at
// shutdown or risk losing uncommitted writes.
//
// A DB is not safe for concurrent use. Overlapping statements on the single
// connection are undefined; callers needing concurrency must serialize
// access or open one gateway per worker.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/markbook/markbook/dbstrings"
	"github.com/markbook/markbook/dburl"
	"github.com/markbook/markbook/logging"
	"github.com/markbook/markbook/nanoid"
)

// Row is a single result row keyed by column name. Text values are always
// string, never []byte, regardless of driver.
type Row map[string]any

// Int64 returns the named column as an int64.
func (r Row) Int64(column string) (int64, bool) {
	switch v := r[column].(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// Text returns the named column as a string.
func (r Row) Text(column string) (string, bool) {
	s, ok := r[column].(string)
	return s, ok
}

// Result reports the outcome of a write statement.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// querier is satisfied by both *sql.Conn and *sql.Tx, so statements run the
// same way inside and outside a pending transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// DB is the storage gateway. Obtain one with Open.
type DB struct {
	pool    *sql.DB
	conn    *sql.Conn
	tx      *sql.Tx
	dialect dbstrings.Dialect
	logger  *slog.Logger
}

// Open connects to the store named by storeURL. The dialect is inferred from
// the URL scheme; bare paths and ":memory:" open a sqlite database. For
// sqlite the connection is configured to enforce foreign-key constraints,
// which the driver leaves off by default. A nil logger discards statement
// logging.
func Open(ctx context.Context, storeURL string, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = logging.Discard
	}

	dialect, err := dburl.InferDialect(storeURL)
	if err != nil {
		return nil, err
	}
	driver, err := dburl.DriverName(dialect)
	if err != nil {
		return nil, err
	}
	dsn, err := dburl.DataSource(storeURL, dialect)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The gateway owns exactly one connection; transaction state and, for
	// sqlite, per-connection pragmas depend on it.
	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)

	conn, err := pool.Conn(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if dialect == dbstrings.DialectSQLite {
		if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			conn.Close()
			pool.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	return &DB{pool: pool, conn: conn, dialect: dialect, logger: logger}, nil
}

// Dialect returns the dialect inferred at Open.
func (d *DB) Dialect() dbstrings.Dialect {
	return d.dialect
}

// InTransaction reports whether a write transaction is pending.
func (d *DB) InTransaction() bool {
	return d.tx != nil
}

func (d *DB) querier() querier {
	if d.tx != nil {
		return d.tx
	}
	return d.conn
}

func (d *DB) begin(ctx context.Context) error {
	if d.tx != nil {
		return nil
	}
	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	d.tx = tx
	return nil
}

// Exec runs one parameterized write statement. Parameters are always passed
// out-of-band from the statement text. The statement joins the pending
// transaction, opening one if none exists; it is not committed until Commit,
// Rollback, or Close. A failed statement leaves earlier pending statements
// in the transaction for the caller to commit or discard.
func (d *DB) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	if err := d.begin(ctx); err != nil {
		return Result{}, err
	}
	d.logStatement(query, args)

	res, err := d.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return Result{}, fmt.Errorf("failed to execute statement: %w", err)
	}

	var out Result
	// LastInsertId is unsupported by the postgres driver; a zero id with no
	// error is fine, callers that need it use sqlite or mysql semantics.
	if id, err := res.LastInsertId(); err == nil {
		out.LastInsertID = id
	}
	if n, err := res.RowsAffected(); err == nil {
		out.RowsAffected = n
	}
	return out, nil
}

// ExecCommit runs one write statement and commits immediately, including any
// previously pending writes.
func (d *DB) ExecCommit(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := d.Exec(ctx, query, args...)
	if err != nil {
		return res, err
	}
	return res, d.Commit()
}

// Query runs a parameterized read statement and fetches every row. Reads run
// inside the pending transaction when one is open, so batched writes are
// visible to subsequent reads before they commit.
func (d *DB) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	d.logStatement(query, args)

	rows, err := d.querier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// QueryRow runs a read statement and fetches at most one row. It returns a
// nil Row when nothing matched.
func (d *DB) QueryRow(ctx context.Context, query string, args ...any) (Row, error) {
	result, err := d.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result[0], nil
}

// Commit commits the pending transaction, if any.
func (d *DB) Commit() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Commit()
	d.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

// Rollback discards the pending transaction, if any.
func (d *DB) Rollback() error {
	if d.tx == nil {
		return nil
	}
	err := d.tx.Rollback()
	d.tx = nil
	if err != nil {
		return fmt.Errorf("failed to roll back: %w", err)
	}
	return nil
}

// Close commits any pending transaction and releases the connection. Call it
// exactly once at shutdown; skipping it loses uncommitted writes.
func (d *DB) Close() error {
	commitErr := d.Commit()
	if err := d.conn.Close(); err != nil && commitErr == nil {
		commitErr = fmt.Errorf("failed to close connection: %w", err)
	}
	if err := d.pool.Close(); err != nil && commitErr == nil {
		commitErr = fmt.Errorf("failed to close database: %w", err)
	}
	return commitErr
}

// ExecScript executes a multi-statement SQL script, statement by statement,
// inside the pending transaction, then commits. Used for schema and seed
// files at bootstrap.
func (d *DB) ExecScript(ctx context.Context, script string) error {
	for _, stmt := range SplitStatements(script) {
		if _, err := d.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return d.Commit()
}

// SplitStatements splits a SQL script on semicolons, ignoring semicolons
// inside single-quoted string literals and skipping blank statements.
func SplitStatements(script string) []string {
	var stmts []string
	var b strings.Builder
	inString := false

	for _, r := range script {
		if r == '\'' {
			inString = !inString
		}
		if r == ';' && !inString {
			if s := strings.TrimSpace(b.String()); s != "" {
				stmts = append(stmts, s)
			}
			b.Reset()
			continue
		}
		b.WriteRune(r)
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		stmts = append(stmts, s)
	}
	return stmts
}

func (d *DB) logStatement(query string, args []any) {
	d.logger.Debug("execute",
		"stmt_id", nanoid.New(),
		"sql", query,
		"args", fmt.Sprint(args),
		"in_tx", d.tx != nil,
	)
}

// scanRows drains a *sql.Rows into name-addressable Row maps, normalizing
// []byte column values to string.
func scanRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}
