package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"
)

// QueryRower is satisfied by *sql.DB and *sql.Tx.
type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DBTX lets repositories run the same statements inside or outside a transaction.
type DBTX interface {
	Execer
	QueryRower
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const mysqlDuplicateEntry = 1062

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// IsDuplicateKey reports a MySQL unique-key violation.
func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// IsServerError reports an error returned by the MySQL server itself, as
// opposed to a connection or driver failure.
func IsServerError(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me)
}
