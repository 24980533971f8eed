// Package store is the MySQL persistence layer.
package store

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when a row lookup matches nothing.
	ErrNotFound = stderrors.New("record not found")
	// ErrConflict is returned when a unique column already holds the value.
	ErrConflict = stderrors.New("record already exists")
	// ErrInsufficientStock is returned when a conditional stock decrement matches no row.
	ErrInsufficientStock = stderrors.New("insufficient stock")
)

// Querier is implemented by both *sqlx.DB and *sqlx.Tx,
// so helpers can be used in or out of a transaction.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return stderrors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// notFound maps sql.ErrNoRows to ErrNotFound and wraps everything else.
func notFound(err error, msg string) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrap(err, msg)
}

// selectIn runs a query containing an "IN (?)" clause expanded by sqlx.In.
func selectIn(ctx context.Context, q Querier, dest interface{}, query string, args ...interface{}) error {
	expanded, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return errors.Wrap(err, "expand IN clause")
	}
	return q.SelectContext(ctx, dest, q.Rebind(expanded), inArgs...)
}

// requireAffected turns "no matched row" into ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
