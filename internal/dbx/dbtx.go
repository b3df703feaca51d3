// Package dbx holds the small database plumbing the repositories build on:
// the DBTX query interface, which both *sql.DB and *sql.Tx satisfy, and a
// transaction wrapper. Repositories written against DBTX run unchanged inside
// or outside a transaction; the signup flow relies on that to execute its
// duplicate check and insert as one atomic unit.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the query surface repositories are allowed to touch. Keeping it to
// the three Context methods means a repository can never commit, roll back,
// or close the handle it was given.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx runs fn inside a transaction: commit if fn returns nil, roll back if
// it returns an error or panics. A panic is rethrown after the rollback.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
