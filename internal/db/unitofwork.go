package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what repositories query through: the shared *sql.DB for reads, or
// the *sql.Tx handed to a TxFunc for writes that must land together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

// TxFunc runs inside one transaction. Returning an error rolls back.
type TxFunc func(ctx context.Context, tx DBTX) error

// UnitOfWork commits a schedule write, its project version bump and any alert
// changes as one atomic step.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

// SQLiteUnitOfWork is the database/sql UnitOfWork.
type SQLiteUnitOfWork struct {
	db   *sql.DB
	wrap func(DBTX) DBTX
}

// UoWOption configures a SQLiteUnitOfWork.
type UoWOption func(*SQLiteUnitOfWork)

// WithTxWrapper decorates the handle each TxFunc receives. Tests use it to
// inject write failures part way through a batch.
func WithTxWrapper(wrap func(DBTX) DBTX) UoWOption {
	return func(u *SQLiteUnitOfWork) { u.wrap = wrap }
}

func NewSQLiteUnitOfWork(database *sql.DB, opts ...UoWOption) *SQLiteUnitOfWork {
	u := &SQLiteUnitOfWork{db: database}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// WithinTx runs fn in a transaction. A context cancelled while fn runs rolls
// the work back even if fn itself succeeded, so an interrupted generate never
// leaves a half-applied schedule.
func (u *SQLiteUnitOfWork) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	var q DBTX = tx
	if u.wrap != nil {
		q = u.wrap(tx)
	}
	return finishTx(ctx, tx, q, fn)
}

func finishTx(ctx context.Context, tx *sql.Tx, q DBTX, fn TxFunc) (err error) {
	committed := false
	defer func() {
		if committed {
			return
		}
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rolling back: %w", rbErr))
		}
	}()

	if err = fn(ctx, q); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return fmt.Errorf("transaction abandoned: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	committed = true
	return nil
}
