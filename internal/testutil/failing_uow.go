package testutil

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/alexanderramin/chantier/internal/db"
)

// NewFailOnNthExecUoW returns a real unit of work whose transactions fail the
// nth write (counting from 1) with err. Reads are never counted, so the
// failure lands on a chosen row of an entry batch or alert sync.
func NewFailOnNthExecUoW(database *sql.DB, n int32, err error) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database, db.WithTxWrapper(func(tx db.DBTX) db.DBTX {
		return &failingWrites{DBTX: tx, failOn: n, err: err}
	}))
}

type failingWrites struct {
	db.DBTX
	writes atomic.Int32
	failOn int32
	err    error
}

func (f *failingWrites) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.writes.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
