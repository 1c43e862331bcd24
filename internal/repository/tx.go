package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/bgbarbearia/barbershop-admin/internal/apperr"
)

// withTx runs fn in a new transaction, committing only when fn succeeds.
func withTx(ctx context.Context, db *sqlx.DB, fn func(*sqlx.Tx) error) error {
	t, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.Transport("begin tx", err)
	}

	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}

	if err := t.Commit(); err != nil {
		return apperr.Transport("commit tx", err)
	}
	return nil
}

// DATETIME(6) keeps microseconds; truncating here keeps returned structs equal to what a reload yields.
func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
