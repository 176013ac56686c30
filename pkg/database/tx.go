package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"
)

// Postgres SQLSTATE codes the transaction runner and stores care about.
const (
	CodeUniqueViolation      = "23505"
	CodeCheckViolation       = "23514"
	CodeSerializationFailure = "40001"
	CodeDeadlockDetected     = "40P01"
)

// TxBeginner starts transactions. Implemented by *pgxpool.Pool.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// TxOptions controls RunInTx.
type TxOptions struct {
	// IsoLevel defaults to read committed; row locks taken inside fn provide
	// the per-row serialization the caller needs.
	IsoLevel pgx.TxIsoLevel
	// Timeout bounds one attempt, from BEGIN to COMMIT. Zero means no bound.
	Timeout time.Duration
	// MaxAttempts bounds restarts after serialization failures and deadlocks.
	MaxAttempts int
}

// TxFunc is the unit of work run inside a transaction. Every store call that
// belongs to the unit must be given tx.
type TxFunc func(ctx context.Context, tx pgx.Tx) error

// RunInTx runs fn inside a transaction and commits if fn returns nil.
// The transaction is rolled back on every other exit path, including panics
// and commit failures. A serialization failure or deadlock restarts fn from
// scratch up to opts.MaxAttempts times; fn must therefore not have side
// effects outside tx.
func RunInTx(ctx context.Context, db TxBeginner, opts TxOptions, fn TxFunc) error {
	attempts := opts.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = runOnce(ctx, db, opts, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		log.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_attempts", attempts).
			Msg("transaction conflict, retrying")
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", attempts, err)
}

func runOnce(ctx context.Context, db TxBeginner, opts TxOptions, fn TxFunc) (err error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{IsoLevel: opts.IsoLevel})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after Commit is a no-op, so this covers every exit path.
	// A fresh context keeps the rollback working when ctx has expired.
	defer func() {
		rbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tx.Rollback(rbCtx)
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// IsRetryable reports whether err is a transaction conflict that can be
// resolved by running the whole unit of work again.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == CodeSerializationFailure || pgErr.Code == CodeDeadlockDetected
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != CodeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
