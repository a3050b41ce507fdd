package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-srs/internal/platform/logger"
)

// TxFn is a function that executes within a database transaction.
type TxFn func(ctx context.Context, tx *sql.Tx) error

// RunInTransaction runs fn in a transaction on db. It commits when fn
// returns nil and rolls back when fn fails or panics; a panic is re-raised
// after the rollback.
func RunInTransaction(ctx context.Context, db *sql.DB, fn TxFn) (err error) {
	log := logger.FromContextOrDefault(ctx, slog.Default())

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		p := recover()
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error("failed to roll back transaction",
				slog.String("rollback_error", rbErr.Error()),
				slog.Any("panic", p))
			if p == nil && err != nil {
				err = fmt.Errorf("error rolling back transaction: %v (original error: %w)", rbErr, err)
			}
		}
		if p != nil {
			// ALLOW-PANIC: Propagating caught panic from transaction
			panic(p)
		}
	}()

	if err = fn(ctx, tx); err != nil {
		log.Debug("rolling back transaction", slog.String("error", err.Error()))
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// WithTx returns s with every store bound to tx. DB is kept so callers can
// still start new transactions from the result.
func (s Stores) WithTx(tx *sql.Tx) Stores {
	return Stores{
		DB:          s.DB,
		Cards:       s.Cards.WithTxCardStore(tx),
		Collections: s.Collections.WithTxCollectionStore(tx),
		States:      s.States.WithTxMemoryStateStore(tx),
		Logs:        s.Logs.WithTxReviewLogStore(tx),
	}
}

// RunInTx runs fn with every store bound to one transaction on s.DB.
func (s Stores) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Stores) error) error {
	return RunInTransaction(ctx, s.DB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, s.WithTx(tx))
	})
}
