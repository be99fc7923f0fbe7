package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
	portsrepo "github.com/jdrojas/cobranza_app/internal/core/ports/repositories"
	"github.com/jdrojas/cobranza_app/internal/middleware"
)

// maxTxAttempts bounds the automatic retries of a serializably-isolated
// transaction after a conflict abort.
const maxTxAttempts = 3

// runInTx executes fn inside one transaction opened through txm, committing
// on success and rolling back on any error. Serialization aborts surface as
// apperrors.ErrTransactionConflict and are retried up to maxTxAttempts times
// with a fresh transaction; fn must therefore be safe to re-execute from the
// top.
func runInTx(ctx context.Context, txm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) error {
	var err error
	for attempt := 1; ; attempt++ {
		err = runTxOnce(ctx, txm, fn)
		if err == nil || !errors.Is(err, apperrors.ErrTransactionConflict) || attempt >= maxTxAttempts {
			return err
		}
		middleware.GetLoggerFromCtx(ctx).Warn("Transaction conflicted with a concurrent update, retrying",
			slog.Int("attempt", attempt),
			slog.String("error", err.Error()),
		)
	}
}

func runTxOnce(ctx context.Context, txm portsrepo.TransactionManager, fn func(tx pgx.Tx) error) (err error) {
	tx, err := txm.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := txm.Rollback(ctx, tx); rbErr != nil {
				middleware.GetLoggerFromCtx(ctx).Error("Failed to rollback transaction", slog.String("error", rbErr.Error()))
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = txm.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
