package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jdrojas/cobranza_app/internal/apperrors"
)

// dbtx is the common query surface of *pgxpool.Pool and pgx.Tx. Repository
// methods that exist in both plain and in-transaction flavors share one
// implementation over it.
type dbtx interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// translateErr maps low-level database errors onto the application error
// sentinels. Serialization failures and deadlocks become the retryable
// conflict error; unique and foreign key violations become their domain
// counterparts. Anything else passes through unchanged.
func translateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01": // serialization_failure, deadlock_detected
			return fmt.Errorf("%w: %s", apperrors.ErrTransactionConflict, pgErr.Message)
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, pgErr.ConstraintName)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%w: constraint %s", apperrors.ErrValidation, pgErr.ConstraintName)
		}
	}
	return err
}
