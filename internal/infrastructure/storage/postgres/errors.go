package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"warestock/internal/core/apperror"
)

// MapError classifies a storage error into the service error taxonomy.
// Constraint violations (SQLSTATE class 23) surface as integrity errors
// the caller can correct and resubmit; everything else is treated as a
// storage availability failure, which is safe to retry because writes are
// transactional.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, "23") {
			msg := pgErr.Message
			if pgErr.Detail != "" {
				msg = pgErr.Detail
			}
			return apperror.NewIntegrity(msg).WithCause(err)
		}
		return apperror.NewUnavailable(err)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperror.NewUnavailable(err)
	}

	return apperror.NewUnavailable(err)
}
