package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/playforge/walletd/internal/shared/apperr"
)

// SQLSTATE codes the service reacts to
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
	codeQueryCanceled       = "57014" // statement_timeout fires this
)

// classify maps storage-native failures onto the service's error taxonomy.
// This is the only place SQLSTATEs are interpreted; messages never leak SQL.
func classify(err error) error {
	if err == nil {
		return nil
	}

	// Already classified upstream
	if _, ok := apperr.As(err); ok {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperr.Timeout("storage operation timed out", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperr.Wrap(err, apperr.KindConflict, "resource already exists")
		case codeForeignKeyViolation:
			return apperr.Wrap(err, apperr.KindNotFound, "referenced resource not found")
		case codeCheckViolation:
			return apperr.Wrap(err, apperr.KindBadRequest, "constraint violated")
		case codeSerializationFail, codeDeadlockDetected:
			return apperr.Transient("storage serialization conflict", err)
		case codeQueryCanceled:
			return apperr.Timeout("statement timed out", err)
		}
	}

	return apperr.Internal("storage failure", err)
}

// isUniqueViolation reports whether err is a raw unique-constraint violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
