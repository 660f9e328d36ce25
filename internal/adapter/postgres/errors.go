package postgres

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled are NOT mapped; they pass through.
func MapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if entity == "session" {
				return fmt.Errorf("%s %s: %w", entity, id, domain.ErrDuplicateSession)
			}
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrNotFound)
		case "23514", "23502", "22P02": // check, not null, invalid text representation
			return fmt.Errorf("%s %s: %w", entity, id, domain.ErrValidation)
		case "53300", "57P01", "57P02", "57P03": // too many connections, shutdown, cannot connect now
			return fmt.Errorf("%s %s: %w: %v", entity, id, domain.ErrBackendUnavailable, err)
		}
		if strings.HasPrefix(pgErr.Code, "08") { // connection exception class
			return fmt.Errorf("%s %s: %w: %v", entity, id, domain.ErrBackendUnavailable, err)
		}
		return fmt.Errorf("%s %s: %w", entity, id, err)
	}

	if isConnectionError(err) {
		return fmt.Errorf("%s %s: %w: %v", entity, id, domain.ErrBackendUnavailable, err)
	}

	return fmt.Errorf("%s %s: %w", entity, id, err)
}

func isConnectionError(err error) bool {
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	return strings.Contains(err.Error(), "closed pool") || strings.Contains(err.Error(), "conn closed")
}
