package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"net"
	"strings"

	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repository reacts to.
const (
	pgUniqueViolation     = "23505"
	pgTooManyConnections  = "53300"
	pgAdminShutdown       = "57P01"
	pgCannotConnectNow    = "57P03"
	pgConnectionException = "08" // class prefix
)

// translateStorageError maps a driver error onto the domain taxonomy.
// Unique violations become ErrDuplicateEmail, connectivity failures become
// ErrStorageUnavailable, everything else is an opaque database error.
func translateStorageError(err error, details string) error {
	switch {
	case err == nil:
		return nil
	case isUniqueConstraintViolation(err):
		return domainerrors.ErrDuplicateEmail.WrapMessage(details)
	case isStorageUnavailable(err):
		return errors.Wrap(domainerrors.ErrStorageUnavailable, details+": "+err.Error())
	default:
		return domainerrors.NewDatabaseExecuteError(err, details)
	}
}

func isUniqueConstraintViolation(err error) bool {
	// GORM translates dialect errors when TranslateError is enabled.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	return false
}

func isStorageUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}

	if pgconn.Timeout(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgTooManyConnections, pgAdminShutdown, pgCannotConnectNow:
			return true
		}

		return strings.HasPrefix(pgErr.Code, pgConnectionException)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
