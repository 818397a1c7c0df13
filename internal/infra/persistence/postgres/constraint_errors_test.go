package postgres

import (
	"context"
	"database/sql/driver"
	stderrors "errors"
	"net"
	"testing"

	domainerrors "gatekeeper/internal/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateStorageError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domainerrors.Kind
	}{
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, want: domainerrors.KindDuplicateEmail},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}, want: domainerrors.KindDuplicateEmail},
		{name: "wrapped pg unique violation", err: errors.Wrap(&pgconn.PgError{Code: "23505"}, "insert"), want: domainerrors.KindDuplicateEmail},
		{name: "deadline", err: context.DeadlineExceeded, want: domainerrors.KindStorageUnavailable},
		{name: "bad conn", err: driver.ErrBadConn, want: domainerrors.KindStorageUnavailable},
		{name: "too many connections", err: &pgconn.PgError{Code: "53300"}, want: domainerrors.KindStorageUnavailable},
		{name: "connection exception class", err: &pgconn.PgError{Code: "08006"}, want: domainerrors.KindStorageUnavailable},
		{name: "network", err: &net.OpError{Op: "dial", Err: stderrors.New("connection refused")}, want: domainerrors.KindStorageUnavailable},
		{name: "syntax error", err: &pgconn.PgError{Code: "42601"}, want: domainerrors.KindInternal},
		{name: "plain", err: stderrors.New("boom"), want: domainerrors.KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateStorageError(tt.err, "op")
			assert.Error(t, got)
			assert.Equal(t, tt.want, domainerrors.KindOf(got))
		})
	}

	assert.NoError(t, translateStorageError(nil, "op"))
}
