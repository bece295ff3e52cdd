package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPermissionGate(t *testing.T) {
	expectPermissionCount := func(mock sqlmock.Sqlmock, tenantID, userID uuid.UUID, perm identity.Permission, count int64) {
		mock.ExpectQuery(`SELECT count\(\*\) FROM "user_roles" JOIN role_permissions ON role_permissions\.role_id = user_roles\.role_id`).
			WithArgs(tenantID, userID, perm.Resource, perm.Action).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(count))
	}

	t.Run("allows user with a granting role", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gate := NewGormPermissionGate(gormDB)

		tenantID := uuid.New()
		userID := uuid.New()
		expectPermissionCount(mock, tenantID, userID, identity.PermStockWrite, 1)

		ok, err := gate.Allows(context.Background(), tenantID, userID, identity.PermStockWrite)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("denies user without the permission", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gate := NewGormPermissionGate(gormDB)

		tenantID := uuid.New()
		userID := uuid.New()
		expectPermissionCount(mock, tenantID, userID, identity.PermStockAdjust, 0)

		ok, err := gate.Allows(context.Background(), tenantID, userID, identity.PermStockAdjust)

		assert.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Require surfaces ErrForbidden", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		gate := NewGormPermissionGate(gormDB)

		tenantID := uuid.New()
		userID := uuid.New()
		expectPermissionCount(mock, tenantID, userID, identity.PermQuotesUpdate, 0)

		err := gate.Require(context.Background(), tenantID, userID, identity.PermQuotesUpdate)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
