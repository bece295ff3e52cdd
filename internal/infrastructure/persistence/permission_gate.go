package persistence

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPermissionGate implements PermissionGate against the role tables.
// A user holds a permission when any role assigned to them within the
// tenant grants the resource/action pair.
type GormPermissionGate struct {
	db *gorm.DB
}

// NewGormPermissionGate creates a new GormPermissionGate
func NewGormPermissionGate(db *gorm.DB) *GormPermissionGate {
	return &GormPermissionGate{db: db}
}

// Allows reports whether the user holds the permission within the tenant
func (g *GormPermissionGate) Allows(ctx context.Context, tenantID, userID uuid.UUID, perm identity.Permission) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).
		Model(&identity.UserRole{}).
		Joins("JOIN role_permissions ON role_permissions.role_id = user_roles.role_id").
		Where("user_roles.tenant_id = ? AND user_roles.user_id = ?", tenantID, userID).
		Where("role_permissions.resource = ? AND role_permissions.action = ?", perm.Resource, perm.Action).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Require returns shared.ErrForbidden when the user lacks the permission
func (g *GormPermissionGate) Require(ctx context.Context, tenantID, userID uuid.UUID, perm identity.Permission) error {
	ok, err := g.Allows(ctx, tenantID, userID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}
	return nil
}

// Ensure GormPermissionGate implements PermissionGate
var _ identity.PermissionGate = (*GormPermissionGate)(nil)
