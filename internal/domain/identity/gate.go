package identity

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PermissionGate answers whether a user holds a capability within a tenant.
// Every application-service operation checks the gate before doing anything
// else; a denied check surfaces as shared.ErrForbidden.
type PermissionGate interface {
	// Allows reports whether the user holds the permission within the tenant
	Allows(ctx context.Context, tenantID, userID uuid.UUID, perm Permission) (bool, error)
	// Require returns shared.ErrForbidden when the user lacks the permission
	Require(ctx context.Context, tenantID, userID uuid.UUID, perm Permission) error
}

// StaticPermissionGate is a PermissionGate backed by an in-memory grant table.
// Used in tests and for bootstrap users before roles are configured.
type StaticPermissionGate struct {
	grants map[uuid.UUID]map[string]bool
}

// NewStaticPermissionGate creates an empty static gate
func NewStaticPermissionGate() *StaticPermissionGate {
	return &StaticPermissionGate{grants: make(map[uuid.UUID]map[string]bool)}
}

// Grant grants a permission to a user
func (g *StaticPermissionGate) Grant(userID uuid.UUID, perms ...Permission) {
	if g.grants[userID] == nil {
		g.grants[userID] = make(map[string]bool)
	}
	for _, p := range perms {
		g.grants[userID][p.Code()] = true
	}
}

// GrantAll grants every core capability to a user
func (g *StaticPermissionGate) GrantAll(userID uuid.UUID) {
	g.Grant(userID,
		PermStockRead, PermStockWrite, PermStockAdjust, PermStockTransfer, PermStockReserve,
		PermQuotesRead, PermQuotesCreate, PermQuotesUpdate,
		PermOrdersRead, PermOrdersCreate, PermOrdersUpdate,
	)
}

// Allows reports whether the user holds the permission
func (g *StaticPermissionGate) Allows(_ context.Context, _ uuid.UUID, userID uuid.UUID, perm Permission) (bool, error) {
	return g.grants[userID][perm.Code()], nil
}

// Require returns shared.ErrForbidden when the user lacks the permission
func (g *StaticPermissionGate) Require(ctx context.Context, tenantID, userID uuid.UUID, perm Permission) error {
	ok, err := g.Allows(ctx, tenantID, userID, perm)
	if err != nil {
		return err
	}
	if !ok {
		return shared.ErrForbidden
	}
	return nil
}

// Ensure StaticPermissionGate implements PermissionGate
var _ PermissionGate = (*StaticPermissionGate)(nil)
