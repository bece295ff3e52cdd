package identity

import (
	"strings"

	"github.com/atlaserp/backend/internal/domain/shared"
)

// Permission represents a functional capability in resource:action form
// (e.g. "stock:write", "quotes:update").
type Permission struct {
	Resource string `gorm:"type:varchar(50);not null;uniqueIndex:idx_permission_code,priority:1"`
	Action   string `gorm:"type:varchar(50);not null;uniqueIndex:idx_permission_code,priority:2"`
}

// Capabilities required by the stock and sales core.
var (
	PermStockRead     = Permission{Resource: "stock", Action: "read"}
	PermStockWrite    = Permission{Resource: "stock", Action: "write"}
	PermStockAdjust   = Permission{Resource: "stock", Action: "adjust"}
	PermStockTransfer = Permission{Resource: "stock", Action: "transfer"}
	PermStockReserve  = Permission{Resource: "stock", Action: "reserve"}
	PermQuotesRead    = Permission{Resource: "quotes", Action: "read"}
	PermQuotesCreate  = Permission{Resource: "quotes", Action: "create"}
	PermQuotesUpdate  = Permission{Resource: "quotes", Action: "update"}
	PermOrdersRead    = Permission{Resource: "orders", Action: "read"}
	PermOrdersCreate  = Permission{Resource: "orders", Action: "create"}
	PermOrdersUpdate  = Permission{Resource: "orders", Action: "update"}
)

// NewPermission creates a new Permission value object
func NewPermission(resource, action string) (*Permission, error) {
	if resource == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission resource cannot be empty")
	}
	if action == "" {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Permission action cannot be empty")
	}
	return &Permission{Resource: resource, Action: action}, nil
}

// NewPermissionFromCode creates a Permission from a code string (e.g. "stock:write")
func NewPermissionFromCode(code string) (*Permission, error) {
	parts := strings.Split(code, ":")
	if len(parts) != 2 {
		return nil, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1])
}

// Code returns the resource:action code of the permission
func (p Permission) Code() string {
	return p.Resource + ":" + p.Action
}

// Equals checks if two permissions are the same
func (p Permission) Equals(other Permission) bool {
	return p.Resource == other.Resource && p.Action == other.Action
}

// IsEmpty returns true if the permission has no resource or action
func (p Permission) IsEmpty() bool {
	return p.Resource == "" || p.Action == ""
}
