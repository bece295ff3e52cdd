package identity

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role groups permissions for assignment to users within a tenant
type Role struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(255)"`
	IsSystem    bool   `gorm:"not null;default:false"`

	Permissions []RolePermission `gorm:"foreignKey:RoleID;references:ID"`
}

// TableName returns the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// RolePermission links a role to a granted permission
type RolePermission struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Resource  string    `gorm:"type:varchar(50);not null"`
	Action    string    `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (RolePermission) TableName() string {
	return "role_permissions"
}

// UserRole links a user to an assigned role within a tenant
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_role_user"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (UserRole) TableName() string {
	return "user_roles"
}

// NewRole creates a new role for a tenant
func NewRole(tenantID uuid.UUID, name, description string) (*Role, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ROLE_NAME", "Role name cannot be empty")
	}

	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Description:         description,
		Permissions:         make([]RolePermission, 0),
	}, nil
}

// GrantPermission grants a permission to the role
func (r *Role) GrantPermission(perm Permission) error {
	if perm.IsEmpty() {
		return shared.NewDomainError("INVALID_PERMISSION", "Permission cannot be empty")
	}

	for _, p := range r.Permissions {
		if p.Resource == perm.Resource && p.Action == perm.Action {
			return nil // already granted
		}
	}

	r.Permissions = append(r.Permissions, RolePermission{
		ID:        uuid.New(),
		RoleID:    r.ID,
		Resource:  perm.Resource,
		Action:    perm.Action,
		CreatedAt: time.Now(),
	})
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// HasPermission checks whether the role grants the given permission
func (r *Role) HasPermission(perm Permission) bool {
	for _, p := range r.Permissions {
		if p.Resource == perm.Resource && p.Action == perm.Action {
			return true
		}
	}
	return false
}
