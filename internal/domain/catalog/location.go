package catalog

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Location is a physical or logical place where stock is held. Stock may
// also live in the "unlocated" bucket (a nil location reference on the
// stock item).
type Location struct {
	shared.TenantAggregateRoot
	Code        string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_location_tenant_code,priority:2"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:varchar(255)"`
	DeletedAt   *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (Location) TableName() string {
	return "locations"
}

// NewLocation creates a new stock location
func NewLocation(tenantID uuid.UUID, code, name string) (*Location, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Location code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Location name cannot be empty")
	}

	return &Location{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                name,
	}, nil
}

// IsActive returns true if the location has not been soft-deleted
func (l *Location) IsActive() bool {
	return l.DeletedAt == nil
}

// SoftDelete marks the location as deleted without removing the row
func (l *Location) SoftDelete() {
	now := time.Now()
	l.DeletedAt = &now
	l.UpdatedAt = now
	l.IncrementVersion()
}
