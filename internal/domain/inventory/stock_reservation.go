package inventory

import (
	"time"

	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "ACTIVE"
	ReservationStatusExpired   ReservationStatus = "EXPIRED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
	ReservationStatusFulfilled ReservationStatus = "FULFILLED"
)

// StockReservation is a soft hold on available stock, typically placed by
// a sales document before fulfilment. Only ACTIVE reservations count
// against the item's reserved quantity; every terminal transition must
// release the held quantity back to the item in the same transaction.
type StockReservation struct {
	shared.TenantAggregateRoot
	ProductID   uuid.UUID         `gorm:"type:uuid;not null;index:idx_reservation_product"`
	LocationID  *uuid.UUID        `gorm:"type:uuid;index"`
	Quantity    decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index:idx_reservation_status"`
	Reference   string            `gorm:"type:varchar(100);index"` // Holding document, e.g. a quote number
	Notes       string            `gorm:"type:text"`
	ExpiresAt   *time.Time        `gorm:"type:timestamptz;index"`
	ReleasedAt  *time.Time        `gorm:"type:timestamptz"`
	FulfilledAt *time.Time        `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (StockReservation) TableName() string {
	return "stock_reservations"
}

// NewStockReservation creates a new active reservation
func NewStockReservation(tenantID, productID uuid.UUID, locationID *uuid.UUID, quantity decimal.Decimal, reference string, expiresAt *time.Time) (*StockReservation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Reservation quantity must be positive")
	}
	if expiresAt != nil && expiresAt.Before(time.Now()) {
		return nil, shared.NewDomainError("INVALID_EXPIRY", "Expiry must be in the future")
	}

	return &StockReservation{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           productID,
		LocationID:          locationID,
		Quantity:            quantity,
		Status:              ReservationStatusActive,
		Reference:           reference,
		ExpiresAt:           expiresAt,
	}, nil
}

// IsActive returns true while the reservation holds stock
func (r *StockReservation) IsActive() bool {
	return r.Status == ReservationStatusActive
}

// IsExpiredBy returns true if an active reservation has passed its expiry
func (r *StockReservation) IsExpiredBy(now time.Time) bool {
	return r.Status == ReservationStatusActive && r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// Cancel releases the hold by user action, recording the supplied reason.
// Only active reservations can be cancelled; terminal states are final.
func (r *StockReservation) Cancel(reason string) error {
	if r.Status != ReservationStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active reservations can be cancelled")
	}

	now := time.Now()
	r.Status = ReservationStatusCancelled
	r.Notes = reason
	r.ReleasedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationReleasedEvent(r, string(ReservationStatusCancelled)))

	return nil
}

// Expire releases the hold because the expiry passed. Invoked by the
// expiry sweep, never directly by users.
func (r *StockReservation) Expire() error {
	if r.Status != ReservationStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active reservations can expire")
	}

	now := time.Now()
	r.Status = ReservationStatusExpired
	r.ReleasedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewReservationReleasedEvent(r, string(ReservationStatusExpired)))

	return nil
}

// Fulfill marks the reservation as consumed by an outbound movement
func (r *StockReservation) Fulfill() error {
	if r.Status != ReservationStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active reservations can be fulfilled")
	}

	now := time.Now()
	r.Status = ReservationStatusFulfilled
	r.FulfilledAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}
