package inventory

import (
	"context"
	"time"

	"github.com/atlaserp/backend/internal/domain/identity"
	"github.com/atlaserp/backend/internal/domain/inventory"
	"github.com/atlaserp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultExpirySweepBatch caps how many reservations one sweep run releases
const DefaultExpirySweepBatch = 100

// ReservationService handles stock reservations. Placing a hold and
// bumping the item's reserved quantity happen in one transaction, as does
// every release, so the item mirror never drifts from the reservation rows.
type ReservationService struct {
	txScope        TransactionScope
	gate           identity.PermissionGate
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(txScope TransactionScope, gate identity.PermissionGate, logger *zap.Logger) *ReservationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReservationService{
		txScope: txScope,
		gate:    gate,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReservationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateReservation places a hold on available stock
func (s *ReservationService) CreateReservation(ctx context.Context, tenantID, userID uuid.UUID, req CreateReservationRequest) (*ReservationResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockReserve); err != nil {
		return nil, err
	}

	var reservation *inventory.StockReservation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		item, err := repos.ItemRepo().FindByProductAndLocation(ctx, tenantID, req.ProductID, req.LocationID)
		if err != nil {
			return err
		}
		if err := item.Reserve(req.Quantity); err != nil {
			return err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
			return err
		}

		reservation, err = inventory.NewStockReservation(tenantID, req.ProductID, req.LocationID, req.Quantity, req.Reference, req.ExpiresAt)
		if err != nil {
			return err
		}
		reservation.SetCreatedBy(userID)
		reservation.AddDomainEvent(inventory.NewStockReservedEvent(reservation))

		return repos.ReservationRepo().Save(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, reservation)

	response := ToReservationResponse(reservation)
	return &response, nil
}

// CancelReservation releases a hold by user action, recording the reason
func (s *ReservationService) CancelReservation(ctx context.Context, tenantID, userID, reservationID uuid.UUID, req CancelReservationRequest) (*ReservationResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockReserve); err != nil {
		return nil, err
	}

	var reservation *inventory.StockReservation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		reservation, err = repos.ReservationRepo().FindByIDForTenant(ctx, tenantID, reservationID)
		if err != nil {
			return err
		}
		if err := reservation.Cancel(req.Reason); err != nil {
			return err
		}
		if err := s.releaseOnItem(ctx, repos, reservation); err != nil {
			return err
		}
		return repos.ReservationRepo().Save(ctx, reservation)
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, reservation)

	response := ToReservationResponse(reservation)
	return &response, nil
}

// ReleaseExpired expires overdue active reservations and returns their
// quantities to available. Called periodically by the sweep ticker; each
// reservation releases in its own transaction so one conflict doesn't
// block the rest of the batch.
func (s *ReservationService) ReleaseExpired(ctx context.Context, asOf time.Time) (int, error) {
	var expired []inventory.StockReservation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		expired, err = repos.ReservationRepo().FindExpired(ctx, asOf, DefaultExpirySweepBatch)
		return err
	})
	if err != nil {
		return 0, err
	}

	released := 0
	for idx := range expired {
		reservation := &expired[idx]
		err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			if err := reservation.Expire(); err != nil {
				return err
			}
			if err := s.releaseOnItem(ctx, repos, reservation); err != nil {
				return err
			}
			return repos.ReservationRepo().Save(ctx, reservation)
		})
		if err != nil {
			s.logger.Warn("failed to release expired reservation",
				zap.String("reservation_id", reservation.ID.String()),
				zap.Error(err),
			)
			continue
		}
		s.publishDomainEvents(ctx, reservation)
		released++
	}

	return released, nil
}

// GetReservation retrieves one reservation by ID
func (s *ReservationService) GetReservation(ctx context.Context, tenantID, userID, reservationID uuid.UUID) (*ReservationResponse, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, err
	}

	var reservation *inventory.StockReservation
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		reservation, err = repos.ReservationRepo().FindByIDForTenant(ctx, tenantID, reservationID)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToReservationResponse(reservation)
	return &response, nil
}

// ListReservations lists reservations with filtering and pagination
func (s *ReservationService) ListReservations(ctx context.Context, tenantID, userID uuid.UUID, filter ReservationListFilter) ([]ReservationResponse, int64, error) {
	if err := s.gate.Require(ctx, tenantID, userID, identity.PermStockRead); err != nil {
		return nil, 0, err
	}

	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Reference != "" {
		domainFilter.Filters["reference"] = filter.Reference
	}

	var reservations []inventory.StockReservation
	var total int64
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		reservations, err = repos.ReservationRepo().FindAllForTenant(ctx, tenantID, domainFilter)
		if err != nil {
			return err
		}
		total, err = repos.ReservationRepo().CountForTenant(ctx, tenantID, domainFilter)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	return ToReservationResponses(reservations), total, nil
}

// releaseOnItem returns the reservation's quantity to the item's available
// pool within the current transaction.
func (s *ReservationService) releaseOnItem(ctx context.Context, repos TransactionalRepositories, reservation *inventory.StockReservation) error {
	item, err := repos.ItemRepo().FindByProductAndLocation(ctx, reservation.TenantID, reservation.ProductID, reservation.LocationID)
	if err != nil {
		return err
	}
	if err := item.ReleaseReservation(reservation.Quantity); err != nil {
		return err
	}
	return repos.ItemRepo().SaveWithLock(ctx, item)
}

// publishDomainEvents publishes all pending domain events from the reservation
func (s *ReservationService) publishDomainEvents(ctx context.Context, reservation *inventory.StockReservation) {
	if s.eventPublisher == nil || reservation == nil {
		return
	}
	events := reservation.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	reservation.ClearDomainEvents()
}
