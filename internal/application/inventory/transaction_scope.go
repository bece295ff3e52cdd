package inventory

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or roll
// back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the ledger repositories
// within one transaction. All repositories returned share the same
// underlying database transaction.
//
// Aggregate boundary notes:
//   - ItemRepo: the StockItem aggregate; all quantity changes go through it
//     under optimistic locking.
//   - MovementRepo: append-only journal, written in the same transaction as
//     the item update so quantity and history never diverge.
//   - BatchRepo: lot rows refining the item total; allocations mutate them
//     alongside the item.
//   - ReservationRepo: reservation rows whose ACTIVE sum is mirrored in the
//     item's reserved quantity.
type TransactionalRepositories interface {
	// ItemRepo returns the stock item repository scoped to the current transaction
	ItemRepo() inventory.StockItemRepository
	// MovementRepo returns the movement repository scoped to the current transaction
	MovementRepo() inventory.StockMovementRepository
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() inventory.StockBatchRepository
	// ReservationRepo returns the reservation repository scoped to the current transaction
	ReservationRepo() inventory.StockReservationRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful in tests.
type NoOpTransactionScope struct {
	itemRepo        inventory.StockItemRepository
	movementRepo    inventory.StockMovementRepository
	batchRepo       inventory.StockBatchRepository
	reservationRepo inventory.StockReservationRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(
	itemRepo inventory.StockItemRepository,
	movementRepo inventory.StockMovementRepository,
	batchRepo inventory.StockBatchRepository,
	reservationRepo inventory.StockReservationRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:        itemRepo,
		movementRepo:    movementRepo,
		batchRepo:       batchRepo,
		reservationRepo: reservationRepo,
	}
}

// Execute runs the function directly without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the stock item repository
func (s *NoOpTransactionScope) ItemRepo() inventory.StockItemRepository {
	return s.itemRepo
}

// MovementRepo returns the movement repository
func (s *NoOpTransactionScope) MovementRepo() inventory.StockMovementRepository {
	return s.movementRepo
}

// BatchRepo returns the batch repository
func (s *NoOpTransactionScope) BatchRepo() inventory.StockBatchRepository {
	return s.batchRepo
}

// ReservationRepo returns the reservation repository
func (s *NoOpTransactionScope) ReservationRepo() inventory.StockReservationRepository {
	return s.reservationRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
