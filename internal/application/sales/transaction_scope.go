package sales

import (
	"context"

	"github.com/atlaserp/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the sales repositories.
// The quote-to-order conversion relies on it: the order insert and the
// quote's CONVERTED flip must commit or roll back together.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the sales repositories
// within one transaction.
type TransactionalRepositories interface {
	// QuoteRepo returns the quote repository scoped to the current transaction
	QuoteRepo() sales.QuoteRepository
	// OrderRepo returns the order repository scoped to the current transaction
	OrderRepo() sales.OrderRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful in tests.
type NoOpTransactionScope struct {
	quoteRepo sales.QuoteRepository
	orderRepo sales.OrderRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories
func NewNoOpTransactionScope(quoteRepo sales.QuoteRepository, orderRepo sales.OrderRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{quoteRepo: quoteRepo, orderRepo: orderRepo}
}

// Execute runs the function directly without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// QuoteRepo returns the quote repository
func (s *NoOpTransactionScope) QuoteRepo() sales.QuoteRepository {
	return s.quoteRepo
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() sales.OrderRepository {
	return s.orderRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
