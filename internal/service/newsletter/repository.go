package newsletter

import (
	"context"

	"github.com/ignite/newsletter/internal/domain"
)

// Repository defines the data access contract for newsletter subscribers.
type Repository interface {
	// Create inserts a subscriber. Returns ErrAlreadyRegistered when the
	// store rejects the email as a duplicate.
	Create(ctx context.Context, email, token string) error

	// Latest returns the most recently inserted subscriber. Returns
	// ErrNotFound when the store is empty.
	Latest(ctx context.Context) (*domain.Subscriber, error)

	// FindByEmail returns the subscriber with exactly this email
	// (case-sensitive). Returns ErrNotFound if it doesn't exist.
	FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error)

	// DeleteByEmail removes the subscriber. Returns ErrNotFound if no row
	// matched.
	DeleteByEmail(ctx context.Context, email string) error

	// List returns every subscriber.
	List(ctx context.Context) ([]domain.Subscriber, error)
}

// Acquirer hands out a store handle scoped to a single request. The returned
// release func must be called once the operation is done. Acquisition
// failures wrap ErrUnavailable.
type Acquirer interface {
	Acquire(ctx context.Context) (Repository, func(), error)
}

// Archiver persists a snapshot of the subscriber list.
type Archiver interface {
	SaveSnapshot(ctx context.Context, subscribers []domain.Subscriber) (*domain.Export, error)
}
