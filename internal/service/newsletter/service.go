package newsletter

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/ignite/newsletter/internal/domain"
)

// Service implements newsletter business logic. It is safe for concurrent use:
// the only state it holds is the immutable admin token and token generator.
type Service struct {
	adminToken string
	newToken   TokenGenerator
}

// Option customizes a Service.
type Option func(*Service)

// WithTokenGenerator replaces the default UUID token generator.
func WithTokenGenerator(g TokenGenerator) Option {
	return func(s *Service) {
		if g != nil {
			s.newToken = g
		}
	}
}

// NewService creates a newsletter service guarded by the given admin token.
func NewService(adminToken string, opts ...Option) *Service {
	s := &Service{adminToken: adminToken, newToken: NewToken}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AuthorizeAdmin reports whether the presented token is the admin token.
// An unconfigured admin token never matches.
func (s *Service) AuthorizeAdmin(presented string) error {
	if s.adminToken == "" ||
		subtle.ConstantTimeCompare([]byte(presented), []byte(s.adminToken)) != 1 {
		return ErrInvalidAdminToken
	}
	return nil
}

// AddSubscriber registers email with a freshly generated token and returns
// the stored record. Every insert failure is reported as ErrAlreadyRegistered;
// the underlying cause stays reachable through errors.Unwrap for logging.
func (s *Service) AddSubscriber(ctx context.Context, repo Repository, email string) (*domain.Subscriber, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidEmail
	}

	token := s.newToken()
	if err := repo.Create(ctx, email, token); err != nil {
		if errors.Is(err, ErrAlreadyRegistered) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrAlreadyRegistered, err)
	}

	// Read the row back to learn its id. A concurrent insert may have
	// landed after ours, so fall back to the email lookup.
	sub, err := repo.Latest(ctx)
	if err != nil || sub.Email != email || sub.Token != token {
		sub, err = repo.FindByEmail(ctx, email)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read back subscriber: %w", ErrInternal, err)
	}
	return sub, nil
}

// RemoveSubscriber deletes the subscriber identified by email once token is
// proven to be theirs. Unknown emails yield ErrNotFound and never
// ErrForbidden: the email is not a secret, the token is.
func (s *Service) RemoveSubscriber(ctx context.Context, repo Repository, email, token string) error {
	sub, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}

	if subtle.ConstantTimeCompare([]byte(sub.Token), []byte(token)) != 1 {
		return ErrForbidden
	}

	if err := repo.DeleteByEmail(ctx, sub.Email); err != nil {
		if errors.Is(err, ErrNotFound) {
			// Removed concurrently between lookup and delete.
			return err
		}
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

// ListSubscribers returns every subscriber when adminToken matches. A wrong
// token is rejected before the store is touched.
func (s *Service) ListSubscribers(ctx context.Context, repo Repository, adminToken string) ([]domain.Subscriber, error) {
	if err := s.AuthorizeAdmin(adminToken); err != nil {
		return nil, err
	}

	subs, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if subs == nil {
		subs = []domain.Subscriber{}
	}
	return subs, nil
}

// GetSubscriber returns the subscriber with the given email when adminToken
// matches.
func (s *Service) GetSubscriber(ctx context.Context, repo Repository, adminToken, email string) (*domain.Subscriber, error) {
	if err := s.AuthorizeAdmin(adminToken); err != nil {
		return nil, err
	}

	sub, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return sub, nil
}

// ExportSubscribers writes a snapshot of every subscriber to the archive.
func (s *Service) ExportSubscribers(ctx context.Context, repo Repository, archive Archiver, adminToken string) (*domain.Export, error) {
	subs, err := s.ListSubscribers(ctx, repo, adminToken)
	if err != nil {
		return nil, err
	}

	export, err := archive.SaveSnapshot(ctx, subs)
	if err != nil {
		return nil, fmt.Errorf("%w: save snapshot: %w", ErrInternal, err)
	}
	return export, nil
}
