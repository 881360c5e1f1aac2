// Package memory provides an in-process subscriber store for local
// development (database.driver: memory) and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/newsletter"
)

// Store implements newsletter.Repository and newsletter.Acquirer in memory.
// Emails are unique and compared exactly; ids increase monotonically and
// are never reused.
type Store struct {
	mu     sync.RWMutex
	byMail map[string]domain.Subscriber
	lastID int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{byMail: make(map[string]domain.Subscriber)}
}

// Acquire returns the store itself. Acquisition never fails.
func (s *Store) Acquire(context.Context) (newsletter.Repository, func(), error) {
	return s, func() {}, nil
}

func (s *Store) Create(_ context.Context, email, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byMail[email]; ok {
		return fmt.Errorf("insert subscriber: %w", newsletter.ErrAlreadyRegistered)
	}
	s.lastID++
	s.byMail[email] = domain.Subscriber{ID: s.lastID, Email: email, Token: token}
	return nil
}

func (s *Store) Latest(context.Context) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *domain.Subscriber
	for _, sub := range s.byMail {
		if latest == nil || sub.ID > latest.ID {
			cp := sub
			latest = &cp
		}
	}
	if latest == nil {
		return nil, newsletter.ErrNotFound
	}
	return latest, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.byMail[email]
	if !ok {
		return nil, newsletter.ErrNotFound
	}
	return &sub, nil
}

func (s *Store) DeleteByEmail(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byMail[email]; !ok {
		return newsletter.ErrNotFound
	}
	delete(s.byMail, email)
	return nil
}

// List returns every subscriber ordered by id.
func (s *Store) List(context.Context) ([]domain.Subscriber, error) {
	s.mu.RLock()
	items := make([]domain.Subscriber, 0, len(s.byMail))
	for _, sub := range s.byMail {
		items = append(items, sub)
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }
