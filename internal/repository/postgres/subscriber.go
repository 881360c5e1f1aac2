package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/lib/pq"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a UNIQUE constraint failure.
const uniqueViolation = "23505"

// Querier is the subset of *sql.DB, *sql.Conn and *sql.Tx the repository uses.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SubscriberRepo implements newsletter.Repository against PostgreSQL.
type SubscriberRepo struct{ q Querier }

// NewSubscriberRepo creates a Postgres-backed subscriber repository.
func NewSubscriberRepo(q Querier) *SubscriberRepo { return &SubscriberRepo{q: q} }

func (r *SubscriberRepo) Create(ctx context.Context, email, token string) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO newsletter_users (email, token) VALUES ($1, $2)`, email, token)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("insert subscriber: %w: %w", newsletter.ErrAlreadyRegistered, err)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

func (r *SubscriberRepo) Latest(ctx context.Context) (*domain.Subscriber, error) {
	return r.scanOne(ctx, "latest subscriber", `
		SELECT id, email, token
		FROM newsletter_users
		ORDER BY id DESC
		LIMIT 1
	`)
}

func (r *SubscriberRepo) FindByEmail(ctx context.Context, email string) (*domain.Subscriber, error) {
	return r.scanOne(ctx, "find subscriber", `
		SELECT id, email, token
		FROM newsletter_users
		WHERE email = $1
		LIMIT 1
	`, email)
}

func (r *SubscriberRepo) scanOne(ctx context.Context, op, query string, args ...any) (*domain.Subscriber, error) {
	s := &domain.Subscriber{}
	err := r.q.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.Email, &s.Token)
	if err == sql.ErrNoRows {
		return nil, newsletter.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

func (r *SubscriberRepo) DeleteByEmail(ctx context.Context, email string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM newsletter_users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	if n == 0 {
		return newsletter.ErrNotFound
	}
	return nil
}

func (r *SubscriberRepo) List(ctx context.Context) ([]domain.Subscriber, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, email, token
		FROM newsletter_users
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var items []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.Token); err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	return items, nil
}
