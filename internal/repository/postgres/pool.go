package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ignite/newsletter/internal/service/newsletter"
)

// DefaultAcquireTimeout bounds how long a request waits for a pooled connection.
const DefaultAcquireTimeout = 5 * time.Second

// Pool hands out per-request subscriber repositories, each bound to one
// pooled connection. It implements newsletter.Acquirer.
type Pool struct {
	db             *sql.DB
	acquireTimeout time.Duration
}

// NewPool wraps db. A non-positive timeout selects DefaultAcquireTimeout.
func NewPool(db *sql.DB, acquireTimeout time.Duration) *Pool {
	if acquireTimeout <= 0 {
		acquireTimeout = DefaultAcquireTimeout
	}
	return &Pool{db: db, acquireTimeout: acquireTimeout}
}

// Acquire checks out a connection. Failures are not retried and wrap
// newsletter.ErrUnavailable.
func (p *Pool) Acquire(ctx context.Context) (newsletter.Repository, func(), error) {
	actx, cancel := context.WithTimeout(ctx, p.acquireTimeout)
	defer cancel()

	conn, err := p.db.Conn(actx)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: acquire connection: %w", newsletter.ErrUnavailable, err)
	}
	return NewSubscriberRepo(conn), func() { conn.Close() }, nil
}

// Ping reports whether the database answers.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Stats exposes the pool counters; the health check reports them.
func (p *Pool) Stats() sql.DBStats {
	return p.db.Stats()
}
