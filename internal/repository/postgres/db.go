package postgres

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PoolOptions sizes the database/sql connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Open opens a pooled PostgreSQL handle. It does not dial; callers ping.
func Open(dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", WithConnectTimeout(dsn, 5))
	if err != nil {
		return nil, err
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}
	db.SetConnMaxIdleTime(30 * time.Second)
	return db, nil
}

// WithConnectTimeout appends connect_timeout to a URL-style DSN unless one
// is already present. Key/value DSNs are returned unchanged.
func WithConnectTimeout(dsn string, seconds int) string {
	if !strings.Contains(dsn, "://") || strings.Contains(dsn, "connect_timeout") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "connect_timeout=" + strconv.Itoa(seconds)
}

// HostOf returns the host portion of a URL-style DSN for logging without
// credentials.
func HostOf(dsn string) string {
	at := strings.Index(dsn, "@")
	if at < 0 {
		return "(unknown)"
	}
	rest := dsn[at+1:]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[:slash]
	}
	return rest
}
