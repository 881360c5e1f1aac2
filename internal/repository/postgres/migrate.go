package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/ignite/newsletter/internal/pkg/distlock"
	"github.com/ignite/newsletter/internal/pkg/logger"
)

// MigrationLockKey names the lock that serializes migrations across replicas.
const MigrationLockKey = "newsletter:migrations"

// Migrate applies every *.sql file in migrations that is not yet recorded in
// schema_migrations, in lexical order, one transaction per file. The whole
// run happens under lock. It returns the names of the files applied.
func Migrate(ctx context.Context, db *sql.DB, migrations fs.FS, lock distlock.DistLock) ([]string, error) {
	var applied []string
	err := distlock.WithLock(ctx, lock, 500*time.Millisecond, func(ctx context.Context) error {
		var err error
		applied, err = migrate(ctx, db, migrations)
		return err
	})
	return applied, err
}

func migrate(ctx context.Context, db *sql.DB, migrations fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	done := map[string]bool{}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		done[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	var applied []string
	for _, name := range files {
		version := strings.TrimSuffix(name, ".sql")
		if done[version] {
			continue
		}
		body, err := fs.ReadFile(migrations, name)
		if err != nil {
			return applied, fmt.Errorf("read %s: %w", name, err)
		}
		if err := applyOne(ctx, db, version, string(body)); err != nil {
			return applied, fmt.Errorf("apply %s: %w", name, err)
		}
		logger.Info("migration applied", "version", version)
		applied = append(applied, version)
	}
	return applied, nil
}

func applyOne(ctx context.Context, db *sql.DB, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return err
	}
	return tx.Commit()
}
