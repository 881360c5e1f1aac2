package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ignite/newsletter/internal/api"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/frontend"
	"github.com/ignite/newsletter/internal/pkg/distlock"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/pkg/metrics"
	"github.com/ignite/newsletter/internal/repository/memory"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/internal/service/newsletter"
	"github.com/ignite/newsletter/internal/storage"
	"github.com/ignite/newsletter/migrations"
	"github.com/redis/go-redis/v9"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("address %s is already in use: %v", addr, err)
	}
	ln.Close()
	return nil
}

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.yaml"
}

// connectRedis returns nil when Redis is not configured or unreachable;
// migrations then lock through PostgreSQL instead.
func connectRedis(ctx context.Context, redisURL string) *redis.Client {
	if redisURL == "" {
		log.Println("Redis not configured (REDIS_URL not set), using PG advisory locks")
		return nil
	}
	opts, err := redis.ParseURL(redisURL)
	var client *redis.Client
	if err != nil {
		client = redis.NewClient(&redis.Options{Addr: redisURL})
	} else {
		client = redis.NewClient(opts)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v, falling back to PG advisory locks", err)
		client.Close()
		return nil
	}
	log.Println("Redis connected (distributed locking enabled)")
	return client
}

func main() {
	cfg, err := config.LoadFromEnv(configPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	level, ok := logger.ParseLevel(cfg.Log.Level)
	if !ok {
		log.Printf("Unknown log level %q, using INFO", cfg.Log.Level)
	}
	logger.SetLevel(level)
	logger.SetRedactPII(!cfg.Log.DisableRedaction)

	addr := cfg.Server.Addr()
	if err := checkPortAvailable(addr); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := connectRedis(ctx, cfg.Redis.URL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Subscriber store
	var (
		store    newsletter.Acquirer
		dbPinger api.Pinger
	)
	switch cfg.Database.Driver {
	case config.DriverMemory:
		log.Println("Using in-memory subscriber store (data is lost on restart)")
		mem := memory.NewStore()
		store, dbPinger = mem, mem

	default:
		log.Printf("Connecting to PostgreSQL at ...@%s/...", postgres.HostOf(cfg.Database.URL))
		db, err := postgres.Open(cfg.Database.URL, postgres.PoolOptions{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime(),
		})
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			// Requests answer 503 until the database comes back.
			log.Printf("Warning: database ping failed: %v", err)
		}
		pingCancel()

		if cfg.Database.AutoMigrate {
			runMigrations(ctx, db, redisClient)
		}

		pool := postgres.NewPool(db, cfg.Database.AcquireTimeout())
		store, dbPinger = pool, pool
	}

	// Export archive
	archive, err := storage.New(ctx, cfg.Archive)
	if err != nil {
		log.Fatalf("Failed to initialize archive: %v", err)
	}
	log.Printf("Export archive: %s", archive.Backend())

	health := api.NewHealthChecker(dbPinger, redisClient, archive)

	server := api.NewServer(cfg.Server, api.Dependencies{
		Service: newsletter.NewService(cfg.Newsletter.AdminToken),
		Store:   store,
		Archive: archive,
		Health:  health,
		Frontend: frontend.New(frontend.Config{
			TemplateDir: cfg.Frontend.TemplateDir,
			StaticDir:   cfg.Frontend.StaticDir,
		}),
		Metrics: metrics.NewRegistry(),
	})

	// Setup graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout())
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

func runMigrations(ctx context.Context, db *sql.DB, redisClient *redis.Client) {
	lock := distlock.NewLock(redisClient, db, postgres.MigrationLockKey, 5*time.Minute)

	migCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	applied, err := postgres.Migrate(migCtx, db, migrations.FS, lock)
	if err != nil {
		log.Fatalf("Migrations failed: %v", err)
	}
	log.Printf("Migrations up to date (%d applied)", len(applied))
}
