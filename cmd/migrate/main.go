package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"github.com/ignite/newsletter/internal/pkg/distlock"
	"github.com/ignite/newsletter/internal/repository/postgres"
	"github.com/ignite/newsletter/migrations"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run applies pending migrations and returns the process exit code.
func run(args []string) int {
	_ = godotenv.Load()

	flags := flag.NewFlagSet("migrate", flag.ContinueOnError)
	dir := flags.String("dir", "", "read migrations from this directory instead of the embedded set")
	listOnly := flags.Bool("list", false, "list migration files and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	var files fs.FS = migrations.FS
	if *dir != "" {
		files = os.DirFS(*dir)
	}

	if *listOnly {
		names, err := fs.Glob(files, "*.sql")
		if err != nil {
			log.Print(err)
			return 1
		}
		for _, n := range names {
			fmt.Println(" ", n)
		}
		fmt.Printf("Total: %d migrations\n", len(names))
		return 0
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Print("DATABASE_URL is required")
		return 1
	}

	db, err := postgres.Open(dsn, postgres.PoolOptions{MaxOpenConns: 2})
	if err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Printf("ping: %v", err)
		return 1
	}
	log.Printf("Connected to database at ...@%s/...", postgres.HostOf(dsn))

	var redisClient *redis.Client
	if u := os.Getenv("REDIS_URL"); u != "" {
		opts, err := redis.ParseURL(u)
		if err != nil {
			log.Printf("REDIS_URL: %v", err)
			return 1
		}
		redisClient = redis.NewClient(opts)
		defer redisClient.Close()
	}

	lock := distlock.NewLock(redisClient, db, postgres.MigrationLockKey, 5*time.Minute)
	applied, err := postgres.Migrate(ctx, db, files, lock)
	for _, v := range applied {
		log.Printf("  ✓ %s", v)
	}
	if err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}
	log.Printf("Done: %d applied", len(applied))
	return 0
}
