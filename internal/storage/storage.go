// Package storage writes subscriber export snapshots to a local directory or
// to S3, depending on archive configuration.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/ignite/newsletter/internal/config"
	"github.com/ignite/newsletter/internal/domain"
)

// Snapshot is the document written for each export.
type Snapshot struct {
	CreatedAt   time.Time           `json:"created_at"`
	Count       int                 `json:"count"`
	Subscribers []domain.Subscriber `json:"subscribers"`
}

// Storage implements newsletter.Archiver.
type Storage struct {
	config config.ArchiveConfig
	now    func() time.Time

	// AWS storage (nil for the local backend)
	aws *AWSStorage
}

// New creates the archive backend selected by cfg.Type.
func New(ctx context.Context, cfg config.ArchiveConfig) (*Storage, error) {
	s := &Storage{config: cfg, now: time.Now}

	switch cfg.Type {
	case config.ArchiveS3:
		awsStorage, err := NewAWSStorage(ctx, cfg.S3Bucket, cfg.AWSRegion, cfg.GetAWSProfile())
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		s.aws = awsStorage

	case config.ArchiveLocal:
		if err := os.MkdirAll(cfg.LocalPath, 0755); err != nil {
			return nil, fmt.Errorf("creating storage directory: %w", err)
		}

	default:
		return nil, fmt.Errorf("unknown archive type %q", cfg.Type)
	}

	return s, nil
}

// Backend names the active backend for health reporting.
func (s *Storage) Backend() string {
	if s.aws != nil {
		return config.ArchiveS3
	}
	return config.ArchiveLocal
}

// SaveSnapshot writes every subscriber to a new, uniquely named object.
func (s *Storage) SaveSnapshot(ctx context.Context, subscribers []domain.Subscriber) (*domain.Export, error) {
	if subscribers == nil {
		subscribers = []domain.Subscriber{}
	}
	created := s.now().UTC()
	snap := Snapshot{CreatedAt: created, Count: len(subscribers), Subscribers: subscribers}
	key := s.snapshotKey(created)

	var err error
	if s.aws != nil {
		err = s.aws.SaveToS3(ctx, key, snap)
	} else {
		err = s.saveToFile(key, snap)
	}
	if err != nil {
		return nil, fmt.Errorf("save snapshot %s: %w", key, err)
	}

	return &domain.Export{Key: key, Count: snap.Count, CreatedAt: created}, nil
}

// Ping reports whether the backend is writable/reachable.
func (s *Storage) Ping(ctx context.Context) error {
	if s.aws != nil {
		return s.aws.Ping(ctx)
	}
	info, err := os.Stat(s.config.LocalPath)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", s.config.LocalPath)
	}
	return nil
}

func (s *Storage) snapshotKey(t time.Time) string {
	name := fmt.Sprintf("subscribers-%s-%s.json", t.Format("20060102T150405Z"), uuid.NewString()[:8])
	if s.aws != nil && s.config.S3Prefix != "" {
		return path.Join(s.config.S3Prefix, name)
	}
	return name
}

// saveToFile saves data to a JSON file under the local path
func (s *Storage) saveToFile(key string, data interface{}) error {
	// Sanitize key for filename
	p := filepath.Join(s.config.LocalPath, filepath.Base(key))

	file, err := os.Create(p)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
