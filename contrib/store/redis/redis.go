package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sweetpotato0/questflow/config"
	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/store"
)

// Store implements store.Store using Redis
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

var _ store.Store = (*Store)(nil)

// Config holds Redis configuration
type Config struct {
	Addr     string        // Redis server address (e.g., "localhost:6379")
	Password string        // Redis password (if any)
	DB       int           // Redis database number
	Prefix   string        // Key prefix for namespacing
	TTL      time.Duration // Time-to-live for keys (0 means no expiration)
}

// DefaultConfig returns default Redis configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:   "localhost:6379",
		Prefix: "questflow:document:",
	}
}

// New creates a new Redis-backed document store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := config.ValidateRedisConfig(cfg.Addr, cfg.DB, cfg.Prefix); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Store{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

// Save implements store.Store. SET NX keeps existing documents intact: a
// second save under the same identifier is rejected, never overwritten.
func (s *Store) Save(ctx context.Context, doc document.Document) (string, error) {
	if doc.Content == "" {
		return "", fmt.Errorf("%w: document content cannot be empty", errors.ErrInvalidInput)
	}
	if doc.ID == "" {
		now := time.Now()
		doc.ID = document.NewID(doc.Category, now)
		if doc.CreatedAt.IsZero() {
			doc.CreatedAt = now
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal document: %w", err)
	}

	set, err := s.client.SetNX(ctx, s.key(doc.ID), data, s.ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store document: %w", err)
	}
	if !set {
		return "", fmt.Errorf("%w: document %s", errors.ErrAlreadyExists, doc.ID)
	}
	return doc.ID, nil
}

// Get implements store.Store
func (s *Store) Get(ctx context.Context, id string) (document.Document, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err == redis.Nil {
		return document.Document{}, fmt.Errorf("%w: document %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to fetch document: %w", err)
	}

	var doc document.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document.Document{}, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	return doc, nil
}

// Close releases the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}
