package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/sweetpotato0/questflow/config"
	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/store"
)

// Store implements store.Store using PostgreSQL
type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

// Config holds PostgreSQL connection configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DefaultConfig returns default PostgreSQL configuration
func DefaultConfig() *Config {
	return &Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		DBName:   "questflow",
		SSLMode:  "disable",
	}
}

// New creates a new PostgreSQL-backed document store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := config.ValidatePostgresConfig(cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode); err != nil {
		return nil, err
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	s := &Store{db: db}
	if err := s.createTable(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		id VARCHAR(255) PRIMARY KEY,
		category VARCHAR(64) NOT NULL,
		content TEXT NOT NULL,
		metadata JSONB,
		quality_score DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_documents_category ON documents(category);
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// Save implements store.Store. An insert that collides with an existing
// identifier is rejected; stored documents are never overwritten.
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

	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return "", fmt.Errorf("failed to marshal metadata: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, category, content, metadata, quality_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`,
		doc.ID, string(doc.Category), doc.Content, metadata, doc.QualityScore, doc.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("failed to read insert result: %w", err)
	}
	if rows == 0 {
		return "", fmt.Errorf("%w: document %s", errors.ErrAlreadyExists, doc.ID)
	}
	return doc.ID, nil
}

// Get implements store.Store
func (s *Store) Get(ctx context.Context, id string) (document.Document, error) {
	var (
		doc      document.Document
		category string
		metadata []byte
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category, content, metadata, quality_score, created_at
		FROM documents WHERE id = $1`, id).
		Scan(&doc.ID, &category, &doc.Content, &metadata, &doc.QualityScore, &doc.CreatedAt)
	if err == sql.ErrNoRows {
		return document.Document{}, fmt.Errorf("%w: document %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to query document: %w", err)
	}

	doc.Category = quest.Category(category)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &doc.Metadata); err != nil {
			return document.Document{}, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return doc, nil
}

// Close releases the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
