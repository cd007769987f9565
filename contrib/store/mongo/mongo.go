package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sweetpotato0/questflow/config"
	"github.com/sweetpotato0/questflow/document"
	"github.com/sweetpotato0/questflow/errors"
	"github.com/sweetpotato0/questflow/quest"
	"github.com/sweetpotato0/questflow/store"
)

// Store implements store.Store using MongoDB
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// Config holds MongoDB connection configuration
type Config struct {
	URI        string
	Database   string
	Collection string
}

// DefaultConfig returns default MongoDB configuration
func DefaultConfig() *Config {
	return &Config{
		URI:        "mongodb://localhost:27017",
		Database:   "questflow",
		Collection: "documents",
	}
}

// mongoDocument is the internal representation for MongoDB
type mongoDocument struct {
	ID           string         `bson:"_id"`
	Category     string         `bson:"category"`
	Content      string         `bson:"content"`
	Metadata     map[string]any `bson:"metadata"`
	QualityScore float64        `bson:"quality_score"`
	CreatedAt    time.Time      `bson:"created_at"`
}

// New creates a new MongoDB-backed document store
func New(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := config.ValidateMongoDBConfig(cfg.URI, cfg.Database, cfg.Collection); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save implements store.Store. The document identifier doubles as the Mongo
// _id, so a duplicate insert fails instead of overwriting.
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

	_, err := s.collection.InsertOne(ctx, mongoDocument{
		ID:           doc.ID,
		Category:     string(doc.Category),
		Content:      doc.Content,
		Metadata:     doc.Metadata,
		QualityScore: doc.QualityScore,
		CreatedAt:    doc.CreatedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("%w: document %s", errors.ErrAlreadyExists, doc.ID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to insert document: %w", err)
	}
	return doc.ID, nil
}

// Get implements store.Store
func (s *Store) Get(ctx context.Context, id string) (document.Document, error) {
	var raw mongoDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		return document.Document{}, fmt.Errorf("%w: document %s", errors.ErrNotFound, id)
	}
	if err != nil {
		return document.Document{}, fmt.Errorf("failed to query document: %w", err)
	}

	return document.Document{
		ID:           raw.ID,
		Category:     quest.Category(raw.Category),
		Content:      raw.Content,
		Metadata:     raw.Metadata,
		QualityScore: raw.QualityScore,
		CreatedAt:    raw.CreatedAt,
	}, nil
}

// Close disconnects from MongoDB
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
