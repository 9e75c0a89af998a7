// Package chatlog writes the per-request interaction records to the
// document store. Writes are insert-only and best-effort: callers log a
// failure to operator diagnostics and otherwise ignore it, and nothing
// in this service ever reads the records back.
package chatlog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hdb-analytics/resale-chatbot/internal/model"
)

const (
	successCollection = "chat_logs"
	failureCollection = "failed_queries"

	// StatusPendingReview marks a failed query awaiting human inspection.
	StatusPendingReview = "pending_review"

	opTimeout = 10 * time.Second
)

// SuccessRecord is written once per successfully answered request.
type SuccessRecord struct {
	UserID    string           `bson:"user_id"`
	Message   string           `bson:"message"`
	Intent    model.IntentKind `bson:"intent"`
	Filters   model.FilterSet  `bson:"filters"`
	Answer    string           `bson:"answer"`
	DataType  model.IntentKind `bson:"data_type"`
	DataCount int              `bson:"data_count"`
	CreatedAt time.Time        `bson:"created_at"`
	Success   bool             `bson:"success"`
}

// FailureRecord is written once per failed request, flagged for review.
type FailureRecord struct {
	UserID       string           `bson:"user_id"`
	Message      string           `bson:"message"`
	Intent       model.IntentKind `bson:"intent"`
	Filters      model.FilterSet  `bson:"filters"`
	ErrorMessage string           `bson:"error_message"`
	CreatedAt    time.Time        `bson:"created_at"`
	Status       string           `bson:"status"`
}

// Store connects per call and disconnects when the write is done; no
// client outlives a single operation. An empty URI disables the store
// entirely, which is not an error.
type Store struct {
	uri    string
	dbName string
}

func NewStore(uri, dbName string) *Store {
	return &Store{uri: uri, dbName: dbName}
}

// LogSuccess inserts into chat_logs.
func (s *Store) LogSuccess(ctx context.Context, rec SuccessRecord) error {
	return s.insert(ctx, successCollection, rec)
}

// LogFailure inserts into failed_queries.
func (s *Store) LogFailure(ctx context.Context, rec FailureRecord) error {
	return s.insert(ctx, failureCollection, rec)
}

func (s *Store) insert(ctx context.Context, collection string, doc interface{}) error {
	if s.uri == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("mongo connect failed: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	if _, err := client.Database(s.dbName).Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert into %s failed: %w", collection, err)
	}
	return nil
}

// Ping verifies connectivity for the diagnostics endpoint, using the
// same scoped connect-and-release discipline as the writes.
func (s *Store) Ping(ctx context.Context) error {
	if s.uri == "" {
		return fmt.Errorf("MONGODB_URI not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return fmt.Errorf("mongo connect failed: %w", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	return client.Ping(ctx, readpref.Primary())
}
