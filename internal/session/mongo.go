package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/markjakearzadon/rxmate-checkout/internal/models"
)

const sessionsCollection = "checkout_sessions"

type mongoRecord struct {
	SessionID string                    `bson:"session_id"`
	Context   models.TransactionContext `bson:"context"`
	UpdatedAt time.Time                 `bson:"updated_at"`
	ExpiresAt time.Time                 `bson:"expires_at"`
}

// MongoStore keeps one document per session in the checkout_sessions collection.
type MongoStore struct {
	collection *mongo.Collection
	ttl        time.Duration
}

func NewMongoStore(db *mongo.Database, ttl time.Duration) *MongoStore {
	return &MongoStore{collection: db.Collection(sessionsCollection), ttl: ttl}
}

// EnsureIndexes creates the lookup index and the TTL index that lets MongoDB
// expire abandoned checkouts.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "session_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (s *MongoStore) Save(ctx context.Context, sessionID string, tc models.TransactionContext) error {
	now := time.Now()
	record := mongoRecord{
		SessionID: sessionID,
		Context:   tc,
		UpdatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"session_id": sessionID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save transaction context: %w", err)
	}
	return nil
}

func (s *MongoStore) Load(ctx context.Context, sessionID string) (*models.TransactionContext, error) {
	var record mongoRecord
	err := s.collection.FindOne(ctx, bson.M{"session_id": sessionID}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction context: %w", err)
	}
	if time.Now().After(record.ExpiresAt) {
		return nil, ErrNotFound
	}
	return &record.Context, nil
}

func (s *MongoStore) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"session_id": sessionID}); err != nil {
		return fmt.Errorf("failed to clear transaction context: %w", err)
	}
	return nil
}
