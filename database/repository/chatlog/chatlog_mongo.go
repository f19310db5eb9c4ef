package chatlogRepo

import (
	"context"
	"fmt"
	"time"

	"agendia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// Insert appends one exchange to the log.
func (repo *mongoChatLogRepo) Insert(ctx context.Context, msg *models.ChatMessage) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, msg); err != nil {
		return fmt.Errorf("error logging chat message: %w", err)
	}
	return nil
}

// RecentBySession returns the latest messages for a session, newest first.
func (repo *mongoChatLogRepo) RecentBySession(ctx context.Context, sessionID string, limit int64) ([]models.ChatMessage, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)
	cursor, err := repo.coll.Find(ctxWithTimeout, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying chat history: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var msgs []models.ChatMessage
	if err := cursor.All(ctxWithTimeout, &msgs); err != nil {
		return nil, fmt.Errorf("error decoding chat history: %w", err)
	}
	return msgs, nil
}

// EnsureIndexes creates the session/timestamp indexes.
func (repo *mongoChatLogRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "session_id", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("session_timestamp_idx"),
		},
		{
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("timestamp_idx"),
		},
	}
	if _, err := repo.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create chat_messages indexes: %w", err)
	}
	return nil
}
