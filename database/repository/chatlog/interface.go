package chatlogRepo

import (
	"context"

	"agendia/database"
	"agendia/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// ChatLogRepository records web-chat exchanges for later review.
type ChatLogRepository interface {
	// Insert appends one exchange to the log.
	Insert(ctx context.Context, msg *models.ChatMessage) error
	// RecentBySession returns the latest messages for a session, newest first.
	RecentBySession(ctx context.Context, sessionID string, limit int64) ([]models.ChatMessage, error)
	// EnsureIndexes creates the session/timestamp indexes.
	EnsureIndexes() error
}

type mongoChatLogRepo struct {
	coll *mongo.Collection
}

// NewMongoChatLogRepo constructs a ChatLogRepository backed by the
// chat_messages collection.
func NewMongoChatLogRepo(dbName string) ChatLogRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoChatLogRepo{
		coll: db.Collection("chat_messages"),
	}
}
