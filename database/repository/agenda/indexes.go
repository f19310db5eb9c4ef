package agendaRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the agenda collection.
func (repo *mongoAgendaRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		// Unique index on appointment ID
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// Range scans by start time (availability, listing)
		{
			Keys:    bson.D{{Key: "start_time", Value: 1}},
			Options: options.Index().SetName("start_time_idx"),
		},
		// Conflict and day queries filter on status first
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "start_time", Value: 1}},
			Options: options.Index().SetName("status_start_time_idx"),
		},
		// Client history lookup
		{
			Keys:    bson.D{{Key: "client_email", Value: 1}},
			Options: options.Index().SetName("client_email_idx"),
		},
		{
			Keys:    bson.D{{Key: "source", Value: 1}},
			Options: options.Index().SetName("source_idx"),
		},
	}

	_, err := repo.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create agenda indexes: %w", err)
	}
	return nil
}
