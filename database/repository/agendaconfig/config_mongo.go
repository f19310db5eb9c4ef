package agendaConfigRepo

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

// GetActive fetches the one active configuration document, or nil when the
// agenda has not been initialized yet.
func (repo *mongoAgendaConfigRepo) GetActive(ctx context.Context) (*models.AgendaConfig, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var cfg models.AgendaConfig
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"active": true}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching active agenda configuration: %w", err)
	}
	return &cfg, nil
}

// Create inserts a new configuration document.
func (repo *mongoAgendaConfigRepo) Create(ctx context.Context, cfg *models.AgendaConfig) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, cfg); err != nil {
		return fmt.Errorf("error creating agenda configuration: %w", err)
	}
	return nil
}

// Update replaces the fields of an existing configuration document.
func (repo *mongoAgendaConfigRepo) Update(ctx context.Context, id string, cfg *models.AgendaConfig) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": id}
	update := bson.M{"$set": cfg}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, filter, update)
	if err != nil {
		return fmt.Errorf("error updating agenda configuration %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("agenda configuration %s not found", id)
	}
	return nil
}

// EnsureIndexes creates the index on the active flag.
func (repo *mongoAgendaConfigRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "active", Value: 1}},
		Options: options.Index().SetName("active_idx"),
	})
	if err != nil {
		return fmt.Errorf("failed to create agenda_config indexes: %w", err)
	}
	return nil
}
