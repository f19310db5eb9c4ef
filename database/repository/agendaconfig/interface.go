package agendaConfigRepo

import (
	"context"

	"agendia/database"
	"agendia/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AgendaConfigRepository persists the singleton working-hours configuration.
type AgendaConfigRepository interface {
	// GetActive returns the active configuration, or nil when none exists.
	GetActive(ctx context.Context) (*models.AgendaConfig, error)
	// Create persists a new configuration document.
	Create(ctx context.Context, cfg *models.AgendaConfig) error
	// Update replaces the fields of an existing configuration in place.
	Update(ctx context.Context, id string, cfg *models.AgendaConfig) error
	// EnsureIndexes creates the index on the active flag.
	EnsureIndexes() error
}

type mongoAgendaConfigRepo struct {
	coll *mongo.Collection
}

// NewMongoAgendaConfigRepo constructs an AgendaConfigRepository backed by the
// agenda_config collection.
func NewMongoAgendaConfigRepo(dbName string) AgendaConfigRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoAgendaConfigRepo{
		coll: db.Collection("agenda_config"),
	}
}
