package agendaRepo

import (
	"context"

	"agendia/database"
	"agendia/models"

	"go.mongodb.org/mongo-driver/mongo"
)

// AgendaRepository defines the data access methods used by the scheduling engine.
type AgendaRepository interface {
	// RunTransaction executes fn inside a store transaction. Mutations and
	// reads performed with the callback's context are serialized against
	// concurrent transactions on the same collection.
	RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Insert persists a new appointment document.
	Insert(ctx context.Context, appt *models.Appointment) error
	// GetByID retrieves an appointment, or nil when the id is unknown.
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// FindConfirmedOverlapping returns confirmed appointments whose
	// [start_time, end_time) intersects [start, end).
	FindConfirmedOverlapping(ctx context.Context, start, end int64) ([]models.Appointment, error)
	// FindConfirmedStartingBetween returns confirmed appointments with
	// start_time in [from, to], ascending.
	FindConfirmedStartingBetween(ctx context.Context, from, to int64) ([]models.Appointment, error)
	// FindStartingBetween returns appointments with start_time in [from, to],
	// optionally filtered by status and source, ascending.
	FindStartingBetween(ctx context.Context, from, to int64, status, source string) ([]models.Appointment, error)
	// FindByClientEmail returns all appointments for a normalized email,
	// most recent start first.
	FindByClientEmail(ctx context.Context, email string) ([]models.Appointment, error)
	// MarkCancelled transitions an appointment to cancelled and stamps the
	// cancellation fields.
	MarkCancelled(ctx context.Context, id, reason string, at int64) error
	// UpdateStatus overwrites the status field and the updated_at stamp.
	UpdateStatus(ctx context.Context, id, status string, at int64) error
	// EnsureIndexes creates the indexes backing the queries above.
	EnsureIndexes() error
}

type mongoAgendaRepo struct {
	coll *mongo.Collection
}

// NewMongoAgendaRepo constructs an AgendaRepository backed by the agenda collection.
func NewMongoAgendaRepo(dbName string) AgendaRepository {
	db := database.MongoClient.Database(dbName)
	return &mongoAgendaRepo{
		coll: db.Collection("agenda"),
	}
}
