package agendaRepo

import (
	"context"
	"fmt"

	"agendia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindConfirmedOverlapping returns all confirmed appointments whose interval
// intersects [start, end): existing.start < end AND existing.end > start.
func (repo *mongoAgendaRepo) FindConfirmedOverlapping(ctx context.Context, start, end int64) ([]models.Appointment, error) {
	filter := bson.M{
		"status":     models.StatusConfirmed,
		"start_time": bson.M{"$lt": end},
		"end_time":   bson.M{"$gt": start},
	}
	return repo.find(ctx, filter, bson.D{{Key: "start_time", Value: 1}})
}

// FindConfirmedStartingBetween returns confirmed appointments starting within
// [from, to], ascending by start time. Backs the day-level availability query.
func (repo *mongoAgendaRepo) FindConfirmedStartingBetween(ctx context.Context, from, to int64) ([]models.Appointment, error) {
	filter := bson.M{
		"status":     models.StatusConfirmed,
		"start_time": bson.M{"$gte": from, "$lte": to},
	}
	return repo.find(ctx, filter, bson.D{{Key: "start_time", Value: 1}})
}

// FindStartingBetween returns appointments starting within [from, to] with
// optional equality filters on status and source, ascending by start time.
func (repo *mongoAgendaRepo) FindStartingBetween(ctx context.Context, from, to int64, status, source string) ([]models.Appointment, error) {
	filter := bson.M{
		"start_time": bson.M{"$gte": from, "$lte": to},
	}
	if status != "" {
		filter["status"] = status
	}
	if source != "" {
		filter["source"] = source
	}
	return repo.find(ctx, filter, bson.D{{Key: "start_time", Value: 1}})
}

// FindByClientEmail returns all appointments for a normalized email, most
// recent start first.
func (repo *mongoAgendaRepo) FindByClientEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	filter := bson.M{"client_email": email}
	return repo.find(ctx, filter, bson.D{{Key: "start_time", Value: -1}})
}

func (repo *mongoAgendaRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	cursor, err := repo.coll.Find(ctxWithTimeout, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("error querying appointments: %w", err)
	}
	defer cursor.Close(ctxWithTimeout)

	var appts []models.Appointment
	if err := cursor.All(ctxWithTimeout, &appts); err != nil {
		return nil, fmt.Errorf("error decoding appointments: %w", err)
	}
	return appts, nil
}
