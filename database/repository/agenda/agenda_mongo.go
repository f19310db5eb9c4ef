package agendaRepo

import (
	"context"
	"fmt"
	"time"

	"agendia/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const queryTimeout = 5 * time.Second

// RunTransaction executes fn inside a MongoDB session transaction. The
// conflict-check-then-insert in the booking path relies on this for its
// atomicity guarantee.
func (repo *mongoAgendaRepo) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		return err
	}
	return nil
}

// Insert persists a new appointment document.
func (repo *mongoAgendaRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctxWithTimeout, appt); err != nil {
		return fmt.Errorf("error inserting appointment: %w", err)
	}
	return nil
}

// GetByID retrieves an appointment by its ID. Returns nil without error when
// the id is unknown.
func (repo *mongoAgendaRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var appt models.Appointment
	err := repo.coll.FindOne(ctxWithTimeout, bson.M{"id": id}).Decode(&appt)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching appointment %s: %w", id, err)
	}
	return &appt, nil
}

// MarkCancelled transitions an appointment to cancelled, stamping the
// cancellation time and reason.
func (repo *mongoAgendaRepo) MarkCancelled(ctx context.Context, id, reason string, at int64) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":              models.StatusCancelled,
		"cancelled_at":        at,
		"cancellation_reason": reason,
		"updated_at":          at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error cancelling appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}

// UpdateStatus overwrites the status field and the updated_at stamp.
func (repo *mongoAgendaRepo) UpdateStatus(ctx context.Context, id, status string, at int64) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": at,
	}}
	res, err := repo.coll.UpdateOne(ctxWithTimeout, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error updating status of appointment %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("appointment %s not found", id)
	}
	return nil
}
