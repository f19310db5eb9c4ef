package scheduling

import (
	"context"
	"strings"

	"agendia/models"
)

// ListQuery selects appointments starting within [From, To], with optional
// equality filters on status and source.
type ListQuery struct {
	From   int64  `json:"from" form:"from"`
	To     int64  `json:"to" form:"to"`
	Status string `json:"status" form:"status"`
	Source string `json:"source" form:"source"`
}

// ListAppointments returns appointments starting within the range, ascending
// by start time.
func (se *DefaultSchedulingEngine) ListAppointments(ctx context.Context, q ListQuery) ([]models.Appointment, error) {
	if q.From > q.To {
		return nil, newError(CodeInvalidInput, "range start %d is after range end %d", q.From, q.To)
	}
	if q.Status != "" {
		switch q.Status {
		case models.StatusConfirmed, models.StatusCancelled, models.StatusCompleted, models.StatusNoShow:
		default:
			return nil, newError(CodeInvalidInput, "unknown status %q", q.Status)
		}
	}
	if q.Source != "" && !models.IsValidSource(q.Source) {
		return nil, newError(CodeInvalidInput, "unknown source %q", q.Source)
	}
	return se.Repo.FindStartingBetween(ctx, q.From, q.To, q.Status, q.Source)
}

// FindByClientEmail returns all appointments for a client, most recent start
// first. The email is normalized the same way bookings store it.
func (se *DefaultSchedulingEngine) FindByClientEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, newError(CodeInvalidInput, "email is required")
	}
	return se.Repo.FindByClientEmail(ctx, email)
}
