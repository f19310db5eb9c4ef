package scheduling

import (
	"context"
	"strings"

	"agendia/models"
	"agendia/utils"

	"go.uber.org/zap"
)

// GetAppointment retrieves one appointment by id.
func (se *DefaultSchedulingEngine) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := se.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, newError(CodeNotFound, "appointment %s not found", id)
	}
	return appt, nil
}

// Cancel transitions an appointment to cancelled, stamping the cancellation
// time and reason. Cancelling is permitted from any state except cancelled
// itself; repeating a cancellation fails and leaves the original stamps
// untouched.
func (se *DefaultSchedulingEngine) Cancel(ctx context.Context, id, reason string) (*models.Appointment, error) {
	appt, err := se.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status == models.StatusCancelled {
		return nil, newError(CodeAlreadyCancelled, "appointment %s is already cancelled", id)
	}

	now := se.now().UnixMilli()
	reason = strings.TrimSpace(reason)
	if err := se.Repo.MarkCancelled(ctx, id, reason, now); err != nil {
		return nil, err
	}

	appt.Status = models.StatusCancelled
	appt.CancelledAt = now
	appt.CancellationReason = reason
	appt.UpdatedAt = now

	utils.GetLogger().Info("appointment cancelled",
		zap.String("id", id),
		zap.String("reason", reason))

	se.notify(ctx, models.BookingEvent{
		Type:        models.EventBookingCancelled,
		Appointment: *appt,
		Reason:      reason,
	})

	return appt, nil
}

// MarkCompleted transitions a confirmed appointment to completed.
func (se *DefaultSchedulingEngine) MarkCompleted(ctx context.Context, id string) error {
	return se.transition(ctx, id, models.StatusCompleted)
}

// MarkNoShow transitions a confirmed appointment to no_show.
func (se *DefaultSchedulingEngine) MarkNoShow(ctx context.Context, id string) error {
	return se.transition(ctx, id, models.StatusNoShow)
}

// transition applies a guarded forward transition: only confirmed
// appointments may move to a terminal state.
func (se *DefaultSchedulingEngine) transition(ctx context.Context, id, status string) error {
	appt, err := se.GetAppointment(ctx, id)
	if err != nil {
		return err
	}
	if appt.Status != models.StatusConfirmed {
		return newError(CodeInvalidTransition,
			"appointment %s is %s, only confirmed appointments can become %s", id, appt.Status, status)
	}
	return se.Repo.UpdateStatus(ctx, id, status, se.now().UnixMilli())
}
