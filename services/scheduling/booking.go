package scheduling

import (
	"context"
	"strings"

	"agendia/models"
	"agendia/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDurationMinutes is used when a booking request omits the duration.
const DefaultDurationMinutes = 30

// BookingRequest carries the already-structured parameters of a booking
// attempt. The chat layers are responsible for extracting these from natural
// language before calling the engine.
type BookingRequest struct {
	StartTime       int64  `json:"start_time" binding:"required"` // epoch milliseconds
	DurationMinutes int    `json:"duration_minutes"`
	ClientName      string `json:"client_name" binding:"required"`
	ClientEmail     string `json:"client_email" binding:"required"`
	ClientPhone     string `json:"client_phone"`
	Reason          string `json:"reason" binding:"required"`
	Notes           string `json:"notes"`
	Source          string `json:"source" binding:"required"` // web | telegram
}

// BookAppointment validates the request, runs the conflict check and insert
// inside one store transaction, and on success emits best-effort side effects
// (owner notification, reminder task). Two bookings never overlap: for
// intervals [a,b) and [c,d) a conflict exists iff a < d AND c < b.
func (se *DefaultSchedulingEngine) BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	if err := validateBookingRequest(&req); err != nil {
		return nil, err
	}

	now := se.now().UnixMilli()
	appt := &models.Appointment{
		ID:              uuid.New().String(),
		StartTime:       req.StartTime,
		EndTime:         req.StartTime + int64(req.DurationMinutes)*60_000,
		DurationMinutes: req.DurationMinutes,
		ClientName:      strings.TrimSpace(req.ClientName),
		ClientEmail:     strings.ToLower(strings.TrimSpace(req.ClientEmail)),
		ClientPhone:     strings.TrimSpace(req.ClientPhone),
		Reason:          strings.TrimSpace(req.Reason),
		Notes:           req.Notes,
		Status:          models.StatusConfirmed,
		Source:          req.Source,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := se.Repo.RunTransaction(ctx, func(txCtx context.Context) error {
		existing, err := se.Repo.FindConfirmedOverlapping(txCtx, appt.StartTime, appt.EndTime)
		if err != nil {
			return err
		}
		for _, other := range existing {
			if overlaps(appt.StartTime, appt.EndTime, other.StartTime, other.EndTime) {
				return newError(CodeSlotUnavailable,
					"requested slot conflicts with appointment %s at %d", other.ID, other.StartTime)
			}
		}
		return se.Repo.Insert(txCtx, appt)
	})
	if err != nil {
		return nil, err
	}

	utils.GetLogger().Info("appointment booked",
		zap.String("id", appt.ID),
		zap.Int64("start", appt.StartTime),
		zap.String("client", appt.ClientEmail),
		zap.String("source", appt.Source))

	se.notify(ctx, models.BookingEvent{
		Type:        models.EventBookingConfirmed,
		Appointment: *appt,
	})
	se.scheduleReminder(ctx, *appt)

	return appt, nil
}

func validateBookingRequest(req *BookingRequest) error {
	if req.StartTime <= 0 {
		return newError(CodeInvalidInput, "start_time is required")
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = DefaultDurationMinutes
	}
	if req.DurationMinutes < 0 {
		return newError(CodeInvalidInput, "duration_minutes must be positive")
	}
	if strings.TrimSpace(req.ClientName) == "" {
		return newError(CodeInvalidInput, "client_name is required")
	}
	if strings.TrimSpace(req.ClientEmail) == "" {
		return newError(CodeInvalidInput, "client_email is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return newError(CodeInvalidInput, "reason is required")
	}
	if !models.IsValidSource(req.Source) {
		return newError(CodeInvalidInput, "source must be %q or %q", models.SourceWeb, models.SourceTelegram)
	}
	return nil
}

// overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect.
func overlaps(aStart, aEnd, bStart, bEnd int64) bool {
	return aStart < bEnd && bStart < aEnd
}
