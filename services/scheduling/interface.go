package scheduling

import (
	"context"

	"agendia/models"
)

// SchedulingService is the contract the transport layers (HTTP handlers, chat
// assistant, reminder worker) call into. All operations are request-scoped
// and sequential; atomicity of the booking path is delegated to the store.
type SchedulingService interface {
	// GetAvailability computes the slot grid and occupancy for a calendar day
	// ("YYYY-MM-DD" in the configured timezone). Pure read.
	GetAvailability(ctx context.Context, date string) (*models.DayAvailability, error)
	// BookAppointment validates and atomically persists a new confirmed
	// appointment, then emits a best-effort notification.
	BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error)
	// GetAppointment retrieves one appointment by id.
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// ListAppointments returns appointments starting within a range,
	// ascending by start time.
	ListAppointments(ctx context.Context, q ListQuery) ([]models.Appointment, error)
	// FindByClientEmail returns a client's appointments, most recent first.
	FindByClientEmail(ctx context.Context, email string) ([]models.Appointment, error)
	// Cancel transitions an appointment to cancelled and records the reason.
	Cancel(ctx context.Context, id, reason string) (*models.Appointment, error)
	// MarkCompleted transitions a confirmed appointment to completed.
	MarkCompleted(ctx context.Context, id string) error
	// MarkNoShow transitions a confirmed appointment to no_show.
	MarkNoShow(ctx context.Context, id string) error

	// InitializeConfiguration creates the default working-hours configuration
	// once. The second return value is false when one already existed.
	InitializeConfiguration(ctx context.Context) (*models.AgendaConfig, bool, error)
	// GetConfiguration returns the active configuration.
	GetConfiguration(ctx context.Context) (*models.AgendaConfig, error)
	// UpdateConfiguration patches the active configuration in place.
	UpdateConfiguration(ctx context.Context, upd ConfigUpdate) (*models.AgendaConfig, error)
}

// ReminderScheduler queues an appointment reminder for later delivery.
// Implementations are best-effort; the engine ignores returned errors.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appt models.Appointment) error
}
