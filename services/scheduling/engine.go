package scheduling

import (
	"context"
	"time"

	agendaRepo "agendia/database/repository/agenda"
	agendaConfigRepo "agendia/database/repository/agendaconfig"
	"agendia/models"
	"agendia/services/notification"
	"agendia/utils"

	"go.uber.org/zap"
)

// DefaultSchedulingEngine implements SchedulingService over the agenda store.
// Notifier and Reminders are optional collaborators; when set, their failures
// are logged and swallowed.
type DefaultSchedulingEngine struct {
	Repo       agendaRepo.AgendaRepository
	ConfigRepo agendaConfigRepo.AgendaConfigRepository
	Notifier   notification.Notifier
	Reminders  ReminderScheduler

	// Now is the clock used for "slot in the past" checks and stamps.
	// Defaults to time.Now; injected in tests.
	Now func() time.Time
}

func (se *DefaultSchedulingEngine) now() time.Time {
	if se.Now != nil {
		return se.Now()
	}
	return time.Now()
}

// activeConfig loads the active configuration and resolves its timezone.
func (se *DefaultSchedulingEngine) activeConfig(ctx context.Context) (*models.AgendaConfig, *time.Location, error) {
	cfg, err := se.ConfigRepo.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cfg == nil {
		return nil, nil, ErrConfigurationMissing
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, newError(CodeInvalidInput, "configured timezone %q is invalid: %v", cfg.Timezone, err)
	}
	return cfg, loc, nil
}

// notify delivers an event to the owner's channel. Best-effort: failures are
// logged and never propagated to the caller of the primary operation.
func (se *DefaultSchedulingEngine) notify(ctx context.Context, event models.BookingEvent) {
	if se.Notifier == nil {
		return
	}
	if err := se.Notifier.Notify(ctx, event); err != nil {
		utils.GetLogger().Warn("notification failed",
			zap.String("event", event.Type),
			zap.String("appointmentID", event.Appointment.ID),
			zap.Error(err))
	}
}

// scheduleReminder queues the pre-appointment reminder. Best-effort.
func (se *DefaultSchedulingEngine) scheduleReminder(ctx context.Context, appt models.Appointment) {
	if se.Reminders == nil {
		return
	}
	if err := se.Reminders.ScheduleReminder(ctx, appt); err != nil {
		utils.GetLogger().Warn("failed to schedule reminder",
			zap.String("appointmentID", appt.ID),
			zap.Error(err))
	}
}

// isoWeekday maps time.Weekday (Sunday=0) to ISO numbering (Monday=1..Sunday=7).
func isoWeekday(wd time.Weekday) int {
	if wd == time.Sunday {
		return 7
	}
	return int(wd)
}
