package tasks

import (
	"context"
	"encoding/json"
	"time"

	"agendia/models"
	"agendia/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeSendReminder = "reminder:send"

// DefaultReminderLead is how long before the appointment the reminder fires.
const DefaultReminderLead = 60 * time.Minute

func NewReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// Scheduler enqueues reminder tasks on the asynq queue. It implements
// scheduling.ReminderScheduler.
type Scheduler struct {
	Client *asynq.Client
	Lead   time.Duration
}

// NewScheduler builds a scheduler over the given redis-backed asynq client.
func NewScheduler(client *asynq.Client) *Scheduler {
	return &Scheduler{Client: client, Lead: DefaultReminderLead}
}

// ScheduleReminder queues a reminder to fire ahead of the appointment start.
// Appointments starting too soon for the lead window get no reminder.
func (s *Scheduler) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	fireAt := time.UnixMilli(appt.StartTime).Add(-s.Lead)
	if !fireAt.After(time.Now()) {
		utils.GetLogger().Debug("appointment too close for reminder, skipping",
			zap.String("appointmentID", appt.ID))
		return nil
	}

	task, opts, err := NewReminderTask(models.ReminderPayload{AppointmentID: appt.ID}, fireAt)
	if err != nil {
		return err
	}
	info, err := s.Client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return err
	}

	utils.GetLogger().Info("reminder scheduled",
		zap.String("appointmentID", appt.ID),
		zap.String("taskID", info.ID),
		zap.Time("fireAt", fireAt))
	return nil
}
