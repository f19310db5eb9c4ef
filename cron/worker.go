package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"agendia/config"
	"agendia/models"
	"agendia/services/notification"
	"agendia/services/scheduling"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

const TypeReminderSend = "reminder:send"

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(schedSvc scheduling.SchedulingService, notifier notification.Notifier) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(schedSvc, notifier))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[ReminderWorker] 🚀 Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[ReminderWorker] ❌ Attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[ReminderWorker] ❗ Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(schedSvc scheduling.SchedulingService, notifier notification.Notifier) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[ReminderHandler] 🔴 Invalid payload: %v", err)
			return err
		}

		// Re-fetch: the appointment may have been cancelled since enqueue.
		appt, err := schedSvc.GetAppointment(ctx, p.AppointmentID)
		if err != nil {
			if scheduling.IsCode(err, scheduling.CodeNotFound) {
				log.Printf("[ReminderHandler] ⚠️ Appointment %s no longer exists, dropping reminder", p.AppointmentID)
				return nil
			}
			return err
		}
		if appt.Status != models.StatusConfirmed {
			log.Printf("[ReminderHandler] ⚠️ Appointment %s is %s, skipping reminder", appt.ID, appt.Status)
			return nil
		}

		log.Printf("[ReminderHandler] ⏰ Sending reminder for appointment %s", appt.ID)
		if err := notifier.Notify(ctx, models.BookingEvent{
			Type:        models.EventBookingReminder,
			Appointment: *appt,
		}); err != nil {
			log.Printf("[ReminderHandler] ❌ Failed to send reminder: %v", err)
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[ReminderWorker] ⚠️ Redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
