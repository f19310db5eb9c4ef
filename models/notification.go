package models

// Event types delivered to the owner's notification channel.
const (
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCancelled = "booking_cancelled"
	EventBookingReminder  = "booking_reminder"
)

// BookingEvent is handed to the notifier after a successful mutation.
// Delivery is best-effort; the scheduling engine never fails an operation
// because a notification could not be sent.
type BookingEvent struct {
	Type        string
	Appointment Appointment
	Reason      string // cancellation reason, when applicable
}

// ReminderPayload is the task payload for appointment reminders.
type ReminderPayload struct {
	AppointmentID string `json:"appointment_id"`
}
