package models

// Appointment lifecycle states. Confirmed is the only non-terminal state.
const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusNoShow    = "no_show"
)

// Origin channels for an appointment.
const (
	SourceWeb      = "web"
	SourceTelegram = "telegram"
)

// Appointment represents one entry in the agenda.
type Appointment struct {
	ID              string `bson:"id" json:"id"`                             // Unique appointment identifier (UUID)
	StartTime       int64  `bson:"start_time" json:"start_time"`             // Start instant, epoch milliseconds
	EndTime         int64  `bson:"end_time" json:"end_time"`                 // End instant, epoch milliseconds
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"` // EndTime - StartTime in minutes

	// Client details. Email is stored lower-cased for lookups.
	ClientName  string `bson:"client_name" json:"client_name"`
	ClientEmail string `bson:"client_email" json:"client_email"`
	ClientPhone string `bson:"client_phone,omitempty" json:"client_phone,omitempty"`

	Reason string `bson:"reason" json:"reason"`
	Notes  string `bson:"notes,omitempty" json:"notes,omitempty"`

	Status string `bson:"status" json:"status"` // confirmed | cancelled | completed | no_show
	Source string `bson:"source" json:"source"` // web | telegram

	CreatedAt          int64  `bson:"created_at" json:"created_at"`
	UpdatedAt          int64  `bson:"updated_at" json:"updated_at"`
	CancelledAt        int64  `bson:"cancelled_at,omitempty" json:"cancelled_at,omitempty"`
	CancellationReason string `bson:"cancellation_reason,omitempty" json:"cancellation_reason,omitempty"`
}

// IsValidSource reports whether source is a known origin channel.
func IsValidSource(source string) bool {
	return source == SourceWeb || source == SourceTelegram
}
