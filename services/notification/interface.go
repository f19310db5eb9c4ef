package notification

import (
	"context"

	"agendia/models"
)

// Notifier delivers booking events to the owner's side channel. Delivery is
// best-effort: the scheduling engine logs and swallows any returned error, so
// a failed notification never rolls back a booking or cancellation.
type Notifier interface {
	Notify(ctx context.Context, event models.BookingEvent) error
}
