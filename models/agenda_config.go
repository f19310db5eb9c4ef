package models

import "time"

// AgendaConfig holds the working-hours policy read by the scheduling engine.
// Exactly one active document exists at a time; it is updated in place and
// never deleted.
type AgendaConfig struct {
	ID           string   `bson:"id" json:"id"`
	StartHour    int      `bson:"start_hour" json:"start_hour"`                           // e.g. 8 for 08:00
	EndHour      int      `bson:"end_hour" json:"end_hour"`                               // exclusive, e.g. 22 for slots up to 21:30
	WorkingDays  []int    `bson:"working_days" json:"working_days"`                       // ISO weekdays, 1=Monday .. 7=Sunday
	SlotMinutes  int      `bson:"slot_minutes" json:"slot_minutes"`                       // length of one bookable unit
	Timezone     string   `bson:"timezone" json:"timezone"`                               // IANA identifier, e.g. "America/Santiago"
	BlockedDates []string `bson:"blocked_dates,omitempty" json:"blocked_dates,omitempty"` // "YYYY-MM-DD", excluded even on working days
	Active       bool     `bson:"active" json:"active"`
	CreatedAt    int64    `bson:"created_at" json:"created_at"`
	UpdatedAt    int64    `bson:"updated_at" json:"updated_at"`
}

// Location resolves the configured timezone.
func (c *AgendaConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// IsWorkingDay reports whether the ISO weekday (1=Monday..7=Sunday) is in the
// configured working set.
func (c *AgendaConfig) IsWorkingDay(isoWeekday int) bool {
	for _, d := range c.WorkingDays {
		if d == isoWeekday {
			return true
		}
	}
	return false
}

// IsBlockedDate reports whether the "YYYY-MM-DD" date is explicitly blocked.
func (c *AgendaConfig) IsBlockedDate(date string) bool {
	for _, d := range c.BlockedDates {
		if d == date {
			return true
		}
	}
	return false
}
