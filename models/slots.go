package models

// Slot is one bookable unit on the working-hours grid. The JSON field names
// are the wire contract consumed by the web chat widget.
type Slot struct {
	Label     string `json:"hora"`      // "HH:MM" in the configured timezone
	Timestamp int64  `json:"timestamp"` // slot start, epoch milliseconds
	Available bool   `json:"disponible"`
}

// DayAvailability is the result of an availability query for one calendar day.
// On non-working or blocked days both slot lists are empty and IsWorkingDay
// is false; that is not an error.
type DayAvailability struct {
	Date           string `json:"date"`    // "YYYY-MM-DD"
	Weekday        int    `json:"weekday"` // ISO, 1=Monday..7=Sunday
	IsWorkingDay   bool   `json:"is_working_day"`
	AvailableSlots []Slot `json:"available_slots"`
	OccupiedSlots  []Slot `json:"occupied_slots"`
}
