package scheduling

import (
	"context"
	"time"

	"agendia/models"
	"agendia/utils"

	"go.uber.org/zap"
)

// GetAvailability computes the slot grid for one calendar day together with
// each slot's occupancy. Non-working weekdays and blocked dates short-circuit
// with IsWorkingDay=false and empty lists; that is not an error.
func (se *DefaultSchedulingEngine) GetAvailability(ctx context.Context, date string) (*models.DayAvailability, error) {
	cfg, loc, err := se.activeConfig(ctx)
	if err != nil {
		return nil, err
	}

	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, newError(CodeInvalidInput, "invalid date %q, want YYYY-MM-DD", date)
	}

	result := &models.DayAvailability{
		Date:           date,
		Weekday:        isoWeekday(day.Weekday()),
		AvailableSlots: []models.Slot{},
		OccupiedSlots:  []models.Slot{},
	}

	if !cfg.IsWorkingDay(result.Weekday) || cfg.IsBlockedDate(date) {
		return result, nil
	}
	result.IsWorkingDay = true

	// Day bounds in the configured zone: 00:00:00.000 to 23:59:59.999.
	dayStart := day.UnixMilli()
	dayEnd := day.AddDate(0, 0, 1).UnixMilli() - 1

	appts, err := se.Repo.FindConfirmedStartingBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	for _, slot := range buildDaySlots(cfg, day, appts, se.now()) {
		if slot.Available {
			result.AvailableSlots = append(result.AvailableSlots, slot)
		} else {
			result.OccupiedSlots = append(result.OccupiedSlots, slot)
		}
	}

	utils.GetLogger().Debug("computed availability",
		zap.String("date", date),
		zap.Int("available", len(result.AvailableSlots)),
		zap.Int("occupied", len(result.OccupiedSlots)))
	return result, nil
}

// buildDaySlots enumerates the slot grid from startHour to endHour (exclusive)
// stepping by slotMinutes, in chronological order. Slots already in the past
// are dropped when the day has begun. A slot is occupied when its start tick
// falls inside a confirmed appointment's [start, end) span.
func buildDaySlots(cfg *models.AgendaConfig, day time.Time, appts []models.Appointment, now time.Time) []models.Slot {
	nowMs := now.UnixMilli()
	dayStarted := day.UnixMilli() <= nowMs

	var slots []models.Slot
	for hour := cfg.StartHour; hour < cfg.EndHour; hour++ {
		for minute := 0; minute < 60; minute += cfg.SlotMinutes {
			slotStart := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
			ts := slotStart.UnixMilli()

			if dayStarted && ts < nowMs {
				continue
			}

			occupied := false
			for _, appt := range appts {
				if ts >= appt.StartTime && ts < appt.EndTime {
					occupied = true
					break
				}
			}

			slots = append(slots, models.Slot{
				Label:     slotStart.Format("15:04"),
				Timestamp: ts,
				Available: !occupied,
			})
		}
	}
	return slots
}
