package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"agendia/models"
)

func validRequest(start int64) BookingRequest {
	return BookingRequest{
		StartTime:       start,
		DurationMinutes: 30,
		ClientName:      "María Pérez",
		ClientEmail:     "Maria.Perez@Example.COM",
		ClientPhone:     "+56 9 1234 5678",
		Reason:          "Consultoría de sitio web",
		Source:          models.SourceWeb,
	}
}

func TestBookAppointment(t *testing.T) {
	now := localTime(2026, time.February, 20, 12, 0)
	eng := newTestEngine(testConfig(), now)
	start := atLocal(2026, time.February, 25, 10, 0)

	appt, err := eng.BookAppointment(context.Background(), validRequest(start))
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if appt.ID == "" {
		t.Error("appointment id not assigned")
	}
	if appt.Status != models.StatusConfirmed {
		t.Errorf("status = %q, want confirmed", appt.Status)
	}
	if appt.ClientEmail != "maria.perez@example.com" {
		t.Errorf("email = %q, want lower-cased", appt.ClientEmail)
	}
	if want := start + 30*60_000; appt.EndTime != want {
		t.Errorf("end = %d, want %d", appt.EndTime, want)
	}
	if appt.CreatedAt != now.UnixMilli() || appt.UpdatedAt != now.UnixMilli() {
		t.Error("creation stamps not taken from the engine clock")
	}

	stored, _ := eng.repo.GetByID(context.Background(), appt.ID)
	if stored == nil {
		t.Fatal("appointment not persisted")
	}

	if len(eng.notifier.events) != 1 || eng.notifier.events[0].Type != models.EventBookingConfirmed {
		t.Errorf("notifier events = %+v, want one booking_confirmed", eng.notifier.events)
	}
	if len(eng.reminders.appts) != 1 || eng.reminders.appts[0].ID != appt.ID {
		t.Error("reminder not scheduled for the new appointment")
	}
}

func TestBookAppointmentConflicts(t *testing.T) {
	eng := newTestEngine(testConfig(), localTime(2026, time.February, 20, 12, 0))
	ctx := context.Background()

	if _, err := eng.BookAppointment(ctx, validRequest(atLocal(2026, time.February, 25, 10, 0))); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// Exact same slot.
	if _, err := eng.BookAppointment(ctx, validRequest(atLocal(2026, time.February, 25, 10, 0))); !IsCode(err, CodeSlotUnavailable) {
		t.Errorf("same slot: err = %v, want slot_unavailable", err)
	}

	// Straddles the existing 10:00-10:30 interval.
	req := validRequest(atLocal(2026, time.February, 25, 10, 15))
	if _, err := eng.BookAppointment(ctx, req); !IsCode(err, CodeSlotUnavailable) {
		t.Errorf("overlapping slot: err = %v, want slot_unavailable", err)
	}

	// Adjacent interval starting exactly at the previous end is fine.
	if _, err := eng.BookAppointment(ctx, validRequest(atLocal(2026, time.February, 25, 10, 30))); err != nil {
		t.Errorf("adjacent slot: %v", err)
	}
}

func TestBookAppointmentAfterCancellation(t *testing.T) {
	eng := newTestEngine(testConfig(), localTime(2026, time.February, 20, 12, 0))
	ctx := context.Background()
	start := atLocal(2026, time.February, 25, 10, 0)

	first, err := eng.BookAppointment(ctx, validRequest(start))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := eng.Cancel(ctx, first.ID, "cliente no puede asistir"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	// Cancelled appointments release their slot.
	if _, err := eng.BookAppointment(ctx, validRequest(start)); err != nil {
		t.Errorf("rebooking released slot: %v", err)
	}
}

func TestBookAppointmentDefaultDuration(t *testing.T) {
	eng := newTestEngine(testConfig(), localTime(2026, time.February, 20, 12, 0))

	req := validRequest(atLocal(2026, time.February, 25, 10, 0))
	req.DurationMinutes = 0
	appt, err := eng.BookAppointment(context.Background(), req)
	if err != nil {
		t.Fatalf("BookAppointment: %v", err)
	}
	if appt.DurationMinutes != DefaultDurationMinutes {
		t.Errorf("duration = %d, want default %d", appt.DurationMinutes, DefaultDurationMinutes)
	}
}

func TestBookAppointmentValidation(t *testing.T) {
	eng := newTestEngine(testConfig(), localTime(2026, time.February, 20, 12, 0))
	start := atLocal(2026, time.February, 25, 10, 0)

	cases := []struct {
		name   string
		mutate func(*BookingRequest)
	}{
		{"missing start", func(r *BookingRequest) { r.StartTime = 0 }},
		{"negative duration", func(r *BookingRequest) { r.DurationMinutes = -15 }},
		{"missing name", func(r *BookingRequest) { r.ClientName = "  " }},
		{"missing email", func(r *BookingRequest) { r.ClientEmail = "" }},
		{"missing reason", func(r *BookingRequest) { r.Reason = "" }},
		{"bad source", func(r *BookingRequest) { r.Source = "carrier-pigeon" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest(start)
			tc.mutate(&req)
			if _, err := eng.BookAppointment(context.Background(), req); !IsCode(err, CodeInvalidInput) {
				t.Errorf("err = %v, want invalid_input", err)
			}
		})
	}
}

func TestConcurrentBookingsSingleWinner(t *testing.T) {
	eng := newTestEngine(testConfig(), localTime(2026, time.February, 20, 12, 0))
	start := atLocal(2026, time.February, 25, 10, 0)

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = eng.BookAppointment(context.Background(), validRequest(start))
		}(i)
	}
	wg.Wait()

	var won, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case IsCode(err, CodeSlotUnavailable):
			lost++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Errorf("winners = %d, want exactly 1", won)
	}
	if lost != attempts-1 {
		t.Errorf("losers = %d, want %d", lost, attempts-1)
	}
}
