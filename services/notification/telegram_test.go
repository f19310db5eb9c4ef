package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agendia/models"
)

func testAppointment() models.Appointment {
	loc, _ := time.LoadLocation("America/Santiago")
	start := time.Date(2026, time.February, 25, 10, 0, 0, 0, loc)
	return models.Appointment{
		ID:              "appt-1",
		StartTime:       start.UnixMilli(),
		EndTime:         start.Add(30 * time.Minute).UnixMilli(),
		DurationMinutes: 30,
		ClientName:      "María Pérez",
		ClientEmail:     "maria.perez@example.com",
		ClientPhone:     "+56 9 1234 5678",
		Reason:          "Consultoría de sitio web",
		Status:          models.StatusConfirmed,
		Source:          models.SourceWeb,
	}
}

func newTestNotifier(apiBase string) *TelegramNotifier {
	n := NewTelegramNotifier("test-token", "12345", "America/Santiago")
	n.APIBase = apiBase
	return n
}

func TestNotifySendsMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := newTestNotifier(srv.URL)
	err := n.Notify(context.Background(), models.BookingEvent{
		Type:        models.EventBookingConfirmed,
		Appointment: testAppointment(),
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotPath != "/bottest-token/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["chat_id"] != "12345" {
		t.Errorf("chat_id = %v", gotBody["chat_id"])
	}
	if gotBody["parse_mode"] != "Markdown" {
		t.Errorf("parse_mode = %v", gotBody["parse_mode"])
	}

	text, _ := gotBody["text"].(string)
	for _, want := range []string{
		"NUEVA CITA AGENDADA",
		"miércoles, 25 de febrero de 2026",
		"10:00",
		"María Pérez",
		"maria.perez@example.com",
		"appt-1",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("message missing %q:\n%s", want, text)
		}
	}
}

func TestNotifyCancellationMessage(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		text, _ = body["text"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	appt := testAppointment()
	appt.Status = models.StatusCancelled
	err := newTestNotifier(srv.URL).Notify(context.Background(), models.BookingEvent{
		Type:        models.EventBookingCancelled,
		Appointment: appt,
		Reason:      "cliente pidió reagendar",
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !strings.Contains(text, "CITA CANCELADA") || !strings.Contains(text, "cliente pidió reagendar") {
		t.Errorf("unexpected cancellation message:\n%s", text)
	}
}

func TestNotifyReminderMessage(t *testing.T) {
	var text string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		text, _ = body["text"].(string)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).Notify(context.Background(), models.BookingEvent{
		Type:        models.EventBookingReminder,
		Appointment: testAppointment(),
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if !strings.Contains(text, "RECORDATORIO DE CITA") {
		t.Errorf("unexpected reminder message:\n%s", text)
	}
}

func TestNotifyReportsAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := newTestNotifier(srv.URL).Notify(context.Background(), models.BookingEvent{
		Type:        models.EventBookingConfirmed,
		Appointment: testAppointment(),
	})
	if err == nil {
		t.Fatal("expected an error on a non-200 response")
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("error should carry the API detail: %v", err)
	}
}

func TestNotifyRequiresConfiguration(t *testing.T) {
	n := NewTelegramNotifier("", "", "America/Santiago")
	if err := n.Notify(context.Background(), models.BookingEvent{}); err == nil {
		t.Fatal("expected an error without token and chat id")
	}
}
