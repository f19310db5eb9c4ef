package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"agendia/models"
	"agendia/services/scheduling"
)

type staticGenerator struct {
	output string
	prompt string
}

func (g *staticGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.output, nil
}

type memContextStore struct {
	data map[string]*models.ChatContext
}

func newMemContextStore() *memContextStore {
	return &memContextStore{data: make(map[string]*models.ChatContext)}
}

func (s *memContextStore) Get(ctx context.Context, sessionID string) (*models.ChatContext, error) {
	if c, ok := s.data[sessionID]; ok {
		return c, nil
	}
	return &models.ChatContext{}, nil
}

func (s *memContextStore) Set(ctx context.Context, sessionID string, chatCtx *models.ChatContext) error {
	s.data[sessionID] = chatCtx
	return nil
}

func (s *memContextStore) Clear(ctx context.Context, sessionID string) error {
	delete(s.data, sessionID)
	return nil
}

// stubScheduling answers the scheduling calls the assistant makes.
type stubScheduling struct {
	scheduling.SchedulingService

	availability *models.DayAvailability
	booked       *scheduling.BookingRequest
	bookErr      error
}

func (s *stubScheduling) GetAvailability(ctx context.Context, date string) (*models.DayAvailability, error) {
	return s.availability, nil
}

func (s *stubScheduling) BookAppointment(ctx context.Context, req scheduling.BookingRequest) (*models.Appointment, error) {
	if s.bookErr != nil {
		return nil, s.bookErr
	}
	s.booked = &req
	return &models.Appointment{
		ID:         "appt-1",
		StartTime:  req.StartTime,
		ClientName: req.ClientName,
		Status:     models.StatusConfirmed,
	}, nil
}

func (s *stubScheduling) GetConfiguration(ctx context.Context) (*models.AgendaConfig, error) {
	return &models.AgendaConfig{Timezone: "America/Santiago"}, nil
}

func TestParseAction(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{"plain json", `{"action":"availability","date":"2026-02-25"}`, "availability"},
		{"fenced json", "```json\n{\"action\":\"book\"}\n```", "book"},
		{"json with prose", "Claro, aquí está:\n{\"action\":\"faq\",\"reply\":\"hola\"}", "faq"},
		{"empty action", `{"reply":"hola"}`, "other"},
		{"not json at all", "Hola, ¿en qué te ayudo?", "other"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			act := parseAction(tc.raw)
			if act.Action != tc.want {
				t.Errorf("action = %q, want %q", act.Action, tc.want)
			}
		})
	}

	// Off-schema output becomes the reply verbatim.
	act := parseAction("Hola, ¿en qué te ayudo?")
	if act.Reply != "Hola, ¿en qué te ayudo?" {
		t.Errorf("reply = %q", act.Reply)
	}
}

func TestProcessMessageAvailability(t *testing.T) {
	sched := &stubScheduling{
		availability: &models.DayAvailability{
			Date:         "2026-02-25",
			IsWorkingDay: true,
			AvailableSlots: []models.Slot{
				{Label: "10:00"},
				{Label: "10:30"},
			},
		},
	}
	gen := &staticGenerator{output: `{"action":"availability","date":"2026-02-25"}`}
	svc := NewChatService(gen, newMemContextStore(), sched, nil)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{
		SessionID: "s1",
		Message:   "¿Qué horas tienes el miércoles?",
	})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if resp.Intent != "availability" {
		t.Errorf("intent = %q", resp.Intent)
	}
	if !strings.Contains(resp.Reply, "10:00") || !strings.Contains(resp.Reply, "10:30") {
		t.Errorf("reply should list the free slots: %q", resp.Reply)
	}
}

func TestProcessMessageBooks(t *testing.T) {
	sched := &stubScheduling{}
	gen := &staticGenerator{output: `{
		"action": "book",
		"date": "2026-02-25",
		"start_time": "10:00",
		"client_name": "María Pérez",
		"client_email": "maria.perez@example.com",
		"reason": "Consultoría"
	}`}
	svc := NewChatService(gen, newMemContextStore(), sched, nil)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{
		SessionID: "s1",
		Message:   "Agéndame el miércoles a las 10",
	})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}

	if sched.booked == nil {
		t.Fatal("booking was not forwarded to the scheduling service")
	}
	if sched.booked.Source != models.SourceWeb {
		t.Errorf("source = %q, want web", sched.booked.Source)
	}
	loc, _ := time.LoadLocation("America/Santiago")
	want := time.Date(2026, time.February, 25, 10, 0, 0, 0, loc).UnixMilli()
	if sched.booked.StartTime != want {
		t.Errorf("start = %d, want %d", sched.booked.StartTime, want)
	}
	if !strings.Contains(resp.Reply, "María Pérez") {
		t.Errorf("confirmation should address the client: %q", resp.Reply)
	}
}

func TestProcessMessageBookingConflict(t *testing.T) {
	sched := &stubScheduling{
		bookErr: &scheduling.Error{Code: scheduling.CodeSlotUnavailable, Message: "taken"},
	}
	gen := &staticGenerator{output: `{
		"action": "book",
		"date": "2026-02-25",
		"start_time": "10:00",
		"client_name": "María",
		"client_email": "maria@example.com",
		"reason": "Consultoría"
	}`}
	svc := NewChatService(gen, newMemContextStore(), sched, nil)

	resp, err := svc.ProcessMessage(context.Background(), models.ChatRequest{SessionID: "s1", Message: "a las 10"})
	if err != nil {
		t.Fatalf("ProcessMessage: %v", err)
	}
	if !strings.Contains(resp.Reply, "ya está tomada") {
		t.Errorf("conflict reply = %q", resp.Reply)
	}
}

func TestProcessMessageKeepsSessionHistory(t *testing.T) {
	store := newMemContextStore()
	gen := &staticGenerator{output: `{"action":"faq","reply":"Ofrezco desarrollo web y consultoría."}`}
	svc := NewChatService(gen, store, &stubScheduling{}, nil)

	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{SessionID: "s1", Message: "¿Qué servicios ofreces?"}); err != nil {
		t.Fatalf("first message: %v", err)
	}
	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{SessionID: "s1", Message: "¿Y los precios?"}); err != nil {
		t.Fatalf("second message: %v", err)
	}

	saved := store.data["s1"]
	if len(saved.Turns) != 4 {
		t.Fatalf("turns = %d, want 4", len(saved.Turns))
	}
	// The second prompt replays the first exchange.
	if !strings.Contains(gen.prompt, "¿Qué servicios ofreces?") {
		t.Error("prompt does not include earlier turns")
	}
}

func TestProcessMessageHistoryCap(t *testing.T) {
	store := newMemContextStore()
	gen := &staticGenerator{output: `{"action":"other","reply":"ok"}`}
	svc := NewChatService(gen, store, &stubScheduling{}, nil)

	for i := 0; i < maxHistoryTurns+5; i++ {
		if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{SessionID: "s1", Message: "hola"}); err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
	}
	if got := len(store.data["s1"].Turns); got > 2*maxHistoryTurns {
		t.Errorf("turns = %d, want at most %d", got, 2*maxHistoryTurns)
	}
}

func TestProcessMessageRejectsEmpty(t *testing.T) {
	svc := NewChatService(&staticGenerator{}, newMemContextStore(), &stubScheduling{}, nil)
	if _, err := svc.ProcessMessage(context.Background(), models.ChatRequest{SessionID: "s1", Message: "   "}); err == nil {
		t.Fatal("expected an error for a blank message")
	}
}
