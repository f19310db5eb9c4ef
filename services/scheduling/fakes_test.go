package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"agendia/models"
)

// memAgendaRepo is an in-memory AgendaRepository. Transactions are serialized
// with a dedicated mutex so concurrent bookings observe each other's inserts.
type memAgendaRepo struct {
	mu    sync.Mutex
	txMu  sync.Mutex
	appts map[string]*models.Appointment
}

func newMemAgendaRepo() *memAgendaRepo {
	return &memAgendaRepo{appts: make(map[string]*models.Appointment)}
}

func (r *memAgendaRepo) RunTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	return fn(ctx)
}

func (r *memAgendaRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memAgendaRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, nil
	}
	cp := *appt
	return &cp, nil
}

func (r *memAgendaRepo) FindConfirmedOverlapping(ctx context.Context, start, end int64) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.Status == models.StatusConfirmed && appt.StartTime < end && appt.EndTime > start {
			out = append(out, *appt)
		}
	}
	return out, nil
}

func (r *memAgendaRepo) FindConfirmedStartingBetween(ctx context.Context, from, to int64) ([]models.Appointment, error) {
	return r.FindStartingBetween(ctx, from, to, models.StatusConfirmed, "")
}

func (r *memAgendaRepo) FindStartingBetween(ctx context.Context, from, to int64, status, source string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.StartTime < from || appt.StartTime > to {
			continue
		}
		if status != "" && appt.Status != status {
			continue
		}
		if source != "" && appt.Source != source {
			continue
		}
		out = append(out, *appt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func (r *memAgendaRepo) FindByClientEmail(ctx context.Context, email string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, appt := range r.appts {
		if appt.ClientEmail == email {
			out = append(out, *appt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime > out[j].StartTime })
	return out, nil
}

func (r *memAgendaRepo) MarkCancelled(ctx context.Context, id, reason string, at int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt := r.appts[id]
	appt.Status = models.StatusCancelled
	appt.CancelledAt = at
	appt.CancellationReason = reason
	appt.UpdatedAt = at
	return nil
}

func (r *memAgendaRepo) UpdateStatus(ctx context.Context, id, status string, at int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt := r.appts[id]
	appt.Status = status
	appt.UpdatedAt = at
	return nil
}

func (r *memAgendaRepo) EnsureIndexes() error { return nil }

// memConfigRepo is an in-memory AgendaConfigRepository.
type memConfigRepo struct {
	mu  sync.Mutex
	cfg *models.AgendaConfig
}

func (r *memConfigRepo) GetActive(ctx context.Context) (*models.AgendaConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cfg == nil {
		return nil, nil
	}
	cp := *r.cfg
	return &cp, nil
}

func (r *memConfigRepo) Create(ctx context.Context, cfg *models.AgendaConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.cfg = &cp
	return nil
}

func (r *memConfigRepo) Update(ctx context.Context, id string, cfg *models.AgendaConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *cfg
	r.cfg = &cp
	return nil
}

func (r *memConfigRepo) EnsureIndexes() error { return nil }

// recordingNotifier captures emitted events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []models.BookingEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event models.BookingEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

// recordingReminders captures scheduled reminders.
type recordingReminders struct {
	mu    sync.Mutex
	appts []models.Appointment
}

func (r *recordingReminders) ScheduleReminder(ctx context.Context, appt models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = append(r.appts, appt)
	return nil
}

const testTimezone = "America/Santiago"

func testConfig() *models.AgendaConfig {
	return &models.AgendaConfig{
		ID:          "cfg-1",
		StartHour:   8,
		EndHour:     22,
		WorkingDays: []int{1, 2, 3, 4, 5, 6, 7},
		SlotMinutes: 30,
		Timezone:    testTimezone,
		Active:      true,
	}
}

type testEngine struct {
	*DefaultSchedulingEngine
	repo      *memAgendaRepo
	configs   *memConfigRepo
	notifier  *recordingNotifier
	reminders *recordingReminders
}

// newTestEngine builds an engine over in-memory stores with a fixed clock.
func newTestEngine(cfg *models.AgendaConfig, now time.Time) *testEngine {
	repo := newMemAgendaRepo()
	configs := &memConfigRepo{cfg: cfg}
	notifier := &recordingNotifier{}
	reminders := &recordingReminders{}
	return &testEngine{
		DefaultSchedulingEngine: &DefaultSchedulingEngine{
			Repo:       repo,
			ConfigRepo: configs,
			Notifier:   notifier,
			Reminders:  reminders,
			Now:        func() time.Time { return now },
		},
		repo:      repo,
		configs:   configs,
		notifier:  notifier,
		reminders: reminders,
	}
}

// atLocal returns epoch millis for a wall-clock instant in the test timezone.
func atLocal(year int, month time.Month, day, hour, minute int) int64 {
	loc, err := time.LoadLocation(testTimezone)
	if err != nil {
		panic(err)
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc).UnixMilli()
}

func localTime(year int, month time.Month, day, hour, minute int) time.Time {
	loc, err := time.LoadLocation(testTimezone)
	if err != nil {
		panic(err)
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}
