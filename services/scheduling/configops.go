package scheduling

import (
	"context"
	"time"

	"agendia/models"
	"agendia/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConfigUpdate is a partial update of the active configuration. Nil pointers
// and nil slices leave the corresponding field unchanged.
type ConfigUpdate struct {
	StartHour    *int     `json:"start_hour"`
	EndHour      *int     `json:"end_hour"`
	SlotMinutes  *int     `json:"slot_minutes"`
	WorkingDays  []int    `json:"working_days"`
	Timezone     *string  `json:"timezone"`
	BlockedDates []string `json:"blocked_dates"`
}

// InitializeConfiguration creates the default working-hours configuration.
// Run once; when an active configuration already exists it is returned
// unchanged and the second result is false.
func (se *DefaultSchedulingEngine) InitializeConfiguration(ctx context.Context) (*models.AgendaConfig, bool, error) {
	existing, err := se.ConfigRepo.GetActive(ctx)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := se.now().UnixMilli()
	cfg := &models.AgendaConfig{
		ID:           uuid.New().String(),
		StartHour:    8,
		EndHour:      22,
		WorkingDays:  []int{1, 2, 3, 4, 5, 6, 7},
		SlotMinutes:  30,
		Timezone:     "America/Santiago",
		BlockedDates: []string{},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := se.ConfigRepo.Create(ctx, cfg); err != nil {
		return nil, false, err
	}

	utils.GetLogger().Info("agenda configuration initialized", zap.String("id", cfg.ID))
	return cfg, true, nil
}

// GetConfiguration returns the active configuration.
func (se *DefaultSchedulingEngine) GetConfiguration(ctx context.Context) (*models.AgendaConfig, error) {
	cfg, err := se.ConfigRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, ErrConfigurationMissing
	}
	return cfg, nil
}

// UpdateConfiguration patches the active configuration in place. The
// configuration is never deleted; there is always at most one active document.
func (se *DefaultSchedulingEngine) UpdateConfiguration(ctx context.Context, upd ConfigUpdate) (*models.AgendaConfig, error) {
	cfg, err := se.GetConfiguration(ctx)
	if err != nil {
		return nil, err
	}

	if upd.StartHour != nil {
		cfg.StartHour = *upd.StartHour
	}
	if upd.EndHour != nil {
		cfg.EndHour = *upd.EndHour
	}
	if upd.SlotMinutes != nil {
		cfg.SlotMinutes = *upd.SlotMinutes
	}
	if upd.WorkingDays != nil {
		cfg.WorkingDays = upd.WorkingDays
	}
	if upd.Timezone != nil {
		cfg.Timezone = *upd.Timezone
	}
	if upd.BlockedDates != nil {
		cfg.BlockedDates = upd.BlockedDates
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	cfg.UpdatedAt = se.now().UnixMilli()
	if err := se.ConfigRepo.Update(ctx, cfg.ID, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *models.AgendaConfig) error {
	if cfg.StartHour < 0 || cfg.EndHour > 24 || cfg.StartHour >= cfg.EndHour {
		return newError(CodeInvalidInput,
			"working window %d-%d is invalid, want 0 <= start < end <= 24", cfg.StartHour, cfg.EndHour)
	}
	if cfg.SlotMinutes <= 0 || 60%cfg.SlotMinutes != 0 {
		return newError(CodeInvalidInput, "slot_minutes %d must be a positive divisor of 60", cfg.SlotMinutes)
	}
	if len(cfg.WorkingDays) == 0 {
		return newError(CodeInvalidInput, "working_days must not be empty")
	}
	for _, d := range cfg.WorkingDays {
		if d < 1 || d > 7 {
			return newError(CodeInvalidInput, "working day %d out of range 1..7", d)
		}
	}
	for _, b := range cfg.BlockedDates {
		if _, err := time.Parse("2006-01-02", b); err != nil {
			return newError(CodeInvalidInput, "blocked date %q is not YYYY-MM-DD", b)
		}
	}
	if _, err := cfg.Location(); err != nil {
		return newError(CodeInvalidInput, "timezone %q is invalid", cfg.Timezone)
	}
	return nil
}
