// Package budget implements budget settings and threshold tracking.
//
// Settings are stored per owner. The two global thresholds (80% and 100%)
// fire one-shot alerts: once fired, an alert stays silent until the owner
// saves settings again, which re-arms both. Per-category budgets are
// classified on every read and carry no one-shot state.
package budget

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"kharcha/internal/core"
)

const (
	TierNone     Tier = "none"
	TierSafe     Tier = "safe"
	TierWarning  Tier = "warning"
	TierExceeded Tier = "exceeded"

	warningRatio  = 0.8
	exceededRatio = 1.0
)

type (
	Tier string

	AlertFlags struct {
		At80  bool
		At100 bool
	}

	Settings struct {
		TotalBudget     core.Money
		CategoryBudgets map[string]core.Money
		Alerts          AlertFlags
		AlertsShown     AlertFlags
	}

	// SettingsInput is what the owner submits; amounts are cents.
	SettingsInput struct {
		TotalBudget     int64
		CategoryBudgets map[string]int64
		Alerts          AlertFlags
	}

	// Alert is a threshold crossing that should be surfaced exactly once
	// per settings generation.
	Alert struct {
		Threshold int // 80 or 100
		Tier      Tier
		Message   string
	}

	Evaluation struct {
		HasBudget  bool
		Budget     core.Money
		Spent      core.Money
		Percentage float64 // capped at 100, one decimal
		Tier       Tier
		Fired      []Alert
	}

	CategoryStatus struct {
		Name       string
		Budget     core.Money
		Spent      core.Money
		Percentage float64
		Tier       Tier
	}

	// Store persists settings per owner.
	Store interface {
		LoadSettings(ctx context.Context, ownerID string) (Settings, bool, error)
		SaveSettings(ctx context.Context, ownerID string, s Settings) error
	}

	Tracker struct {
		store Store
	}
)

var ErrInvalidBudget = errors.New("invalid budget input")

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store}
}

func classify(ratio float64) Tier {
	switch {
	case ratio >= exceededRatio:
		return TierExceeded
	case ratio >= warningRatio:
		return TierWarning
	default:
		return TierSafe
	}
}

// displayPercent caps the ratio at 100% and rounds to one decimal.
func displayPercent(ratio float64) float64 {
	pct := ratio * 100
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}

// ClassifyCategory returns the tier for a single category budget.
// A zero or missing budget yields TierNone.
func ClassifyCategory(spent, budget core.Money) Tier {
	if budget.Cents <= 0 {
		return TierNone
	}
	return classify(float64(spent.Cents) / float64(budget.Cents))
}

// Evaluate computes the budget state for the owner given total expense so
// far. Newly crossed thresholds fire at most once: their shown flags are
// persisted before the evaluation is returned. With no budget configured
// the evaluation short-circuits, so no division ever happens.
func (t *Tracker) Evaluate(ctx context.Context, ownerID string, spent core.Money) (Evaluation, error) {
	s, ok, err := t.store.LoadSettings(ctx, ownerID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("load budget settings: %w", err)
	}
	if !ok || s.TotalBudget.Cents <= 0 {
		return Evaluation{Tier: TierNone}, nil
	}

	ratio := float64(spent.Cents) / float64(s.TotalBudget.Cents)
	ev := Evaluation{
		HasBudget:  true,
		Budget:     s.TotalBudget,
		Spent:      spent,
		Percentage: displayPercent(ratio),
		Tier:       classify(ratio),
	}

	// Exceeded wins over warning: only one alert can fire per evaluation.
	if ratio >= exceededRatio && s.Alerts.At100 && !s.AlertsShown.At100 {
		s.AlertsShown.At100 = true
		ev.Fired = append(ev.Fired, Alert{
			Threshold: 100,
			Tier:      TierExceeded,
			Message:   fmt.Sprintf("Budget exceeded! You have spent %s of your %s budget.", spent, s.TotalBudget),
		})
	} else if ratio >= warningRatio && ratio < exceededRatio && s.Alerts.At80 && !s.AlertsShown.At80 {
		s.AlertsShown.At80 = true
		ev.Fired = append(ev.Fired, Alert{
			Threshold: 80,
			Tier:      TierWarning,
			Message:   fmt.Sprintf("Warning: you have used %.1f%% of your budget.", ratio*100),
		})
	}

	if len(ev.Fired) > 0 {
		if err := t.store.SaveSettings(ctx, ownerID, s); err != nil {
			return Evaluation{}, fmt.Errorf("persist alert state: %w", err)
		}
	}
	return ev, nil
}

// SaveSettings validates and persists new settings, re-arming both alert
// flags. The whole settings object is written in one store call.
func (t *Tracker) SaveSettings(ctx context.Context, ownerID string, in SettingsInput) (Settings, error) {
	if in.TotalBudget <= 0 {
		return Settings{}, ErrInvalidBudget
	}
	s := Settings{
		TotalBudget:     core.Money{Cents: in.TotalBudget},
		CategoryBudgets: make(map[string]core.Money, len(in.CategoryBudgets)),
		Alerts:          in.Alerts,
	}
	for name, cents := range in.CategoryBudgets {
		if cents < 0 {
			cents = 0
		}
		s.CategoryBudgets[name] = core.Money{Cents: cents}
	}
	if err := t.store.SaveSettings(ctx, ownerID, s); err != nil {
		return Settings{}, fmt.Errorf("save budget settings: %w", err)
	}
	return s, nil
}

// Settings loads the owner's settings; the second result is false when the
// owner has never saved any.
func (t *Tracker) Settings(ctx context.Context, ownerID string) (Settings, bool, error) {
	return t.store.LoadSettings(ctx, ownerID)
}

// CategoryStatuses classifies every configured category budget against the
// given per-category spending.
func (t *Tracker) CategoryStatuses(ctx context.Context, ownerID string, spending map[string]core.Money) ([]CategoryStatus, error) {
	s, ok, err := t.store.LoadSettings(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load budget settings: %w", err)
	}
	if !ok {
		return nil, nil
	}
	out := make([]CategoryStatus, 0, len(s.CategoryBudgets))
	for name, limit := range s.CategoryBudgets {
		if limit.Cents <= 0 {
			continue
		}
		spent := spending[name]
		out = append(out, CategoryStatus{
			Name:       name,
			Budget:     limit,
			Spent:      spent,
			Percentage: displayPercent(float64(spent.Cents) / float64(limit.Cents)),
			Tier:       ClassifyCategory(spent, limit),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
