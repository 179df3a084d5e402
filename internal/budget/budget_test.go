package budget

import (
	"context"
	"errors"
	"testing"

	"kharcha/internal/core"
)

type fakeStore struct {
	settings map[string]Settings
	saves    int
	failLoad bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{settings: make(map[string]Settings)}
}

func (f *fakeStore) LoadSettings(_ context.Context, ownerID string) (Settings, bool, error) {
	if f.failLoad {
		return Settings{}, false, errors.New("store down")
	}
	s, ok := f.settings[ownerID]
	return s, ok, nil
}

func (f *fakeStore) SaveSettings(_ context.Context, ownerID string, s Settings) error {
	f.settings[ownerID] = s
	f.saves++
	return nil
}

func TestEvaluateNoBudget(t *testing.T) {
	tr := NewTracker(newFakeStore())
	ev, err := tr.Evaluate(context.Background(), "u1", core.Money{Cents: 999999})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ev.HasBudget || ev.Tier != TierNone || len(ev.Fired) != 0 {
		t.Fatalf("expected empty no-budget evaluation, got %+v", ev)
	}
}

func TestEvaluateTiers(t *testing.T) {
	cases := []struct {
		spent int64
		pct   float64
		tier  Tier
	}{
		{0, 0, TierSafe},
		{75000, 75.0, TierSafe},
		{79999, 80.0, TierSafe}, // 79.999 rounds up on display, tier uses the raw ratio
		{80000, 80.0, TierWarning},
		{99999, 100.0, TierWarning},
		{100000, 100.0, TierExceeded},
		{150000, 100.0, TierExceeded}, // display capped, tier from uncapped ratio
	}
	for _, tc := range cases {
		st := newFakeStore()
		tr := NewTracker(st)
		if _, err := tr.SaveSettings(context.Background(), "u1", SettingsInput{TotalBudget: 100000}); err != nil {
			t.Fatalf("save: %v", err)
		}
		ev, err := tr.Evaluate(context.Background(), "u1", core.Money{Cents: tc.spent})
		if err != nil {
			t.Fatalf("spent %d: %v", tc.spent, err)
		}
		if ev.Tier != tc.tier {
			t.Fatalf("spent %d: expected tier %s, got %s", tc.spent, tc.tier, ev.Tier)
		}
		if ev.Percentage != tc.pct {
			t.Fatalf("spent %d: expected %.1f%%, got %.1f%%", tc.spent, tc.pct, ev.Percentage)
		}
	}
}

func TestAlertsFireOncePerGeneration(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000, Alerts: AlertFlags{At80: true, At100: true}}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ev, err := tr.Evaluate(ctx, "u1", core.Money{Cents: 85000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 1 || ev.Fired[0].Threshold != 80 {
		t.Fatalf("expected one 80%% alert, got %+v", ev.Fired)
	}

	// same generation: re-evaluating in the warning band stays silent
	ev, err = tr.Evaluate(ctx, "u1", core.Money{Cents: 90000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 0 {
		t.Fatalf("80%% alert must be one-shot, got %+v", ev.Fired)
	}

	// crossing 100% still fires that alert once
	ev, err = tr.Evaluate(ctx, "u1", core.Money{Cents: 120000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 1 || ev.Fired[0].Threshold != 100 {
		t.Fatalf("expected one 100%% alert, got %+v", ev.Fired)
	}
	ev, _ = tr.Evaluate(ctx, "u1", core.Money{Cents: 130000})
	if len(ev.Fired) != 0 {
		t.Fatalf("100%% alert must be one-shot, got %+v", ev.Fired)
	}
}

func TestExceededSuppressesWarningAlert(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000, Alerts: AlertFlags{At80: true, At100: true}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	// jumping straight past 100% fires only the exceeded alert
	ev, err := tr.Evaluate(ctx, "u1", core.Money{Cents: 110000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 1 || ev.Fired[0].Threshold != 100 {
		t.Fatalf("expected only the 100%% alert, got %+v", ev.Fired)
	}
	// the 80% flag is still armed and can fire later in its own band
	ev, err = tr.Evaluate(ctx, "u1", core.Money{Cents: 90000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 1 || ev.Fired[0].Threshold != 80 {
		t.Fatalf("expected the armed 80%% alert, got %+v", ev.Fired)
	}
}

func TestSaveSettingsRearmsAlerts(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000, Alerts: AlertFlags{At100: true}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if ev, _ := tr.Evaluate(ctx, "u1", core.Money{Cents: 100000}); len(ev.Fired) != 1 {
		t.Fatalf("expected first alert")
	}
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000, Alerts: AlertFlags{At100: true}}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	if ev, _ := tr.Evaluate(ctx, "u1", core.Money{Cents: 100000}); len(ev.Fired) != 1 {
		t.Fatalf("resave must re-arm the alert")
	}
}

func TestDisabledAlertsStaySilent(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ev, err := tr.Evaluate(ctx, "u1", core.Money{Cents: 200000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 0 {
		t.Fatalf("disabled alerts must not fire, got %+v", ev.Fired)
	}
	if ev.Tier != TierExceeded {
		t.Fatalf("tier still reflects spending, got %s", ev.Tier)
	}
}

func TestBudgetShrinkScenario(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	spent := core.Money{Cents: 75000} // Rs. 750

	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 100000, Alerts: AlertFlags{At100: true}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	ev, err := tr.Evaluate(ctx, "u1", spent)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.Percentage != 75.0 || ev.Tier != TierSafe {
		t.Fatalf("1000 budget: expected 75.0%%/safe, got %.1f%%/%s", ev.Percentage, ev.Tier)
	}

	// owner lowers the budget below what is already spent
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 50000, Alerts: AlertFlags{At100: true}}); err != nil {
		t.Fatalf("resave: %v", err)
	}
	ev, err = tr.Evaluate(ctx, "u1", spent)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if ev.Tier != TierExceeded {
		t.Fatalf("500 budget: expected exceeded (ratio 1.5), got %s", ev.Tier)
	}
	if ev.Percentage != 100.0 {
		t.Fatalf("display percentage must cap at 100.0, got %.1f", ev.Percentage)
	}
	if len(ev.Fired) != 1 || ev.Fired[0].Threshold != 100 {
		t.Fatalf("expected the exceeded alert to fire once, got %+v", ev.Fired)
	}
}

func TestSaveSettingsValidation(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()

	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: 0}); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("zero total: expected ErrInvalidBudget, got %v", err)
	}
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{TotalBudget: -100}); !errors.Is(err, ErrInvalidBudget) {
		t.Fatalf("negative total: expected ErrInvalidBudget, got %v", err)
	}
	if st.saves != 0 {
		t.Fatalf("rejected input must not touch the store")
	}

	s, err := tr.SaveSettings(ctx, "u1", SettingsInput{
		TotalBudget:     100000,
		CategoryBudgets: map[string]int64{"Food": 20000, "Transport": -500},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if s.CategoryBudgets["Transport"].Cents != 0 {
		t.Fatalf("negative category budget must coerce to 0, got %d", s.CategoryBudgets["Transport"].Cents)
	}
	if s.AlertsShown.At80 || s.AlertsShown.At100 {
		t.Fatalf("shown flags must reset on save")
	}
}

func TestClassifyCategory(t *testing.T) {
	cases := []struct {
		spent, limit int64
		tier         Tier
	}{
		{0, 0, TierNone},
		{500, 0, TierNone},
		{100, 1000, TierSafe},
		{800, 1000, TierWarning},
		{1000, 1000, TierExceeded},
		{1500, 1000, TierExceeded},
	}
	for _, tc := range cases {
		got := ClassifyCategory(core.Money{Cents: tc.spent}, core.Money{Cents: tc.limit})
		if got != tc.tier {
			t.Fatalf("%d/%d: expected %s, got %s", tc.spent, tc.limit, tc.tier, got)
		}
	}
}

func TestCategoryStatuses(t *testing.T) {
	st := newFakeStore()
	tr := NewTracker(st)
	ctx := context.Background()
	if _, err := tr.SaveSettings(ctx, "u1", SettingsInput{
		TotalBudget:     100000,
		CategoryBudgets: map[string]int64{"Food": 10000, "Bills": 5000, "Unused": 0},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}
	statuses, err := tr.CategoryStatuses(ctx, "u1", map[string]core.Money{
		"Food":  {Cents: 9000},
		"Bills": {Cents: 6000},
	})
	if err != nil {
		t.Fatalf("statuses: %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("zero-limit categories must be skipped, got %+v", statuses)
	}
	if statuses[0].Name != "Bills" || statuses[0].Tier != TierExceeded {
		t.Fatalf("expected Bills exceeded first, got %+v", statuses[0])
	}
	if statuses[1].Name != "Food" || statuses[1].Tier != TierWarning || statuses[1].Percentage != 90.0 {
		t.Fatalf("expected Food warning at 90.0%%, got %+v", statuses[1])
	}
}

func TestEvaluateLoadFailure(t *testing.T) {
	st := newFakeStore()
	st.failLoad = true
	tr := NewTracker(st)
	if _, err := tr.Evaluate(context.Background(), "u1", core.Money{Cents: 1}); err == nil {
		t.Fatalf("expected wrapped store error")
	}
}
