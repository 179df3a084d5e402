package services

import (
	"context"
	"log/slog"

	"kharcha/internal/amqp"
	"kharcha/internal/budget"
	"kharcha/internal/core"
	applog "kharcha/internal/log"
)

// AlertPublisher enqueues fired budget alerts for delivery.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, msg *amqp.AlertMessage) error
}

// BudgetService wraps the tracker and pushes fired alerts onto the alert
// queue. Alert delivery is best-effort; the one-shot flags are already
// persisted by the tracker, so a lost message is never re-fired.
type BudgetService struct {
	tracker   *budget.Tracker
	publisher AlertPublisher
}

func NewBudgetService(tracker *budget.Tracker, publisher AlertPublisher) *BudgetService {
	return &BudgetService{tracker: tracker, publisher: publisher}
}

func (s *BudgetService) Evaluate(ctx context.Context, ownerID string, spent core.Money) (budget.Evaluation, error) {
	ev, err := s.tracker.Evaluate(ctx, ownerID, spent)
	if err != nil {
		return budget.Evaluation{}, err
	}
	if s.publisher != nil {
		for _, a := range ev.Fired {
			msg := amqp.NewAlertMessage(ownerID, a.Threshold, string(a.Tier), a.Message)
			if err := s.publisher.PublishAlert(ctx, msg); err != nil {
				fields := applog.NewFields().
					WithComponent(applog.ComponentBudget).
					WithOperation(applog.OpEvaluate).
					WithError(err)
				fields[applog.FieldOwner] = ownerID
				fields[applog.FieldThreshold] = a.Threshold
				slog.ErrorContext(ctx, "Failed to publish budget alert", fields.ToSlice()...)
			}
		}
	}
	return ev, nil
}

func (s *BudgetService) SaveSettings(ctx context.Context, ownerID string, in budget.SettingsInput) (budget.Settings, error) {
	return s.tracker.SaveSettings(ctx, ownerID, in)
}

func (s *BudgetService) Settings(ctx context.Context, ownerID string) (budget.Settings, bool, error) {
	return s.tracker.Settings(ctx, ownerID)
}

func (s *BudgetService) CategoryStatuses(ctx context.Context, ownerID string, spending map[string]core.Money) ([]budget.CategoryStatus, error) {
	return s.tracker.CategoryStatuses(ctx, ownerID, spending)
}
