package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/store/memory"
)

type fakeExportPublisher struct {
	ids  []int64
	fail bool
}

func (f *fakeExportPublisher) PublishExport(_ context.Context, id int64) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.ids = append(f.ids, id)
	return nil
}

func validTx() core.Transaction {
	return core.Transaction{
		OwnerID: "u1", Kind: core.Expense, Amount: core.Money{Cents: 1000},
		Category: "Food", OccurredAt: time.Now(),
	}
}

func TestCreatePublishesExport(t *testing.T) {
	pub := &fakeExportPublisher{}
	svc := NewTransactionService(memory.New(), pub)

	saved, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(pub.ids) != 1 || pub.ids[0] != saved.ID {
		t.Fatalf("expected export for id %d, got %v", saved.ID, pub.ids)
	}
}

func TestCreateSurvivesBrokerOutage(t *testing.T) {
	pub := &fakeExportPublisher{fail: true}
	svc := NewTransactionService(memory.New(), pub)

	saved, err := svc.Create(context.Background(), validTx())
	if err != nil {
		t.Fatalf("broker failure must not fail the request: %v", err)
	}
	list, _ := svc.List(context.Background(), "u1")
	if len(list) != 1 || list[0].ID != saved.ID {
		t.Fatalf("transaction must still be saved locally")
	}
}

func TestCreateWithoutPublisher(t *testing.T) {
	svc := NewTransactionService(memory.New(), nil)
	if _, err := svc.Create(context.Background(), validTx()); err != nil {
		t.Fatalf("create without publisher: %v", err)
	}
}

type fakeAlertPublisher struct {
	msgs []*amqp.AlertMessage
	fail bool
}

func (f *fakeAlertPublisher) PublishAlert(_ context.Context, msg *amqp.AlertMessage) error {
	if f.fail {
		return errors.New("broker down")
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func TestBudgetServicePublishesFiredAlerts(t *testing.T) {
	st := memory.New()
	pub := &fakeAlertPublisher{}
	svc := NewBudgetService(budget.NewTracker(st), pub)
	ctx := context.Background()

	if _, err := svc.SaveSettings(ctx, "u1", budget.SettingsInput{
		TotalBudget: 100000,
		Alerts:      budget.AlertFlags{At100: true},
	}); err != nil {
		t.Fatalf("save: %v", err)
	}

	ev, err := svc.Evaluate(ctx, "u1", core.Money{Cents: 150000})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(ev.Fired) != 1 || len(pub.msgs) != 1 {
		t.Fatalf("expected one published alert, got %d fired / %d published", len(ev.Fired), len(pub.msgs))
	}
	if pub.msgs[0].OwnerID != "u1" || pub.msgs[0].Threshold != 100 {
		t.Fatalf("alert message wrong: %+v", pub.msgs[0])
	}

	// publish failure stays best-effort and does not re-arm the alert
	pub.fail = true
	ev, err = svc.Evaluate(ctx, "u1", core.Money{Cents: 160000})
	if err != nil || len(ev.Fired) != 0 {
		t.Fatalf("one-shot alert must stay consumed (err=%v, fired=%v)", err, ev.Fired)
	}
}
