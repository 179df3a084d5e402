package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/store"

	_ "modernc.org/sqlite"
)

// Export statuses for the spreadsheet mirror queue.
const (
	ExportPending = "pending"
	ExportDone    = "exported"
	ExportError   = "error"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) AddTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (owner_id, kind, amount_cents, category, note, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.OwnerID, string(t.Kind), t.Amount.Cents, t.Category, t.Note, t.OccurredAt.UTC())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	t.ID = id

	slog.InfoContext(ctx, "Transaction saved",
		"id", t.ID,
		"owner", t.OwnerID,
		"kind", t.Kind,
		"amount_cents", t.Amount.Cents,
		"category", t.Category)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, ownerID string) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, kind, amount_cents, category, note, occurred_at
		 FROM transactions WHERE owner_id = ? ORDER BY occurred_at DESC, id DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, ownerID string, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM transactions WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, kind, amount_cents, category, note, occurred_at
		 FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT name FROM categories WHERE owner_id = ? ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	if len(out) == 0 {
		return append([]string(nil), core.DefaultCategories...), nil
	}
	return out, nil
}

func (r *SQLiteRepository) AddCategory(ctx context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	// First custom category materializes the default set for the owner.
	var n int64
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE owner_id = ?`, c.OwnerID).Scan(&n); err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n == 0 {
		for _, name := range core.DefaultCategories {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO categories (owner_id, name) VALUES (?, ?)`,
				c.OwnerID, name); err != nil {
				return fmt.Errorf("seed default category: %w", err)
			}
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO categories (owner_id, name) VALUES (?, ?)`,
		c.OwnerID, c.Name); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) LoadSettings(ctx context.Context, ownerID string) (budget.Settings, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT total_budget_cents, category_budgets, alert_at80, alert_at100, shown_at80, shown_at100
		 FROM budget_settings WHERE owner_id = ?`, ownerID)

	var (
		total   int64
		catJSON string
		s       budget.Settings
	)
	err := row.Scan(&total, &catJSON, &s.Alerts.At80, &s.Alerts.At100, &s.AlertsShown.At80, &s.AlertsShown.At100)
	if errors.Is(err, sql.ErrNoRows) {
		return budget.Settings{}, false, nil
	}
	if err != nil {
		return budget.Settings{}, false, fmt.Errorf("load budget settings: %w", err)
	}
	s.TotalBudget = core.Money{Cents: total}

	var cats map[string]int64
	if err := json.Unmarshal([]byte(catJSON), &cats); err != nil {
		return budget.Settings{}, false, fmt.Errorf("decode category budgets: %w", err)
	}
	s.CategoryBudgets = make(map[string]core.Money, len(cats))
	for name, cents := range cats {
		s.CategoryBudgets[name] = core.Money{Cents: cents}
	}
	return s, true, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, ownerID string, s budget.Settings) error {
	cats := make(map[string]int64, len(s.CategoryBudgets))
	for name, m := range s.CategoryBudgets {
		cats[name] = m.Cents
	}
	catJSON, err := json.Marshal(cats)
	if err != nil {
		return fmt.Errorf("encode category budgets: %w", err)
	}

	// Single upsert keeps the settings row atomic, shown flags included.
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO budget_settings (owner_id, total_budget_cents, category_budgets, alert_at80, alert_at100, shown_at80, shown_at100, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (owner_id) DO UPDATE SET
		   total_budget_cents = excluded.total_budget_cents,
		   category_budgets = excluded.category_budgets,
		   alert_at80 = excluded.alert_at80,
		   alert_at100 = excluded.alert_at100,
		   shown_at80 = excluded.shown_at80,
		   shown_at100 = excluded.shown_at100,
		   updated_at = CURRENT_TIMESTAMP`,
		ownerID, s.TotalBudget.Cents, string(catJSON),
		s.Alerts.At80, s.Alerts.At100, s.AlertsShown.At80, s.AlertsShown.At100)
	if err != nil {
		return fmt.Errorf("save budget settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) AddInquiry(ctx context.Context, q core.Inquiry) (core.Inquiry, error) {
	if err := q.Validate(); err != nil {
		return core.Inquiry{}, err
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO inquiries (first_name, last_name, email, company, plan, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		q.FirstName, q.LastName, q.Email, q.Company, q.Plan, q.Message, q.CreatedAt)
	if err != nil {
		return core.Inquiry{}, fmt.Errorf("insert inquiry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Inquiry{}, fmt.Errorf("last insert id: %w", err)
	}
	q.ID = id
	return q, nil
}

func (r *SQLiteRepository) ListInquiries(ctx context.Context) ([]core.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, email, company, plan, message, created_at
		 FROM inquiries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list inquiries: %w", err)
	}
	defer rows.Close()

	var out []core.Inquiry
	for rows.Next() {
		var q core.Inquiry
		if err := rows.Scan(&q.ID, &q.FirstName, &q.LastName, &q.Email, &q.Company, &q.Plan, &q.Message, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inquiry: %w", err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inquiries: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteInquiry(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inquiry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) CountOwners(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT owner_id) FROM transactions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListAllTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, kind, amount_cents, category, note, occurred_at
		 FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// ListPendingExports returns transactions awaiting the spreadsheet mirror.
func (r *SQLiteRepository) ListPendingExports(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, kind, amount_cents, category, note, occurred_at
		 FROM transactions WHERE export_status = ? ORDER BY id LIMIT ?`,
		ExportPending, limit)
	if err != nil {
		return nil, fmt.Errorf("list pending exports: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = ? WHERE id = ?`, ExportDone, id); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "id", id)
	return nil
}

func (r *SQLiteRepository) MarkExportError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET export_status = ? WHERE id = ?`, ExportError, id); err != nil {
		return fmt.Errorf("mark export error: %w", err)
	}
	slog.WarnContext(ctx, "Transaction marked with export error", "id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		t    core.Transaction
		kind string
	)
	err := row.Scan(&t.ID, &t.OwnerID, &kind, &t.Amount.Cents, &t.Category, &t.Note, &t.OccurredAt)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Kind = core.Kind(kind)
	return t, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

var (
	_ store.TransactionStore = (*SQLiteRepository)(nil)
	_ store.CategoryStore    = (*SQLiteRepository)(nil)
	_ store.InquiryStore     = (*SQLiteRepository)(nil)
	_ store.AdminStore       = (*SQLiteRepository)(nil)
	_ budget.Store           = (*SQLiteRepository)(nil)
)
