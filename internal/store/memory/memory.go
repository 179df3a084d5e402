// Package memory implements the store ports in process memory. It backs
// tests and the zero-dependency development backend.
package memory

import (
	"context"
	"sort"
	"sync"

	"kharcha/internal/budget"
	"kharcha/internal/core"
	"kharcha/internal/store"
)

type Store struct {
	mu        sync.Mutex
	nextID    int64
	txs       []core.Transaction
	cats      map[string][]string // ownerID -> category names
	settings  map[string]budget.Settings
	inquiries []core.Inquiry
}

func New() *Store {
	return &Store{
		nextID:   1,
		cats:     make(map[string][]string),
		settings: make(map[string]budget.Settings),
	}
}

func (s *Store) AddTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.nextID
	s.nextID++
	s.txs = append(s.txs, t)
	return t, nil
}

func (s *Store) ListTransactions(_ context.Context, ownerID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, t := range s.txs {
		if t.OwnerID == ownerID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) DeleteTransaction(_ context.Context, ownerID string, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.txs {
		if t.ID == id && t.OwnerID == ownerID {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ListCategories(_ context.Context, ownerID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	own := s.cats[ownerID]
	if len(own) == 0 {
		return append([]string(nil), core.DefaultCategories...), nil
	}
	return append([]string(nil), own...), nil
}

func (s *Store) AddCategory(_ context.Context, c core.Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	own := s.cats[c.OwnerID]
	if len(own) == 0 {
		own = append([]string(nil), core.DefaultCategories...)
	}
	for _, name := range own {
		if name == c.Name {
			// unique per owner, adding again is a no-op
			s.cats[c.OwnerID] = own
			return nil
		}
	}
	s.cats[c.OwnerID] = append(own, c.Name)
	return nil
}

func (s *Store) LoadSettings(_ context.Context, ownerID string) (budget.Settings, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.settings[ownerID]
	if !ok {
		return budget.Settings{}, false, nil
	}
	cp := set
	cp.CategoryBudgets = make(map[string]core.Money, len(set.CategoryBudgets))
	for k, v := range set.CategoryBudgets {
		cp.CategoryBudgets[k] = v
	}
	return cp, true, nil
}

func (s *Store) SaveSettings(_ context.Context, ownerID string, set budget.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := set
	cp.CategoryBudgets = make(map[string]core.Money, len(set.CategoryBudgets))
	for k, v := range set.CategoryBudgets {
		cp.CategoryBudgets[k] = v
	}
	s.settings[ownerID] = cp
	return nil
}

func (s *Store) AddInquiry(_ context.Context, q core.Inquiry) (core.Inquiry, error) {
	if err := q.Validate(); err != nil {
		return core.Inquiry{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.nextID
	s.nextID++
	s.inquiries = append(s.inquiries, q)
	return q, nil
}

func (s *Store) ListInquiries(_ context.Context) ([]core.Inquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Inquiry(nil), s.inquiries...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) DeleteInquiry(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, q := range s.inquiries {
		if q.ID == id {
			s.inquiries = append(s.inquiries[:i], s.inquiries[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) CountOwners(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owners := map[string]struct{}{}
	for _, t := range s.txs {
		owners[t.OwnerID] = struct{}{}
	}
	return int64(len(owners)), nil
}

func (s *Store) ListAllTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.txs...), nil
}

var (
	_ store.TransactionStore = (*Store)(nil)
	_ store.CategoryStore    = (*Store)(nil)
	_ store.InquiryStore     = (*Store)(nil)
	_ store.AdminStore       = (*Store)(nil)
	_ budget.Store           = (*Store)(nil)
)
