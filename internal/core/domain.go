package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	Kind string

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID         int64 // Database ID for operations
		OwnerID    string
		Kind       Kind
		Amount     Money
		Category   string
		Note       string
		OccurredAt time.Time
	}

	Category struct {
		ID      int64
		OwnerID string
		Name    string
	}

	// Inquiry is a sales contact request submitted from the public site.
	Inquiry struct {
		ID        int64
		FirstName string
		LastName  string
		Email     string
		Company   string
		Plan      string
		Message   string
		CreatedAt time.Time
	}
)

var (
	ErrInvalidKind      = errors.New("invalid transaction kind")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyOwner       = errors.New("empty owner")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// DefaultCategories seeds every new account; owners can add their own on top.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Shopping",
	"Entertainment",
	"Health",
	"Bills",
	"Salary",
	"Investment",
}

func (k Kind) Validate() error {
	switch k {
	case Income, Expense:
		return nil
	default:
		return ErrInvalidKind
	}
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if len(t.Note) > 200 {
		return errors.New("note too long (max 200 characters)")
	}
	if t.OccurredAt.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.OwnerID) == "" {
		return ErrEmptyOwner
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategory
	}
	if len(c.Name) > 50 {
		return errors.New("category name too long (max 50 characters)")
	}
	return nil
}

func (q Inquiry) Validate() error {
	if strings.TrimSpace(q.FirstName) == "" {
		return errors.New("empty first name")
	}
	if strings.TrimSpace(q.LastName) == "" {
		return errors.New("empty last name")
	}
	if !strings.Contains(q.Email, "@") {
		return errors.New("invalid email")
	}
	if len(q.Message) > 2000 {
		return errors.New("message too long (max 2000 characters)")
	}
	return nil
}
