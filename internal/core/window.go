package core

import (
	"errors"
	"time"
)

const (
	WindowAll     Window = "all"
	WindowWeek    Window = "weekly"
	WindowMonth   Window = "monthly"
	WindowQuarter Window = "quarterly"
	WindowYear    Window = "yearly"
)

// Window selects the trailing period a summary covers.
type Window string

var ErrInvalidWindow = errors.New("invalid window")

// ParseWindow maps a request parameter to a Window. The empty string
// defaults to the all-time window.
func ParseWindow(s string) (Window, error) {
	switch s {
	case "", "all":
		return WindowAll, nil
	case "weekly", "7d":
		return WindowWeek, nil
	case "monthly", "1m":
		return WindowMonth, nil
	case "quarterly", "3m":
		return WindowQuarter, nil
	case "yearly", "1y":
		return WindowYear, nil
	default:
		return "", ErrInvalidWindow
	}
}

// Cutoff returns the start of the window relative to now. Transactions at or
// after the cutoff belong to the window; for WindowAll the zero time is
// returned so every transaction qualifies.
func (w Window) Cutoff(now time.Time) time.Time {
	switch w {
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	case WindowQuarter:
		return now.AddDate(0, -3, 0)
	case WindowYear:
		return now.AddDate(-1, 0, 0)
	default:
		return time.Time{}
	}
}

// Contains reports whether ts falls inside the window ending at now.
func (w Window) Contains(ts, now time.Time) bool {
	if w == WindowAll {
		return true
	}
	return !ts.Before(w.Cutoff(now))
}
