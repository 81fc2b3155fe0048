package utils

import (
	"testing"
	"time"
)

func TestDaysToExpiry(t *testing.T) {
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC) // Monday afternoon

	if got := DaysToExpiry("2025-06-06", now); got != 4 {
		t.Errorf("DaysToExpiry Friday = %v, want 4", got)
	}
	if got := DaysToExpiry("2025-06-02", now); got != 0 {
		t.Errorf("DaysToExpiry same day = %v, want 0", got)
	}
	if got := DaysToExpiry("2025-05-30", now); got != 0 {
		t.Errorf("DaysToExpiry past date = %v, want 0 (clamped)", got)
	}
	if got := DaysToExpiry("garbage", now); got != 0 {
		t.Errorf("DaysToExpiry unparseable = %v, want 0", got)
	}
}

func TestDaysToExpiryAcrossDSTTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	// Spring forward: 2026-03-08 drops an hour in New York. The span from
	// Mar 7 to Mar 13 is 6 calendar days regardless.
	now := time.Date(2026, 3, 7, 14, 30, 0, 0, ny)
	if got := DaysToExpiry("2026-03-13", now); got != 6 {
		t.Errorf("DaysToExpiry across spring forward = %v, want 6", got)
	}

	// Fall back: 2026-11-01 adds an hour.
	now = time.Date(2026, 10, 30, 14, 30, 0, 0, ny)
	if got := DaysToExpiry("2026-11-05", now); got != 6 {
		t.Errorf("DaysToExpiry across fall back = %v, want 6", got)
	}
}

func TestTradingHoursToExpiry(t *testing.T) {
	// Expiry day counts as a full session: 0DTE still has 6.5 hours.
	if got := TradingHoursToExpiry(0); got != 6.5 {
		t.Errorf("0DTE hours = %v, want 6.5", got)
	}
	if got := TradingHoursToExpiry(4); got != 32.5 {
		t.Errorf("5-session horizon = %v, want 32.5", got)
	}
}

func TestNearestExpiry(t *testing.T) {
	target := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	exps := []string{"2025-06-02", "2025-06-04", "2025-06-06", "2025-06-13", "2025-06-20", "2025-07-18"}

	if got := NearestExpiry(exps, target, 5); got != "2025-06-02" && got != "2025-06-04" {
		t.Errorf("NearestExpiry = %v, want one of the 1-day-off entries", got)
	}
	if got := NearestExpiry(nil, target, 5); got != "" {
		t.Errorf("NearestExpiry on empty list = %q, want empty", got)
	}
}

func TestNextMonthlyExpiration(t *testing.T) {
	// June 2025: third Friday is the 20th.
	now := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	if got := NextMonthlyExpiration(now); got != "2025-06-20" {
		t.Errorf("NextMonthlyExpiration = %v, want 2025-06-20", got)
	}

	// Past the third Friday: roll to July (the 18th).
	now = time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC)
	if got := NextMonthlyExpiration(now); got != "2025-07-18" {
		t.Errorf("NextMonthlyExpiration after expiry = %v, want 2025-07-18", got)
	}
}
