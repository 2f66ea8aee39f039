package models_test

import (
	"testing"
	"time"

	"ledgerly/internal/models"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	in := time.Date(2025, time.March, 10, 23, 45, 12, 999, loc)

	got := models.DateOf(in)
	want := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRemaining(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		total string
		want  string
	}{
		{"unspent budget", "100.00", "30.00", "70.00"},
		{"exactly spent", "100.00", "100.00", "0.00"},
		{"overspent floors at zero", "100.00", "130.00", "0.00"},
		{"zero budget", "0.00", "10.00", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.Remaining(dec(t, tt.base), dec(t, tt.total))
			if !got.Equal(dec(t, tt.want)) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		total string
		want  models.DayStatus
	}{
		{"below half usage", "100.00", "49.99", models.DayStatusUnderspent},
		{"exactly half usage", "100.00", "50.00", models.DayStatusBalanced},
		{"just under full usage", "100.00", "99.99", models.DayStatusBalanced},
		{"exactly full usage", "100.00", "100.00", models.DayStatusOverspent},
		{"over budget", "100.00", "130.00", models.DayStatusOverspent},
		{"zero budget untouched", "0.00", "0.00", models.DayStatusUnderspent},
		{"zero budget with spend", "0.00", "0.01", models.DayStatusOverspent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := models.StatusFor(dec(t, tt.base), dec(t, tt.total))
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestUsagePercent(t *testing.T) {
	if got := models.UsagePercent(dec(t, "100.00"), dec(t, "25.00")); got != 25 {
		t.Errorf("expected 25, got %f", got)
	}
	if got := models.UsagePercent(dec(t, "0.00"), dec(t, "25.00")); got != 0 {
		t.Errorf("expected 0 for zero budget, got %f", got)
	}
}
