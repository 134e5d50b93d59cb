package model

import (
	"testing"
	"time"
)

func TestBookingCancelIsTerminalAndIdempotent(t *testing.T) {
	b := &Booking{
		ProviderID: "prov_1",
		ClientID:   "cli_1",
		StartTime:  time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		Status:     BookingStatusConfirmed,
	}

	if !b.IsConfirmed() {
		t.Fatal("new booking should be confirmed")
	}

	b.Cancel()
	if b.Status != BookingStatusCancelled {
		t.Fatalf("Status = %q after cancel, want %q", b.Status, BookingStatusCancelled)
	}

	// Second cancel is a no-op, not an error.
	b.Cancel()
	if b.Status != BookingStatusCancelled {
		t.Fatalf("Status = %q after double cancel, want %q", b.Status, BookingStatusCancelled)
	}
}

func TestBookingDate(t *testing.T) {
	b := &Booking{
		StartTime: time.Date(2026, 3, 10, 23, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC),
	}
	if got := b.Date(); got != "2026-03-10" {
		t.Errorf("Date() = %q, want 2026-03-10 (keyed off start)", got)
	}
}

func TestRuleAppliesTo(t *testing.T) {
	tuesday := 2
	weekly := &AvailabilityRule{Kind: RuleKindWeekly, Weekday: &tuesday}
	specific := &AvailabilityRule{Kind: RuleKindSpecificDate, Date: "2026-03-10"}

	tests := []struct {
		name    string
		rule    *AvailabilityRule
		date    string
		weekday int
		want    bool
	}{
		{"weekly matches weekday", weekly, "2026-03-10", 2, true},
		{"weekly other weekday", weekly, "2026-03-11", 3, false},
		{"specific matches date", specific, "2026-03-10", 2, true},
		{"specific other date", specific, "2026-03-17", 2, false},
		{"weekly without weekday", &AvailabilityRule{Kind: RuleKindWeekly}, "2026-03-10", 2, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.AppliesTo(tt.date, tt.weekday); got != tt.want {
				t.Errorf("AppliesTo(%q, %d) = %v, want %v", tt.date, tt.weekday, got, tt.want)
			}
		})
	}
}
