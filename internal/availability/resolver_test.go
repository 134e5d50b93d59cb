package availability

import (
	"context"
	"io"
	"testing"
	"time"

	exceptionserrors "slotify/internal/exceptions/errors"
	"slotify/pkg/logger"
	"slotify/pkg/model"
)

type fakeRuleSource struct {
	rules []*model.AvailabilityRule
	err   error
}

func (f *fakeRuleSource) FindByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityRule, error) {
	return f.rules, f.err
}

type fakeExceptionSource struct {
	exception *model.AvailabilityException
	err       error
}

func (f *fakeExceptionSource) FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.exception == nil {
		return nil, exceptionserrors.ErrNotFound
	}
	return f.exception, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func newTestResolver(rules []*model.AvailabilityRule, exception *model.AvailabilityException) *Resolver {
	return NewResolver(
		&fakeRuleSource{rules: rules},
		&fakeExceptionSource{exception: exception},
		testLogger(),
	)
}

func intPtr(v int) *int { return &v }

func weeklyRule(id string, weekday int, start, end string, slotMin int) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		ID:              id,
		ProviderID:      "prov-1",
		Kind:            model.RuleKindWeekly,
		Weekday:         intPtr(weekday),
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: slotMin,
	}
}

func specificRule(id, date, start, end string, slotMin int) *model.AvailabilityRule {
	return &model.AvailabilityRule{
		ID:              id,
		ProviderID:      "prov-1",
		Kind:            model.RuleKindSpecificDate,
		Date:            date,
		StartTime:       start,
		EndTime:         end,
		SlotDurationMin: slotMin,
	}
}

// 2026-03-02 is a Monday.
const monday = "2026-03-02"

func TestResolveWeeklyRule(t *testing.T) {
	r := newTestResolver([]*model.AvailabilityRule{
		weeklyRule("r1", 1, "09:00", "17:00", 30),
	}, nil)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("expected a window, got nil")
	}

	wantStart := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 2, 17, 0, 0, 0, time.UTC)
	if !window.Window.Start.Equal(wantStart) || !window.Window.End.Equal(wantEnd) {
		t.Errorf("window = %v..%v, want %v..%v", window.Window.Start, window.Window.End, wantStart, wantEnd)
	}
	if window.SlotDuration != 30*time.Minute {
		t.Errorf("slot duration = %v, want 30m", window.SlotDuration)
	}
	if window.Source != SourceRule {
		t.Errorf("source = %q, want %q", window.Source, SourceRule)
	}
	if window.Rule == nil || window.Rule.ID != "r1" {
		t.Errorf("rule not carried on window: %+v", window.Rule)
	}
}

func TestResolveNoApplicableRule(t *testing.T) {
	r := newTestResolver([]*model.AvailabilityRule{
		weeklyRule("r1", 3, "09:00", "17:00", 30),
	}, nil)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("expected nil window for non-matching weekday, got %+v", window)
	}
}

func TestResolveSpecificDateBeatsWeekly(t *testing.T) {
	r := newTestResolver([]*model.AvailabilityRule{
		weeklyRule("r1", 1, "09:00", "17:00", 30),
		specificRule("r2", monday, "10:00", "12:00", 60),
	}, nil)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("expected a window")
	}
	if window.Rule.ID != "r2" {
		t.Errorf("selected rule = %q, want specific-date rule r2", window.Rule.ID)
	}
	if window.SlotDuration != time.Hour {
		t.Errorf("slot duration = %v, want 1h", window.SlotDuration)
	}
}

func TestResolveTieBreakLowestID(t *testing.T) {
	r := newTestResolver([]*model.AvailabilityRule{
		weeklyRule("bbb", 1, "12:00", "16:00", 30),
		weeklyRule("aaa", 1, "09:00", "11:00", 30),
	}, nil)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window == nil || window.Rule.ID != "aaa" {
		t.Fatalf("expected lowest-id rule aaa to win, got %+v", window)
	}
}

func TestResolveBlockException(t *testing.T) {
	r := newTestResolver(
		[]*model.AvailabilityRule{weeklyRule("r1", 1, "09:00", "17:00", 30)},
		&model.AvailabilityException{
			ID:         "e1",
			ProviderID: "prov-1",
			Date:       monday,
			Kind:       model.ExceptionKindBlock,
		},
	)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Errorf("blocked date must resolve to nil window, got %+v", window)
	}
}

func TestResolveOverrideException(t *testing.T) {
	r := newTestResolver(
		[]*model.AvailabilityRule{weeklyRule("r1", 1, "09:00", "17:00", 30)},
		&model.AvailabilityException{
			ID:              "e1",
			ProviderID:      "prov-1",
			Date:            monday,
			Kind:            model.ExceptionKindOverride,
			StartTime:       "14:00",
			EndTime:         "18:00",
			SlotDurationMin: 20,
		},
	)

	window, err := r.Resolve(context.Background(), "prov-1", monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window == nil {
		t.Fatal("expected override window")
	}
	if window.Source != SourceOverride {
		t.Errorf("source = %q, want %q", window.Source, SourceOverride)
	}
	if window.Rule != nil {
		t.Errorf("override window must not carry a rule, got %+v", window.Rule)
	}

	wantStart := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	if !window.Window.Start.Equal(wantStart) {
		t.Errorf("window start = %v, want %v", window.Window.Start, wantStart)
	}
	if window.SlotDuration != 20*time.Minute {
		t.Errorf("slot duration = %v, want 20m", window.SlotDuration)
	}
}

func TestResolveInvalidDate(t *testing.T) {
	r := newTestResolver(nil, nil)

	if _, err := r.Resolve(context.Background(), "prov-1", "02-03-2026"); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestSelectRuleIgnoresOtherDates(t *testing.T) {
	rules := []*model.AvailabilityRule{
		specificRule("r1", "2026-03-03", "09:00", "17:00", 30),
		weeklyRule("r2", 2, "09:00", "17:00", 30),
	}

	if got := selectRule(rules, monday, 1); got != nil {
		t.Errorf("expected no rule for %s, got %q", monday, got.ID)
	}
}

func TestDayRange(t *testing.T) {
	day, err := DayRange(monday)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantStart := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	if !day.Start.Equal(wantStart) || !day.End.Equal(wantEnd) {
		t.Errorf("day range = %v..%v, want %v..%v", day.Start, day.End, wantStart, wantEnd)
	}

	if _, err := DayRange("not-a-date"); err == nil {
		t.Error("expected error for malformed date")
	}
}
