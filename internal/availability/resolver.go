// Package availability resolves a provider's working window for a date and
// slices it into bookable slots. Resolution priority, highest first: block
// exception, override exception, specific-date rule, weekly rule.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	exceptionserrors "slotify/internal/exceptions/errors"
	"slotify/pkg/interval"
	"slotify/pkg/logger"
	"slotify/pkg/model"
)

// RuleSource is the read surface the resolver needs from rule storage.
type RuleSource interface {
	FindByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityRule, error)
}

// ExceptionSource returns the exception for a (provider, date) pair, or the
// exceptions package's ErrNotFound.
type ExceptionSource interface {
	FindByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error)
}

// BookingSource is the read surface the slot generator needs from booking
// storage. FindOverlapping returns every booking intersecting the range
// regardless of status; the caller filters.
type BookingSource interface {
	FindOverlapping(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error)
}

// WindowSource records what produced a resolved window.
type WindowSource string

const (
	SourceRule     WindowSource = "rule"
	SourceOverride WindowSource = "override"
)

// ResolvedWindow is the working window for one provider-date, with wall-clock
// times already anchored to absolute UTC instants on that date. Rule is nil
// when the window came from an override exception.
type ResolvedWindow struct {
	Date         string
	Window       interval.Range
	SlotDuration time.Duration
	Source       WindowSource
	Rule         *model.AvailabilityRule
}

type Resolver struct {
	rules      RuleSource
	exceptions ExceptionSource
	log        *logger.Logger
}

func NewResolver(rules RuleSource, exceptions ExceptionSource, log *logger.Logger) *Resolver {
	return &Resolver{
		rules:      rules,
		exceptions: exceptions,
		log:        log,
	}
}

// Resolve returns the provider's window for the date, or nil when the
// provider is unavailable (blocked, or no applicable rule). Always re-reads
// storage; nothing is cached between calls.
func (r *Resolver) Resolve(ctx context.Context, providerID, date string) (*ResolvedWindow, error) {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}

	exception, err := r.exceptions.FindByProviderAndDate(ctx, providerID, date)
	if err != nil && !errors.Is(err, exceptionserrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch exception: %w", err)
	}

	if exception != nil {
		switch exception.Kind {
		case model.ExceptionKindBlock:
			return nil, nil
		case model.ExceptionKindOverride:
			window, err := anchorWindow(day, exception.StartTime, exception.EndTime)
			if err != nil {
				return nil, err
			}
			return &ResolvedWindow{
				Date:         date,
				Window:       window,
				SlotDuration: exception.SlotDuration(),
				Source:       SourceOverride,
			}, nil
		}
	}

	rules, err := r.rules.FindByProvider(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rules: %w", err)
	}

	rule := selectRule(rules, date, int(day.Weekday()))
	if rule == nil {
		return nil, nil
	}

	window, err := anchorWindow(day, rule.StartTime, rule.EndTime)
	if err != nil {
		return nil, err
	}

	return &ResolvedWindow{
		Date:         date,
		Window:       window,
		SlotDuration: rule.SlotDuration(),
		Source:       SourceRule,
		Rule:         rule,
	}, nil
}

// selectRule applies the priority order: a specific-date rule for the date
// beats any weekly rule matching the weekday. Ties within a kind are broken
// by lowest id so resolution stays deterministic on dirty data.
func selectRule(rules []*model.AvailabilityRule, date string, weekday int) *model.AvailabilityRule {
	var specific, weekly *model.AvailabilityRule

	for _, rule := range rules {
		if !rule.AppliesTo(date, weekday) {
			continue
		}
		switch rule.Kind {
		case model.RuleKindSpecificDate:
			if specific == nil || rule.ID < specific.ID {
				specific = rule
			}
		case model.RuleKindWeekly:
			if weekly == nil || rule.ID < weekly.ID {
				weekly = rule
			}
		}
	}

	if specific != nil {
		return specific
	}
	return weekly
}

// anchorWindow turns wall-clock HH:MM bounds into absolute UTC instants on
// the given day.
func anchorWindow(day time.Time, startClock, endClock string) (interval.Range, error) {
	start, err := anchorClock(day, startClock)
	if err != nil {
		return interval.Range{}, err
	}
	end, err := anchorClock(day, endClock)
	if err != nil {
		return interval.Range{}, err
	}
	return interval.New(start, end), nil
}

func anchorClock(day time.Time, clock string) (time.Time, error) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid wall-clock time %q: %w", clock, err)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), nil
}

// DayRange returns the full UTC day as a half-open range, for overlap scans
// scoped to one calendar date.
func DayRange(date string) (interval.Range, error) {
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return interval.Range{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return interval.New(day, day.AddDate(0, 0, 1)), nil
}
