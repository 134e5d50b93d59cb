package availability

import (
	"context"
	"fmt"
	"time"

	"slotify/pkg/interval"
	"slotify/pkg/logger"
	"slotify/pkg/model"
)

// Generator produces the bookable slots for a provider-date. Stateless; every
// call recomputes from the current repository snapshot.
type Generator struct {
	resolver *Resolver
	bookings BookingSource
	log      *logger.Logger
}

func NewGenerator(resolver *Resolver, bookings BookingSource, log *logger.Logger) *Generator {
	return &Generator{
		resolver: resolver,
		bookings: bookings,
		log:      log,
	}
}

// AvailableSlots returns the free slots for the date in chronological order.
// The window is sliced from its start in slot-duration steps; a trailing
// partial chunk is discarded. Slots colliding with a confirmed booking are
// removed.
func (g *Generator) AvailableSlots(ctx context.Context, providerID, date string) ([]interval.Range, error) {
	window, err := g.resolver.Resolve(ctx, providerID, date)
	if err != nil {
		return nil, err
	}
	if window == nil {
		return []interval.Range{}, nil
	}

	slots := SliceWindow(window.Window, window.SlotDuration)
	if len(slots) == 0 {
		return []interval.Range{}, nil
	}

	booked, err := g.confirmedOn(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	free := slots[:0]
	for _, slot := range slots {
		if !collides(slot, booked) {
			free = append(free, slot)
		}
	}

	return free, nil
}

// AvailableDays returns the dates within [from, from+days) that still have at
// least one free slot.
func (g *Generator) AvailableDays(ctx context.Context, providerID, from string, days int) ([]string, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", from, err)
	}

	available := make([]string, 0, days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		slots, err := g.AvailableSlots(ctx, providerID, date)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			available = append(available, date)
		}
	}

	return available, nil
}

// SliceWindow cuts a window into consecutive slot-sized ranges starting at
// the window start. A trailing chunk extending past the window end is
// dropped. A non-positive unit yields no slots.
func SliceWindow(window interval.Range, unit time.Duration) []interval.Range {
	if unit <= 0 || !window.IsValid() {
		return nil
	}

	var slots []interval.Range
	for start := window.Start; !start.Add(unit).After(window.End); start = start.Add(unit) {
		slots = append(slots, interval.New(start, start.Add(unit)))
	}
	return slots
}

func (g *Generator) confirmedOn(ctx context.Context, providerID, date string) ([]*model.Booking, error) {
	day, err := DayRange(date)
	if err != nil {
		return nil, err
	}

	bookings, err := g.bookings.FindOverlapping(ctx, providerID, day)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	confirmed := make([]*model.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsConfirmed() {
			confirmed = append(confirmed, b)
		}
	}
	return confirmed, nil
}

func collides(slot interval.Range, bookings []*model.Booking) bool {
	for _, b := range bookings {
		if interval.Overlaps(slot, b.Range()) {
			return true
		}
	}
	return false
}
