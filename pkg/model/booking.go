package model

import (
	"time"

	"slotify/pkg/interval"
)

// Booking statuses. A booking is created confirmed and can only transition to
// cancelled; cancelled is terminal. Cancelled bookings never block overlap,
// slot, or daily-count checks.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is an accepted appointment on a provider's calendar. The invariant
// enforced by the admission pipeline (together with the provider advisory
// lock) is that no two confirmed bookings for the same provider overlap.
type Booking struct {
	ID         string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string `json:"provider_id" bson:"provider_id" validate:"required"`
	ClientID   string `json:"client_id" bson:"client_id" validate:"required"`

	ServiceLabel string `json:"service_label,omitempty" bson:"service_label,omitempty" validate:"omitempty,min=2,max=100"`
	ClientPhone  string `json:"client_phone,omitempty" bson:"client_phone,omitempty" validate:"omitempty,e164"`
	Notes        string `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	PriceCents   int    `json:"price_cents,omitempty" bson:"price_cents,omitempty" validate:"omitempty,min=0"`

	StartTime time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" bson:"end_time" validate:"required"`

	Status    string    `json:"status" bson:"status" validate:"required,oneof=confirmed cancelled"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Range returns the booked interval as a half-open range.
func (b *Booking) Range() interval.Range {
	return interval.New(b.StartTime, b.EndTime)
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == BookingStatusConfirmed
}

// Cancel transitions the booking to cancelled. Cancelling an already
// cancelled booking is a no-op; there is no way back to confirmed.
func (b *Booking) Cancel() {
	b.Status = BookingStatusCancelled
}

// Date returns the booking's calendar date (UTC, YYYY-MM-DD), keyed off the
// start instant.
func (b *Booking) Date() string {
	return b.StartTime.UTC().Format(time.DateOnly)
}
