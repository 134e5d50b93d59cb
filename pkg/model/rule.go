package model

import (
	"time"
)

// RuleKind discriminates the two availability rule shapes. The set is closed:
// the resolver matches both kinds exhaustively at a single decision point.
type RuleKind string

const (
	RuleKindWeekly       RuleKind = "weekly"
	RuleKindSpecificDate RuleKind = "specific_date"
)

// AvailabilityRule declares a provider's working window and slot granularity,
// either recurring on a weekday or pinned to one calendar date. Rules are
// managed externally and read-only to the scheduling engine.
//
// StartTime/EndTime are wall-clock HH:MM strings interpreted in UTC on the
// date being resolved. Optional constraints are zero when unset.
type AvailabilityRule struct {
	ID         string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string   `json:"provider_id" bson:"provider_id" validate:"required"`
	Kind       RuleKind `json:"kind" bson:"kind" validate:"required,oneof=weekly specific_date"`

	Weekday *int   `json:"weekday,omitempty" bson:"weekday,omitempty" validate:"omitempty,min=0,max=6"`
	Date    string `json:"date,omitempty" bson:"date,omitempty" validate:"omitempty,calendar_date"`

	StartTime string `json:"start_time" bson:"start_time" validate:"required,wall_clock"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,wall_clock"`

	SlotDurationMin int `json:"slot_duration_min" bson:"slot_duration_min" validate:"required,min=5,max=480"`

	MinAdvanceMin              int `json:"min_advance_min,omitempty" bson:"min_advance_min,omitempty" validate:"omitempty,min=1"`
	MaxDurationMin             int `json:"max_duration_min,omitempty" bson:"max_duration_min,omitempty" validate:"omitempty,min=1"`
	MaxBookingsPerDay          int `json:"max_bookings_per_day,omitempty" bson:"max_bookings_per_day,omitempty" validate:"omitempty,min=1"`
	MaxBookingsPerClientPerDay int `json:"max_bookings_per_client_per_day,omitempty" bson:"max_bookings_per_client_per_day,omitempty" validate:"omitempty,min=1"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// SlotDuration returns the slot granularity as a time.Duration.
func (r *AvailabilityRule) SlotDuration() time.Duration {
	return time.Duration(r.SlotDurationMin) * time.Minute
}

// AppliesTo reports whether the rule covers the given date. date must be
// YYYY-MM-DD; weekday is the date's day of week (0=Sunday).
func (r *AvailabilityRule) AppliesTo(date string, weekday int) bool {
	switch r.Kind {
	case RuleKindSpecificDate:
		return r.Date == date
	case RuleKindWeekly:
		return r.Weekday != nil && *r.Weekday == weekday
	default:
		return false
	}
}

// AvailabilityRuleUpdate carries the mutable fields for a PATCH. Pointer
// fields distinguish "leave unchanged" from "set to zero".
type AvailabilityRuleUpdate struct {
	StartTime                  string `json:"start_time,omitempty" validate:"omitempty,wall_clock"`
	EndTime                    string `json:"end_time,omitempty" validate:"omitempty,wall_clock"`
	SlotDurationMin            *int   `json:"slot_duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	MinAdvanceMin              *int   `json:"min_advance_min,omitempty" validate:"omitempty,min=0"`
	MaxDurationMin             *int   `json:"max_duration_min,omitempty" validate:"omitempty,min=0"`
	MaxBookingsPerDay          *int   `json:"max_bookings_per_day,omitempty" validate:"omitempty,min=0"`
	MaxBookingsPerClientPerDay *int   `json:"max_bookings_per_client_per_day,omitempty" validate:"omitempty,min=0"`
}
