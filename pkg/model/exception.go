package model

import "time"

// ExceptionKind discriminates the two per-date modifiers.
type ExceptionKind string

const (
	ExceptionKindBlock    ExceptionKind = "block"
	ExceptionKindOverride ExceptionKind = "override"
)

// AvailabilityException modifies a single date for a provider: a block removes
// all availability, an override replaces whatever rule would apply with its
// own window and slot granularity. Externally managed, read-only here.
type AvailabilityException struct {
	ID         string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ProviderID string        `json:"provider_id" bson:"provider_id" validate:"required"`
	Date       string        `json:"date" bson:"date" validate:"required,calendar_date"`
	Kind       ExceptionKind `json:"kind" bson:"kind" validate:"required,oneof=block override"`

	// Override fields; empty for blocks.
	StartTime       string `json:"start_time,omitempty" bson:"start_time,omitempty" validate:"omitempty,wall_clock"`
	EndTime         string `json:"end_time,omitempty" bson:"end_time,omitempty" validate:"omitempty,wall_clock"`
	SlotDurationMin int    `json:"slot_duration_min,omitempty" bson:"slot_duration_min,omitempty" validate:"omitempty,min=5,max=480"`

	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

func (e *AvailabilityException) SlotDuration() time.Duration {
	return time.Duration(e.SlotDurationMin) * time.Minute
}

// AvailabilityExceptionUpdate carries the mutable fields for a PATCH.
type AvailabilityExceptionUpdate struct {
	StartTime       string `json:"start_time,omitempty" validate:"omitempty,wall_clock"`
	EndTime         string `json:"end_time,omitempty" validate:"omitempty,wall_clock"`
	SlotDurationMin *int   `json:"slot_duration_min,omitempty" validate:"omitempty,min=5,max=480"`
	Reason          string `json:"reason,omitempty" validate:"omitempty,max=200"`
}
