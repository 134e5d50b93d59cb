// Package errors defines the admission rejection taxonomy. Every failing
// pipeline stage maps to exactly one code; repository I/O failures are not
// part of this set and propagate as internal errors.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "slotify/pkg/errors"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")
)

// Rejection codes, one per admission stage.
const (
	CodeInvalidTimeRange              = "INVALID_TIME_RANGE"
	CodeBookingInPast                 = "BOOKING_IN_PAST"
	CodeBookingTooClose               = "BOOKING_TOO_CLOSE"
	CodeBookingExceedsMaxDuration     = "BOOKING_EXCEEDS_MAX_DURATION"
	CodeBookingInvalidDurationForSlot = "BOOKING_INVALID_DURATION_FOR_SLOT"
	CodeDailyBookingLimitExceeded     = "DAILY_BOOKING_LIMIT_EXCEEDED"
	CodeClientDailyLimitExceeded      = "CLIENT_DAILY_BOOKING_LIMIT_EXCEEDED"
	CodeBookingOverlap                = "BOOKING_OVERLAP"
	CodeSlotNotAvailable              = "SLOT_NOT_AVAILABLE"

	// A concurrent admission currently holds the provider's advisory lock.
	CodeSlotLocked = "SLOT_LOCKED"
)

func InvalidTimeRange(start, end time.Time) *apperrors.AppError {
	return rejection(CodeInvalidTimeRange, "end_time must be after start_time",
		http.StatusUnprocessableEntity, map[string]any{
			"start_time": start,
			"end_time":   end,
		})
}

func BookingInPast(start, now time.Time) *apperrors.AppError {
	return rejection(CodeBookingInPast, "start_time is in the past",
		http.StatusUnprocessableEntity, map[string]any{
			"start_time": start,
			"now":        now,
		})
}

func BookingTooClose(minAdvance, actual time.Duration) *apperrors.AppError {
	return rejection(CodeBookingTooClose,
		fmt.Sprintf("booking requires at least %s advance notice", minAdvance),
		http.StatusUnprocessableEntity, map[string]any{
			"min_advance_min": int(minAdvance.Minutes()),
			"advance_min":     int(actual.Minutes()),
		})
}

func BookingExceedsMaxDuration(maxDuration, requested time.Duration) *apperrors.AppError {
	return rejection(CodeBookingExceedsMaxDuration,
		fmt.Sprintf("booking duration exceeds the maximum of %s", maxDuration),
		http.StatusUnprocessableEntity, map[string]any{
			"max_duration_min": int(maxDuration.Minutes()),
			"duration_min":     int(requested.Minutes()),
		})
}

func BookingInvalidDurationForSlot(slotDuration, requested time.Duration) *apperrors.AppError {
	return rejection(CodeBookingInvalidDurationForSlot,
		fmt.Sprintf("booking duration must be a positive multiple of %s", slotDuration),
		http.StatusUnprocessableEntity, map[string]any{
			"slot_duration_min": int(slotDuration.Minutes()),
			"duration_min":      int(requested.Minutes()),
		})
}

func DailyBookingLimitExceeded(limit, count int) *apperrors.AppError {
	return rejection(CodeDailyBookingLimitExceeded,
		fmt.Sprintf("provider already has %d of %d bookings for this date", count, limit),
		http.StatusUnprocessableEntity, map[string]any{
			"limit": limit,
			"count": count,
		})
}

func ClientDailyBookingLimitExceeded(limit, count int) *apperrors.AppError {
	return rejection(CodeClientDailyLimitExceeded,
		fmt.Sprintf("client already has %d of %d bookings with this provider for this date", count, limit),
		http.StatusUnprocessableEntity, map[string]any{
			"limit": limit,
			"count": count,
		})
}

func BookingOverlap(conflictingID string, start, end time.Time) *apperrors.AppError {
	return rejection(CodeBookingOverlap, "requested range overlaps an existing booking",
		http.StatusConflict, map[string]any{
			"conflicting_booking_id": conflictingID,
			"conflicting_start":      start,
			"conflicting_end":        end,
		})
}

func SlotNotAvailable(date string) *apperrors.AppError {
	return rejection(CodeSlotNotAvailable,
		"requested range does not fall within the provider's available slots",
		http.StatusUnprocessableEntity, map[string]any{
			"date": date,
		})
}

func SlotLocked() *apperrors.AppError {
	return rejection(CodeSlotLocked,
		"another booking for this provider is being processed, please retry",
		http.StatusConflict, nil)
}

// IsRejection reports whether err is an admission rejection (as opposed to an
// infrastructure failure).
func IsRejection(err error) bool {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeInvalidTimeRange, CodeBookingInPast, CodeBookingTooClose,
		CodeBookingExceedsMaxDuration, CodeBookingInvalidDurationForSlot,
		CodeDailyBookingLimitExceeded, CodeClientDailyLimitExceeded,
		CodeBookingOverlap, CodeSlotNotAvailable, CodeSlotLocked:
		return true
	}
	return false
}

func rejection(code, message string, status int, details map[string]any) *apperrors.AppError {
	err := apperrors.New(code, message, status)
	if details != nil {
		err.Details = details
	}
	return err
}
