package service

import (
	"context"
	"errors"
	"fmt"
	"slotify/internal/availability"
	bookingserrors "slotify/internal/bookings/errors"
	"slotify/internal/bookings/repository"
	"slotify/internal/bookings/validator"
	"slotify/pkg/clock"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/events"
	"slotify/pkg/interval"
	"slotify/pkg/model"
	"slotify/pkg/sanitizer"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// WindowResolver is the slice of the availability resolver the admission
// pipeline consumes.
type WindowResolver interface {
	Resolve(ctx context.Context, providerID, date string) (*availability.ResolvedWindow, error)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	Cancel(ctx context.Context, id string) (*model.Booking, error)
	SearchByProvider(ctx context.Context, providerID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.AdmissionLockRepository
	resolver  WindowResolver
	validator *validator.BookingValidator
	clock     clock.Clock
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.AdmissionLockRepository,
	resolver WindowResolver,
	v *validator.BookingValidator,
	clk clock.Clock,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		resolver:  resolver,
		validator: v,
		clock:     clk,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create runs the admission pipeline. Stages are hard gates evaluated in
// order; the first failure determines the rejection. The daily-cap, overlap,
// and slot-membership checks plus the insert run under the provider's
// advisory lock inside a transaction, which serializes admission per provider
// and date.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) error {
	s.applyDefaults(booking)
	s.sanitize(booking)
	if err := s.validate(booking); err != nil {
		return err
	}

	requested := booking.Range()
	if !requested.IsValid() {
		return bookingserrors.InvalidTimeRange(booking.StartTime, booking.EndTime)
	}

	now := s.clock.Now()
	if booking.StartTime.Before(now) {
		return bookingserrors.BookingInPast(booking.StartTime, now)
	}

	date := booking.Date()
	window, err := s.resolver.Resolve(ctx, booking.ProviderID, date)
	if err != nil {
		return apperrors.Internal("Failed to resolve availability", err)
	}

	if err := s.checkConstraints(booking, window, now, requested); err != nil {
		return err
	}

	lockID, err := s.acquireAdmissionLock(ctx, booking.ProviderID, date)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release admission lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.checkDailyCaps(txCtx, booking, window, date); err != nil {
			return err
		}
		if err := s.checkOverlap(txCtx, booking, requested); err != nil {
			return err
		}
		if err := s.checkSlotMembership(window, requested, date); err != nil {
			return err
		}

		if err := s.repo.Create(txCtx, booking); err != nil {
			// The storage layer backstops the overlap check; a constraint
			// violation here is a race that slipped past stage 8.
			if mongo.IsDuplicateKeyError(err) {
				return bookingserrors.BookingOverlap("", booking.StartTime, booking.EndTime)
			}
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if bookingserrors.IsRejection(err) {
			s.cfg.Log.Info("Booking rejected",
				"provider_id", booking.ProviderID,
				"client_id", booking.ClientID,
				"reason", apperrors.AsAppError(err).Code,
			)
		} else {
			s.cfg.Log.Error("Failed to create booking", "error", err)
		}
		return err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"provider_id", booking.ProviderID,
		"client_id", booking.ClientID,
		"start_time", booking.StartTime,
	)

	if err := s.publisher.BookingCreated(ctx, booking); err != nil {
		// The booking is committed; event delivery failures must not fail
		// the request.
		s.cfg.Log.Error("Failed to publish booking.created event", "id", booking.ID, "error", err)
	}

	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// Cancel transitions a booking to cancelled. Cancelling an already cancelled
// booking succeeds without touching storage.
func (s *bookingService) Cancel(ctx context.Context, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !booking.IsConfirmed() {
		s.cfg.Log.Debug("Cancel on already cancelled booking", "id", id)
		return booking, nil
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}

	booking.Cancel()
	s.cfg.Log.Info("Booking cancelled", "id", id, "provider_id", booking.ProviderID)

	if err := s.publisher.BookingCancelled(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to publish booking.cancelled event", "id", id, "error", err)
	}

	return booking, nil
}

func (s *bookingService) SearchByProvider(ctx context.Context, providerID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if providerID == "" {
		return nil, 0, apperrors.InvalidInput("Provider ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByProvider(ctx, providerID, startTime, endTime)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings by provider", "provider_id", providerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByProvider(ctx, providerID, startTime, endTime, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to search bookings", "provider_id", providerID, "error", errFind)
			errFind = apperrors.Internal("Failed to search bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Pipeline stages ---

// checkConstraints covers the rule-bound gates (advance notice, max duration)
// and the slot-multiple gate. Override windows carry no rule, so only the
// slot-multiple gate applies to them; with no window at all every gate is
// skipped and admission falls through to overlap detection alone.
func (s *bookingService) checkConstraints(booking *model.Booking, window *availability.ResolvedWindow, now time.Time, requested interval.Range) error {
	if window == nil {
		return nil
	}

	duration := requested.Duration()

	if rule := window.Rule; rule != nil {
		if rule.MinAdvanceMin > 0 {
			minAdvance := time.Duration(rule.MinAdvanceMin) * time.Minute
			if advance := booking.StartTime.Sub(now); advance < minAdvance {
				return bookingserrors.BookingTooClose(minAdvance, advance)
			}
		}

		if rule.MaxDurationMin > 0 {
			maxDuration := time.Duration(rule.MaxDurationMin) * time.Minute
			if duration > maxDuration {
				return bookingserrors.BookingExceedsMaxDuration(maxDuration, duration)
			}
		}
	}

	if !interval.IsMultipleOf(duration, window.SlotDuration) {
		return bookingserrors.BookingInvalidDurationForSlot(window.SlotDuration, duration)
	}

	return nil
}

// checkDailyCaps counts confirmed bookings before this one is added. The caps
// are defined on the rule; override windows have none.
func (s *bookingService) checkDailyCaps(ctx context.Context, booking *model.Booking, window *availability.ResolvedWindow, date string) error {
	if window == nil || window.Rule == nil {
		return nil
	}
	rule := window.Rule

	day, err := availability.DayRange(date)
	if err != nil {
		return apperrors.Internal("Failed to compute day range", err)
	}

	if rule.MaxBookingsPerDay > 0 {
		count, err := s.repo.CountConfirmedByProviderAndDate(ctx, booking.ProviderID, day)
		if err != nil {
			return apperrors.Internal("Failed to count provider bookings", err)
		}
		if count >= int64(rule.MaxBookingsPerDay) {
			return bookingserrors.DailyBookingLimitExceeded(rule.MaxBookingsPerDay, int(count))
		}
	}

	if rule.MaxBookingsPerClientPerDay > 0 {
		count, err := s.repo.CountConfirmedByClientAndDate(ctx, booking.ClientID, booking.ProviderID, day)
		if err != nil {
			return apperrors.Internal("Failed to count client bookings", err)
		}
		if count >= int64(rule.MaxBookingsPerClientPerDay) {
			return bookingserrors.ClientDailyBookingLimitExceeded(rule.MaxBookingsPerClientPerDay, int(count))
		}
	}

	return nil
}

func (s *bookingService) checkOverlap(ctx context.Context, booking *model.Booking, requested interval.Range) error {
	existing, err := s.repo.FindOverlapping(ctx, booking.ProviderID, requested)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if !b.IsConfirmed() {
			continue
		}
		if interval.Overlaps(b.Range(), requested) {
			return bookingserrors.BookingOverlap(b.ID, b.StartTime, b.EndTime)
		}
	}
	return nil
}

// checkSlotMembership requires the requested range to sit on the window's
// slot grid: start aligned to a slot boundary and end inside the window. A
// multi-slot booking therefore occupies consecutive slots exactly. Skipped
// when no window exists (overlap detection alone governs admission).
func (s *bookingService) checkSlotMembership(window *availability.ResolvedWindow, requested interval.Range, date string) error {
	if window == nil {
		return nil
	}

	if !interval.Contains(window.Window, requested) {
		return bookingserrors.SlotNotAvailable(date)
	}

	offset := requested.Start.Sub(window.Window.Start)
	if offset%window.SlotDuration != 0 {
		return bookingserrors.SlotNotAvailable(date)
	}

	return nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	if b.Status == "" {
		b.Status = model.BookingStatusConfirmed
	}
}

func (s *bookingService) sanitize(b *model.Booking) {
	b.ProviderID = sanitizer.TrimAndNormalize(b.ProviderID)
	b.ClientID = sanitizer.TrimAndNormalize(b.ClientID)
	b.ServiceLabel = sanitizer.SanitizeLabel(b.ServiceLabel)
	b.Notes = sanitizer.NormalizeNotes(b.Notes)
	if b.ClientPhone != "" {
		b.ClientPhone = sanitizer.SanitizePhone(b.ClientPhone)
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireAdmissionLock serializes admission for one provider-date. The lock
// document's TTL bounds how long a crashed request can hold it.
func (s *bookingService) acquireAdmissionLock(ctx context.Context, providerID, date string) (string, error) {
	lockID := fmt.Sprintf("admission_%s_%s", providerID, date)

	lock := &model.AdmissionLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(s.cfg.AdmissionLockTTL),
	}

	if _, err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", bookingserrors.SlotLocked()
		}
		return "", apperrors.Internal("Failed to acquire admission lock", err)
	}

	return lockID, nil
}
