package service

import (
	"context"
	"io"
	"testing"
	"time"

	"slotify/internal/availability"
	bookingserrors "slotify/internal/bookings/errors"
	"slotify/internal/bookings/validator"
	"slotify/pkg/clock"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/interval"
	"slotify/pkg/logger"
	"slotify/pkg/model"
	mongotx "slotify/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockBookingRepo struct {
	created []*model.Booking

	createFn                 func(ctx context.Context, booking *model.Booking) error
	findByIDFn               func(ctx context.Context, id string) (*model.Booking, error)
	findOverlappingFn        func(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error)
	countConfirmedProviderFn func(ctx context.Context, providerID string, day interval.Range) (int64, error)
	countConfirmedClientFn   func(ctx context.Context, clientID, providerID string, day interval.Range) (int64, error)
	updateStatusFn           func(ctx context.Context, id, status string) error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, booking)
	}
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepo) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) FindByProvider(ctx context.Context, providerID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepo) CountByProvider(ctx context.Context, providerID string, startTime, endTime *time.Time) (int64, error) {
	return 0, nil
}

func (m *mockBookingRepo) FindOverlapping(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error) {
	if m.findOverlappingFn != nil {
		return m.findOverlappingFn(ctx, providerID, rng)
	}
	return nil, nil
}

func (m *mockBookingRepo) CountConfirmedByProviderAndDate(ctx context.Context, providerID string, day interval.Range) (int64, error) {
	if m.countConfirmedProviderFn != nil {
		return m.countConfirmedProviderFn(ctx, providerID, day)
	}
	return 0, nil
}

func (m *mockBookingRepo) CountConfirmedByClientAndDate(ctx context.Context, clientID, providerID string, day interval.Range) (int64, error) {
	if m.countConfirmedClientFn != nil {
		return m.countConfirmedClientFn(ctx, clientID, providerID, day)
	}
	return 0, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(m.created)), nil
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type mockLockRepo struct {
	createFn func(ctx context.Context, lock *model.AdmissionLock) (*model.AdmissionLock, error)
	deleted  []string
}

func (m *mockLockRepo) Create(ctx context.Context, lock *model.AdmissionLock) (*model.AdmissionLock, error) {
	if m.createFn != nil {
		return m.createFn(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepo) Delete(ctx context.Context, lockID string) error {
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockResolver struct {
	window *availability.ResolvedWindow
	err    error
}

func (m *mockResolver) Resolve(ctx context.Context, providerID, date string) (*availability.ResolvedWindow, error) {
	return m.window, m.err
}

type mockPublisher struct {
	created   []*model.Booking
	cancelled []*model.Booking
}

func (m *mockPublisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	m.created = append(m.created, booking)
	return nil
}

func (m *mockPublisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	m.cancelled = append(m.cancelled, booking)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type serviceFixture struct {
	service   BookingService
	repo      *mockBookingRepo
	locks     *mockLockRepo
	publisher *mockPublisher
	clock     *clock.Fixed
}

// The fixed "now" is 08:00 UTC on Monday 2026-03-02; the default window runs
// 09:00 to 17:00 the same day with 30-minute slots.
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func mondayAt(hour, min int) time.Time {
	return time.Date(2026, 3, 2, hour, min, 0, 0, time.UTC)
}

func testWindow(rule *model.AvailabilityRule) *availability.ResolvedWindow {
	w := &availability.ResolvedWindow{
		Date:         "2026-03-02",
		Window:       interval.New(mondayAt(9, 0), mondayAt(17, 0)),
		SlotDuration: 30 * time.Minute,
		Source:       availability.SourceRule,
		Rule:         rule,
	}
	if rule == nil {
		w.Source = availability.SourceOverride
	}
	return w
}

func newFixture(window *availability.ResolvedWindow) *serviceFixture {
	log := logger.New(logger.Config{Output: io.Discard})
	cfg := &config.Config{
		Log:              log,
		AdmissionLockTTL: 10 * time.Second,
	}

	repo := &mockBookingRepo{}
	locks := &mockLockRepo{}
	publisher := &mockPublisher{}
	clk := clock.NewFixed(testNow)

	svc := NewBookingService(
		repo,
		locks,
		&mockResolver{window: window},
		validator.NewBookingValidator(log),
		clk,
		publisher,
		cfg,
	)

	return &serviceFixture{
		service:   svc,
		repo:      repo,
		locks:     locks,
		publisher: publisher,
		clock:     clk,
	}
}

func testBooking(start, end time.Time) *model.Booking {
	return &model.Booking{
		ProviderID: "prov-1",
		ClientID:   "client-1",
		StartTime:  start,
		EndTime:    end,
	}
}

func assertRejection(t *testing.T, err error, wantCode string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected rejection %s, got nil", wantCode)
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil {
		t.Fatalf("expected AppError, got %T: %v", err, err)
	}
	if appErr.Code != wantCode {
		t.Fatalf("rejection code = %q, want %q", appErr.Code, wantCode)
	}
}

func TestCreateAdmitsValidBooking(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}
	f := newFixture(testWindow(rule))

	booking := testBooking(mondayAt(10, 0), mondayAt(10, 30))
	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected rejection: %v", err)
	}

	if len(f.repo.created) != 1 {
		t.Fatalf("expected 1 persisted booking, got %d", len(f.repo.created))
	}
	if booking.Status != model.BookingStatusConfirmed {
		t.Errorf("status = %q, want confirmed", booking.Status)
	}
	if len(f.publisher.created) != 1 {
		t.Errorf("expected booking.created event, got %d", len(f.publisher.created))
	}
	if len(f.locks.deleted) != 1 {
		t.Errorf("admission lock not released")
	}
}

func TestCreateMultiSlotBooking(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}
	f := newFixture(testWindow(rule))

	booking := testBooking(mondayAt(10, 0), mondayAt(11, 30))
	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("unexpected rejection for three-slot booking: %v", err)
	}
}

func TestCreateInvalidTimeRange(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", mondayAt(11, 0), mondayAt(10, 0)},
		{"zero duration", mondayAt(10, 0), mondayAt(10, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Create(context.Background(), testBooking(tt.start, tt.end))
			assertRejection(t, err, bookingserrors.CodeInvalidTimeRange)
		})
	}
}

func TestCreateBookingInPast(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))

	err := f.service.Create(context.Background(), testBooking(mondayAt(7, 0), mondayAt(7, 30)))
	assertRejection(t, err, bookingserrors.CodeBookingInPast)
}

func TestCreateBookingTooClose(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30, MinAdvanceMin: 120}
	f := newFixture(testWindow(rule))

	// 09:00 start is only 60 minutes after the frozen 08:00 now.
	err := f.service.Create(context.Background(), testBooking(mondayAt(9, 0), mondayAt(9, 30)))
	assertRejection(t, err, bookingserrors.CodeBookingTooClose)

	// 10:00 is exactly the 120-minute advance; boundary is admitted.
	if err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30))); err != nil {
		t.Fatalf("boundary advance rejected: %v", err)
	}
}

func TestCreateExceedsMaxDuration(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30, MaxDurationMin: 60}
	f := newFixture(testWindow(rule))

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(11, 30)))
	assertRejection(t, err, bookingserrors.CodeBookingExceedsMaxDuration)

	if err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(11, 0))); err != nil {
		t.Fatalf("booking at exact max duration rejected: %v", err)
	}
}

func TestCreateInvalidDurationForSlot(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 45)))
	assertRejection(t, err, bookingserrors.CodeBookingInvalidDurationForSlot)
}

func TestCreateDailyCapReached(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30, MaxBookingsPerDay: 3}
	f := newFixture(testWindow(rule))
	f.repo.countConfirmedProviderFn = func(ctx context.Context, providerID string, day interval.Range) (int64, error) {
		return 3, nil
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30)))
	assertRejection(t, err, bookingserrors.CodeDailyBookingLimitExceeded)
}

func TestCreateClientDailyCapReached(t *testing.T) {
	rule := &model.AvailabilityRule{ID: "r1", SlotDurationMin: 30, MaxBookingsPerClientPerDay: 1}
	f := newFixture(testWindow(rule))
	f.repo.countConfirmedClientFn = func(ctx context.Context, clientID, providerID string, day interval.Range) (int64, error) {
		return 1, nil
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30)))
	assertRejection(t, err, bookingserrors.CodeClientDailyLimitExceeded)
}

func TestCreateOverlapRejected(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))
	f.repo.findOverlappingFn = func(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error) {
		return []*model.Booking{
			{
				ID:         "existing",
				ProviderID: providerID,
				ClientID:   "client-2",
				StartTime:  mondayAt(10, 0),
				EndTime:    mondayAt(10, 30),
				Status:     model.BookingStatusConfirmed,
			},
		}, nil
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30)))
	assertRejection(t, err, bookingserrors.CodeBookingOverlap)
}

func TestCreateCancelledBookingDoesNotBlock(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))
	f.repo.findOverlappingFn = func(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error) {
		return []*model.Booking{
			{
				ID:         "cancelled",
				ProviderID: providerID,
				ClientID:   "client-2",
				StartTime:  mondayAt(10, 0),
				EndTime:    mondayAt(10, 30),
				Status:     model.BookingStatusCancelled,
			},
		}, nil
	}

	if err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30))); err != nil {
		t.Fatalf("cancelled booking blocked admission: %v", err)
	}
}

func TestCreateSlotNotAvailable(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))

	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"misaligned start", mondayAt(10, 15), mondayAt(10, 45)},
		{"before window", mondayAt(8, 0), mondayAt(8, 30)},
		{"past window end", mondayAt(16, 30), mondayAt(17, 30)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Create(context.Background(), testBooking(tt.start, tt.end))
			assertRejection(t, err, bookingserrors.CodeSlotNotAvailable)
		})
	}
}

func TestCreateNoRuleOverlapOnly(t *testing.T) {
	f := newFixture(nil)

	// Outside any window, at an odd time: with no rule for the date only
	// overlap detection governs admission.
	booking := testBooking(mondayAt(22, 7), mondayAt(22, 52))
	if err := f.service.Create(context.Background(), booking); err != nil {
		t.Fatalf("no-rule booking rejected: %v", err)
	}

	f.repo.findOverlappingFn = func(ctx context.Context, providerID string, rng interval.Range) ([]*model.Booking, error) {
		return []*model.Booking{
			{
				ID:        "existing",
				StartTime: mondayAt(22, 30),
				EndTime:   mondayAt(23, 0),
				Status:    model.BookingStatusConfirmed,
			},
		}, nil
	}
	err := f.service.Create(context.Background(), testBooking(mondayAt(22, 7), mondayAt(22, 52)))
	assertRejection(t, err, bookingserrors.CodeBookingOverlap)
}

func TestCreateOverrideWindowSkipsRuleConstraints(t *testing.T) {
	// An override window carries no rule: advance and cap gates are skipped,
	// the slot grid still applies.
	f := newFixture(testWindow(nil))

	if err := f.service.Create(context.Background(), testBooking(mondayAt(9, 0), mondayAt(9, 30))); err != nil {
		t.Fatalf("override booking rejected: %v", err)
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(9, 0), mondayAt(9, 45)))
	assertRejection(t, err, bookingserrors.CodeBookingInvalidDurationForSlot)
}

func TestCreateLockContention(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))
	f.locks.createFn = func(ctx context.Context, lock *model.AdmissionLock) (*model.AdmissionLock, error) {
		return nil, mongo.WriteException{
			WriteErrors: mongo.WriteErrors{{Code: 11000}},
		}
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30)))
	assertRejection(t, err, bookingserrors.CodeSlotLocked)

	if len(f.repo.created) != 0 {
		t.Errorf("booking persisted despite lock contention")
	}
}

func TestCreateDuplicateKeyOnInsert(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))
	f.repo.createFn = func(ctx context.Context, booking *model.Booking) error {
		return mongo.WriteException{
			WriteErrors: mongo.WriteErrors{{Code: 11000}},
		}
	}

	err := f.service.Create(context.Background(), testBooking(mondayAt(10, 0), mondayAt(10, 30)))
	assertRejection(t, err, bookingserrors.CodeBookingOverlap)
}

func TestCreateValidationFailure(t *testing.T) {
	f := newFixture(testWindow(&model.AvailabilityRule{ID: "r1", SlotDurationMin: 30}))

	booking := testBooking(mondayAt(10, 0), mondayAt(10, 30))
	booking.ClientID = ""

	err := f.service.Create(context.Background(), booking)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(nil)
	stored := &model.Booking{
		ID:         "b1",
		ProviderID: "prov-1",
		ClientID:   "client-1",
		StartTime:  mondayAt(10, 0),
		EndTime:    mondayAt(10, 30),
		Status:     model.BookingStatusConfirmed,
	}
	f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return stored, nil
	}

	var updated bool
	f.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
		updated = true
		if status != model.BookingStatusCancelled {
			t.Errorf("status = %q, want cancelled", status)
		}
		return nil
	}

	booking, err := f.service.Cancel(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated {
		t.Error("UpdateStatus not called")
	}
	if booking.IsConfirmed() {
		t.Error("returned booking still confirmed")
	}
	if len(f.publisher.cancelled) != 1 {
		t.Errorf("expected booking.cancelled event, got %d", len(f.publisher.cancelled))
	}
}

func TestCancelAlreadyCancelledIsNoOp(t *testing.T) {
	f := newFixture(nil)
	stored := &model.Booking{
		ID:        "b1",
		StartTime: mondayAt(10, 0),
		EndTime:   mondayAt(10, 30),
		Status:    model.BookingStatusCancelled,
	}
	f.repo.findByIDFn = func(ctx context.Context, id string) (*model.Booking, error) {
		return stored, nil
	}
	f.repo.updateStatusFn = func(ctx context.Context, id, status string) error {
		t.Error("UpdateStatus must not be called for an already cancelled booking")
		return nil
	}

	booking, err := f.service.Cancel(context.Background(), "b1")
	if err != nil {
		t.Fatalf("double cancel must succeed, got %v", err)
	}
	if booking.Status != model.BookingStatusCancelled {
		t.Errorf("status = %q, want cancelled", booking.Status)
	}
	if len(f.publisher.cancelled) != 0 {
		t.Errorf("no event expected for a no-op cancel, got %d", len(f.publisher.cancelled))
	}
}

func TestCancelNotFound(t *testing.T) {
	f := newFixture(nil)

	_, err := f.service.Cancel(context.Background(), "missing")
	if err == nil {
		t.Fatal("expected not-found error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr == nil || appErr.Code != apperrors.CodeNotFound {
		t.Fatalf("expected %s, got %v", apperrors.CodeNotFound, err)
	}
}
