package service

import (
	"context"
	"errors"
	exceptionserrors "slotify/internal/exceptions/errors"
	"slotify/internal/exceptions/repository"
	"slotify/internal/exceptions/validator"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
	"slotify/pkg/sanitizer"
)

type ExceptionService interface {
	Create(ctx context.Context, exception *model.AvailabilityException) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityException, error)
	GetByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityException, error)
	GetByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error)
	Update(ctx context.Context, id string, updates *model.AvailabilityExceptionUpdate) (*model.AvailabilityException, error)
	Delete(ctx context.Context, id string) error
}

type exceptionService struct {
	repo      repository.ExceptionRepository
	validator *validator.ExceptionValidator
	cfg       *config.Config
}

func NewExceptionService(repo repository.ExceptionRepository, v *validator.ExceptionValidator, cfg *config.Config) ExceptionService {
	return &exceptionService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *exceptionService) Create(ctx context.Context, exception *model.AvailabilityException) error {
	exception.ProviderID = sanitizer.TrimAndNormalize(exception.ProviderID)
	exception.Reason = sanitizer.TrimAndNormalize(exception.Reason)

	if err := s.validator.Validate(exception); err != nil {
		s.cfg.Log.Warn("Exception validation failed", "error", err)
		return apperrors.Validation("Exception validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, exception); err != nil {
		if errors.Is(err, exceptionserrors.ErrDuplicateDate) {
			return apperrors.Conflict("An exception already exists for this provider and date")
		}
		s.cfg.Log.Error("Failed to create exception", "provider_id", exception.ProviderID, "error", err)
		return apperrors.Internal("Failed to create exception", err)
	}

	s.cfg.Log.Info("Exception created",
		"id", exception.ID,
		"provider_id", exception.ProviderID,
		"date", exception.Date,
		"kind", exception.Kind,
	)
	return nil
}

func (s *exceptionService) GetByID(ctx context.Context, id string) (*model.AvailabilityException, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Exception ID cannot be empty")
	}

	exception, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, exceptionserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Exception", id)
		}
		if errors.Is(err, exceptionserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid exception ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve exception", err)
	}

	return exception, nil
}

func (s *exceptionService) GetByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityException, error) {
	if providerID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	exceptions, err := s.repo.FindByProvider(ctx, providerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list exceptions", "provider_id", providerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve exceptions", err)
	}

	return exceptions, nil
}

func (s *exceptionService) GetByProviderAndDate(ctx context.Context, providerID, date string) (*model.AvailabilityException, error) {
	if providerID == "" || date == "" {
		return nil, apperrors.InvalidInput("Provider ID and date are required")
	}

	exception, err := s.repo.FindByProviderAndDate(ctx, providerID, date)
	if err != nil {
		if errors.Is(err, exceptionserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Exception")
		}
		return nil, apperrors.Internal("Failed to retrieve exception", err)
	}

	return exception, nil
}

func (s *exceptionService) Update(ctx context.Context, id string, updates *model.AvailabilityExceptionUpdate) (*model.AvailabilityException, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Exception update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeExceptionUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Exception validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, exceptionserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Exception", id)
		}
		s.cfg.Log.Error("Failed to update exception", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update exception", err)
	}

	s.cfg.Log.Info("Exception updated", "id", id)
	return merged, nil
}

func (s *exceptionService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Exception ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, exceptionserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Exception", id)
		}
		if errors.Is(err, exceptionserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid exception ID format")
		}
		return apperrors.Internal("Failed to delete exception", err)
	}

	s.cfg.Log.Info("Exception deleted", "id", id)
	return nil
}

func (s *exceptionService) mergeExceptionUpdates(existing *model.AvailabilityException, updates *model.AvailabilityExceptionUpdate) *model.AvailabilityException {
	merged := *existing

	if updates.StartTime != "" {
		merged.StartTime = updates.StartTime
	}
	if updates.EndTime != "" {
		merged.EndTime = updates.EndTime
	}
	if updates.SlotDurationMin != nil {
		merged.SlotDurationMin = *updates.SlotDurationMin
	}
	if updates.Reason != "" {
		merged.Reason = sanitizer.TrimAndNormalize(updates.Reason)
	}

	return &merged
}
