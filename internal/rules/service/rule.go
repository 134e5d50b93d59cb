package service

import (
	"context"
	"errors"
	ruleserrors "slotify/internal/rules/errors"
	"slotify/internal/rules/repository"
	"slotify/internal/rules/validator"
	"slotify/pkg/config"
	apperrors "slotify/pkg/errors"
	"slotify/pkg/model"
	"slotify/pkg/sanitizer"
)

type RuleService interface {
	Create(ctx context.Context, rule *model.AvailabilityRule) error
	GetByID(ctx context.Context, id string) (*model.AvailabilityRule, error)
	GetByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityRule, error)
	Update(ctx context.Context, id string, updates *model.AvailabilityRuleUpdate) (*model.AvailabilityRule, error)
	Delete(ctx context.Context, id string) error
}

type ruleService struct {
	repo      repository.RuleRepository
	validator *validator.RuleValidator
	cfg       *config.Config
}

func NewRuleService(repo repository.RuleRepository, v *validator.RuleValidator, cfg *config.Config) RuleService {
	return &ruleService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *ruleService) Create(ctx context.Context, rule *model.AvailabilityRule) error {
	rule.ProviderID = sanitizer.TrimAndNormalize(rule.ProviderID)

	if err := s.validator.Validate(rule); err != nil {
		s.cfg.Log.Warn("Rule validation failed", "error", err)
		return apperrors.Validation("Rule validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		s.cfg.Log.Error("Failed to create rule", "provider_id", rule.ProviderID, "error", err)
		return apperrors.Internal("Failed to create rule", err)
	}

	s.cfg.Log.Info("Rule created",
		"id", rule.ID,
		"provider_id", rule.ProviderID,
		"kind", rule.Kind,
	)
	return nil
}

func (s *ruleService) GetByID(ctx context.Context, id string) (*model.AvailabilityRule, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Rule ID cannot be empty")
	}

	rule, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ruleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rule", id)
		}
		if errors.Is(err, ruleserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid rule ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve rule", err)
	}

	return rule, nil
}

func (s *ruleService) GetByProvider(ctx context.Context, providerID string) ([]*model.AvailabilityRule, error) {
	if providerID == "" {
		return nil, apperrors.InvalidInput("Provider ID cannot be empty")
	}

	rules, err := s.repo.FindByProvider(ctx, providerID)
	if err != nil {
		s.cfg.Log.Error("Failed to list rules", "provider_id", providerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rules", err)
	}

	return rules, nil
}

func (s *ruleService) Update(ctx context.Context, id string, updates *model.AvailabilityRuleUpdate) (*model.AvailabilityRule, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Rule update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeRuleUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		return nil, apperrors.Validation("Rule validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, ruleserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Rule", id)
		}
		s.cfg.Log.Error("Failed to update rule", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update rule", err)
	}

	s.cfg.Log.Info("Rule updated", "id", id)
	return merged, nil
}

func (s *ruleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Rule ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ruleserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Rule", id)
		}
		if errors.Is(err, ruleserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid rule ID format")
		}
		return apperrors.Internal("Failed to delete rule", err)
	}

	s.cfg.Log.Info("Rule deleted", "id", id)
	return nil
}

func (s *ruleService) mergeRuleUpdates(existing *model.AvailabilityRule, updates *model.AvailabilityRuleUpdate) *model.AvailabilityRule {
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
	if updates.MinAdvanceMin != nil {
		merged.MinAdvanceMin = *updates.MinAdvanceMin
	}
	if updates.MaxDurationMin != nil {
		merged.MaxDurationMin = *updates.MaxDurationMin
	}
	if updates.MaxBookingsPerDay != nil {
		merged.MaxBookingsPerDay = *updates.MaxBookingsPerDay
	}
	if updates.MaxBookingsPerClientPerDay != nil {
		merged.MaxBookingsPerClientPerDay = *updates.MaxBookingsPerClientPerDay
	}

	return &merged
}
