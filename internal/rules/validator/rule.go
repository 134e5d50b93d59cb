package validator

import (
	"errors"
	"fmt"
	"slotify/pkg/logger"
	"slotify/pkg/model"
	"slotify/pkg/validation"

	validatorlib "github.com/go-playground/validator/v10"
)

type RuleValidator struct {
	validate *validatorlib.Validate
	logger   *logger.Logger
}

func NewRuleValidator(log *logger.Logger) *RuleValidator {
	return &RuleValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *RuleValidator) Validate(rule *model.AvailabilityRule) error {
	if err := v.validate.Struct(rule); err != nil {
		var validationErrs validatorlib.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(err)
		}
		return err
	}

	var errs validation.ValidationErrors

	switch rule.Kind {
	case model.RuleKindWeekly:
		if rule.Weekday == nil {
			errs = append(errs, validation.ValidationError{
				Field:   "Weekday",
				Message: "weekday is required for weekly rules",
			})
		}
		if rule.Date != "" {
			errs = append(errs, validation.ValidationError{
				Field:   "Date",
				Message: "date must be empty for weekly rules",
			})
		}
	case model.RuleKindSpecificDate:
		if rule.Date == "" {
			errs = append(errs, validation.ValidationError{
				Field:   "Date",
				Message: "date is required for specific-date rules",
			})
		}
		if rule.Weekday != nil {
			errs = append(errs, validation.ValidationError{
				Field:   "Weekday",
				Message: "weekday must be empty for specific-date rules",
			})
		}
	}

	if rule.StartTime >= rule.EndTime {
		errs = append(errs, validation.ValidationError{
			Field:   "EndTime",
			Message: fmt.Sprintf("end_time (%s) must be after start_time (%s)", rule.EndTime, rule.StartTime),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *RuleValidator) ValidateUpdate(update *model.AvailabilityRuleUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validatorlib.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(err)
		}
		return err
	}

	if update.StartTime != "" && update.EndTime != "" && update.StartTime >= update.EndTime {
		return validation.ValidationErrors{
			validation.ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	return nil
}
