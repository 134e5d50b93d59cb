package validator

import (
	"errors"
	"fmt"
	"slotify/pkg/logger"
	"slotify/pkg/model"
	"slotify/pkg/validation"

	validatorlib "github.com/go-playground/validator/v10"
)

type ExceptionValidator struct {
	validate *validatorlib.Validate
	logger   *logger.Logger
}

func NewExceptionValidator(log *logger.Logger) *ExceptionValidator {
	return &ExceptionValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *ExceptionValidator) Validate(exception *model.AvailabilityException) error {
	if err := v.validate.Struct(exception); err != nil {
		var validationErrs validatorlib.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(err)
		}
		return err
	}

	var errs validation.ValidationErrors

	switch exception.Kind {
	case model.ExceptionKindBlock:
		if exception.StartTime != "" || exception.EndTime != "" || exception.SlotDurationMin != 0 {
			errs = append(errs, validation.ValidationError{
				Field:   "Kind",
				Message: "block exceptions must not carry a window or slot duration",
			})
		}
	case model.ExceptionKindOverride:
		if exception.StartTime == "" || exception.EndTime == "" {
			errs = append(errs, validation.ValidationError{
				Field:   "StartTime",
				Message: "override exceptions require start_time and end_time",
			})
		} else if exception.StartTime >= exception.EndTime {
			errs = append(errs, validation.ValidationError{
				Field:   "EndTime",
				Message: fmt.Sprintf("end_time (%s) must be after start_time (%s)", exception.EndTime, exception.StartTime),
			})
		}
		if exception.SlotDurationMin == 0 {
			errs = append(errs, validation.ValidationError{
				Field:   "SlotDurationMin",
				Message: "override exceptions require slot_duration_min",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (v *ExceptionValidator) ValidateUpdate(update *model.AvailabilityExceptionUpdate) error {
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
