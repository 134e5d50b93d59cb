package validator

import (
	"errors"
	"slotify/pkg/logger"
	"slotify/pkg/model"
	"slotify/pkg/validation"

	validatorlib "github.com/go-playground/validator/v10"
)

// BookingValidator covers structural validation only. Time-range, constraint,
// and overlap checks belong to the admission pipeline, which reports them as
// typed rejections.
type BookingValidator struct {
	validate *validatorlib.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validation.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validatorlib.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(err)
		}
		return err
	}
	return nil
}
