package validator

import (
	"io"
	"testing"

	"slotify/pkg/logger"
	"slotify/pkg/model"
)

func validBlock() *model.AvailabilityException {
	return &model.AvailabilityException{
		ProviderID: "prov-1",
		Date:       "2026-03-02",
		Kind:       model.ExceptionKindBlock,
	}
}

func validOverride() *model.AvailabilityException {
	return &model.AvailabilityException{
		ProviderID:      "prov-1",
		Date:            "2026-03-02",
		Kind:            model.ExceptionKindOverride,
		StartTime:       "10:00",
		EndTime:         "14:00",
		SlotDurationMin: 30,
	}
}

func TestValidateException(t *testing.T) {
	v := NewExceptionValidator(logger.New(logger.Config{Output: io.Discard}))

	tests := []struct {
		name      string
		exception *model.AvailabilityException
		wantErr   bool
	}{
		{
			name:      "valid block",
			exception: validBlock(),
		},
		{
			name:      "valid override",
			exception: validOverride(),
		},
		{
			name: "block with window",
			exception: func() *model.AvailabilityException {
				e := validBlock()
				e.StartTime = "10:00"
				e.EndTime = "14:00"
				return e
			}(),
			wantErr: true,
		},
		{
			name: "block with slot duration",
			exception: func() *model.AvailabilityException {
				e := validBlock()
				e.SlotDurationMin = 30
				return e
			}(),
			wantErr: true,
		},
		{
			name: "override without window",
			exception: func() *model.AvailabilityException {
				e := validOverride()
				e.StartTime = ""
				e.EndTime = ""
				return e
			}(),
			wantErr: true,
		},
		{
			name: "override without slot duration",
			exception: func() *model.AvailabilityException {
				e := validOverride()
				e.SlotDurationMin = 0
				return e
			}(),
			wantErr: true,
		},
		{
			name: "override with inverted window",
			exception: func() *model.AvailabilityException {
				e := validOverride()
				e.StartTime, e.EndTime = "14:00", "10:00"
				return e
			}(),
			wantErr: true,
		},
		{
			name: "malformed date",
			exception: func() *model.AvailabilityException {
				e := validBlock()
				e.Date = "03/02/2026"
				return e
			}(),
			wantErr: true,
		},
		{
			name: "missing provider",
			exception: func() *model.AvailabilityException {
				e := validBlock()
				e.ProviderID = ""
				return e
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.exception)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateExceptionUpdate(t *testing.T) {
	v := NewExceptionValidator(logger.New(logger.Config{Output: io.Discard}))

	if err := v.ValidateUpdate(&model.AvailabilityExceptionUpdate{StartTime: "10:00", EndTime: "12:00"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := v.ValidateUpdate(&model.AvailabilityExceptionUpdate{StartTime: "12:00", EndTime: "10:00"}); err == nil {
		t.Error("expected error for inverted window")
	}
}
