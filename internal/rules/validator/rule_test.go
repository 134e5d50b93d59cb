package validator

import (
	"io"
	"testing"

	"slotify/pkg/logger"
	"slotify/pkg/model"
)

func intPtr(v int) *int { return &v }

func validWeeklyRule() *model.AvailabilityRule {
	return &model.AvailabilityRule{
		ProviderID:      "prov-1",
		Kind:            model.RuleKindWeekly,
		Weekday:         intPtr(1),
		StartTime:       "09:00",
		EndTime:         "17:00",
		SlotDurationMin: 30,
	}
}

func TestValidateRule(t *testing.T) {
	v := NewRuleValidator(logger.New(logger.Config{Output: io.Discard}))

	tests := []struct {
		name    string
		mutate  func(r *model.AvailabilityRule)
		wantErr bool
	}{
		{
			name:   "valid weekly rule",
			mutate: func(r *model.AvailabilityRule) {},
		},
		{
			name: "valid specific-date rule",
			mutate: func(r *model.AvailabilityRule) {
				r.Kind = model.RuleKindSpecificDate
				r.Weekday = nil
				r.Date = "2026-03-02"
			},
		},
		{
			name:    "weekly rule without weekday",
			mutate:  func(r *model.AvailabilityRule) { r.Weekday = nil },
			wantErr: true,
		},
		{
			name:    "weekly rule with date",
			mutate:  func(r *model.AvailabilityRule) { r.Date = "2026-03-02" },
			wantErr: true,
		},
		{
			name: "specific-date rule without date",
			mutate: func(r *model.AvailabilityRule) {
				r.Kind = model.RuleKindSpecificDate
				r.Weekday = nil
			},
			wantErr: true,
		},
		{
			name: "specific-date rule with weekday",
			mutate: func(r *model.AvailabilityRule) {
				r.Kind = model.RuleKindSpecificDate
				r.Date = "2026-03-02"
			},
			wantErr: true,
		},
		{
			name:    "end not after start",
			mutate:  func(r *model.AvailabilityRule) { r.StartTime, r.EndTime = "17:00", "09:00" },
			wantErr: true,
		},
		{
			name:    "equal start and end",
			mutate:  func(r *model.AvailabilityRule) { r.EndTime = "09:00" },
			wantErr: true,
		},
		{
			name:    "malformed wall clock",
			mutate:  func(r *model.AvailabilityRule) { r.StartTime = "9am" },
			wantErr: true,
		},
		{
			name:    "slot duration too small",
			mutate:  func(r *model.AvailabilityRule) { r.SlotDurationMin = 3 },
			wantErr: true,
		},
		{
			name:    "weekday out of range",
			mutate:  func(r *model.AvailabilityRule) { r.Weekday = intPtr(7) },
			wantErr: true,
		},
		{
			name:    "missing provider",
			mutate:  func(r *model.AvailabilityRule) { r.ProviderID = "" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule := validWeeklyRule()
			tt.mutate(rule)

			err := v.Validate(rule)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestValidateRuleUpdate(t *testing.T) {
	v := NewRuleValidator(logger.New(logger.Config{Output: io.Discard}))

	if err := v.ValidateUpdate(&model.AvailabilityRuleUpdate{StartTime: "10:00", EndTime: "12:00"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if err := v.ValidateUpdate(&model.AvailabilityRuleUpdate{StartTime: "12:00", EndTime: "10:00"}); err == nil {
		t.Error("expected error for inverted window")
	}
}
