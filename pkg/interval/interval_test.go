package interval

import (
	"testing"
	"time"
)

var day = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a    Range
		b    Range
		want bool
	}{
		{
			name: "partial overlap",
			a:    New(at(10, 0), at(11, 0)),
			b:    New(at(10, 30), at(11, 30)),
			want: true,
		},
		{
			name: "touching endpoints do not overlap",
			a:    New(at(10, 0), at(11, 0)),
			b:    New(at(11, 0), at(12, 0)),
			want: false,
		},
		{
			name: "disjoint",
			a:    New(at(9, 0), at(10, 0)),
			b:    New(at(14, 0), at(15, 0)),
			want: false,
		},
		{
			name: "one contains the other",
			a:    New(at(9, 0), at(18, 0)),
			b:    New(at(12, 0), at(13, 0)),
			want: true,
		},
		{
			name: "identical ranges",
			a:    New(at(10, 0), at(11, 0)),
			b:    New(at(10, 0), at(11, 0)),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.a, tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.b, tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	r := New(at(10, 0), at(11, 0))
	if !Overlaps(r, r) {
		t.Error("a non-degenerate range must overlap itself")
	}
}

func TestContains(t *testing.T) {
	outer := New(at(10, 0), at(11, 0))

	tests := []struct {
		name  string
		inner Range
		want  bool
	}{
		{"exact match", New(at(10, 0), at(11, 0)), true},
		{"strictly inside", New(at(10, 15), at(10, 45)), true},
		{"starts before", New(at(9, 45), at(10, 30)), false},
		{"ends after", New(at(10, 30), at(11, 15)), false},
		{"disjoint", New(at(12, 0), at(13, 0)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Contains(outer, tt.inner); got != tt.want {
				t.Errorf("Contains(%v, %v) = %v, want %v", outer, tt.inner, got, tt.want)
			}
		})
	}
}

func TestIsMultipleOf(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		unit time.Duration
		want bool
	}{
		{"exact multiple", 120 * time.Minute, 60 * time.Minute, true},
		{"equal to unit", 30 * time.Minute, 30 * time.Minute, true},
		{"not a multiple", 45 * time.Minute, 60 * time.Minute, false},
		{"zero duration", 0, 30 * time.Minute, false},
		{"negative duration", -time.Hour, 30 * time.Minute, false},
		{"zero unit", time.Hour, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMultipleOf(tt.d, tt.unit); got != tt.want {
				t.Errorf("IsMultipleOf(%v, %v) = %v, want %v", tt.d, tt.unit, got, tt.want)
			}
		})
	}
}

func TestRangeValidityAndDuration(t *testing.T) {
	if !New(at(10, 0), at(11, 0)).IsValid() {
		t.Error("forward range should be valid")
	}
	if New(at(11, 0), at(10, 0)).IsValid() {
		t.Error("reversed range should be invalid")
	}
	if New(at(10, 0), at(10, 0)).IsValid() {
		t.Error("empty range should be invalid")
	}
	if got := New(at(10, 0), at(11, 30)).Duration(); got != 90*time.Minute {
		t.Errorf("Duration() = %v, want 90m", got)
	}
}
