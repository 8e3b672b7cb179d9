package errors

import (
	"math"
	"testing"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "hole_01", false},
		{"dashes", "green-01-detail", false},
		{"unicode", "grün_01", false},

		{"empty", "", true},
		{"too long", string(make([]byte, 300)), true},
		{"space", "hole 01", true},
		{"newline", "hole\n01", true},
		{"null byte", "hole\x0001", true},
		{"quote", `hole"01`, true},
		{"angle bracket", "<hole>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidID) {
				t.Errorf("ValidateID(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidID)
			}
		})
	}
}

func TestValidateBuffer(t *testing.T) {
	tests := []struct {
		buffer  float64
		wantErr bool
	}{
		{0.8, false},
		{1, false},
		{0.0001, false},
		{0, true},
		{-0.5, true},
		{1.01, true},
		{math.NaN(), true},
	}

	for _, tt := range tests {
		err := ValidateBuffer("detail", tt.buffer)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateBuffer(%v) error = %v, wantErr %v", tt.buffer, err, tt.wantErr)
		}
	}
}

func TestValidateExtent(t *testing.T) {
	if err := ValidateExtent("width", 3.75); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, v := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if err := ValidateExtent("width", v); err == nil {
			t.Errorf("ValidateExtent(%v) should fail", v)
		}
	}
	if err := ValidateFinite("x", -4); err != nil {
		t.Errorf("ValidateFinite(-4) error = %v", err)
	}
	if err := ValidateFinite("x", math.Inf(-1)); err == nil {
		t.Error("ValidateFinite(-Inf) should fail")
	}
}

func TestValidatePattern(t *testing.T) {
	tests := []struct {
		pattern string
		wantErr bool
	}{
		{"hole_%02d", false},
		{"green_%d", false},
		{"%03d_unit", false},

		{"", true},
		{"hole", true},
		{"hole_%s", true},
		{"hole_%02d_%02d", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			err := ValidatePattern("unit", tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePattern(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
		})
	}
}
