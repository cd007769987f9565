package config

import (
	"testing"
)

func TestValidatorRequireNonEmpty(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantError bool
	}{
		{name: "non-empty value", value: "valid", wantError: false},
		{name: "empty value", value: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequireNonEmpty("test_field", tt.value)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorRequirePositive(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		wantError bool
	}{
		{name: "positive value", value: 10, wantError: false},
		{name: "zero value", value: 0, wantError: true},
		{name: "negative value", value: -3, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator()
			v.RequirePositive("test_field", tt.value)
			if v.HasErrors() != tt.wantError {
				t.Errorf("HasErrors() = %v, want %v", v.HasErrors(), tt.wantError)
			}
		})
	}
}

func TestValidatorFloatRange(t *testing.T) {
	v := NewValidator()
	v.ValidateFloatRange("threshold", 0.7, 0, 1)
	if v.HasErrors() {
		t.Errorf("unexpected errors: %v", v.Errors())
	}

	v = NewValidator()
	v.ValidateFloatRange("threshold", 1.2, 0, 1)
	if !v.HasErrors() {
		t.Error("expected out-of-range error")
	}
}

func TestValidatorChaining(t *testing.T) {
	v := NewValidator()
	v.RequireNonEmpty("host", "").
		ValidatePort("port", 0).
		ValidateOneOf("mode", "bogus", "disable", "require")

	if len(v.Errors()) != 3 {
		t.Errorf("expected 3 accumulated errors, got %d", len(v.Errors()))
	}
	if v.Error() == nil {
		t.Error("expected combined error")
	}
}

func TestValidatePostgresConfig(t *testing.T) {
	if err := ValidatePostgresConfig("localhost", 5432, "postgres", "secret", "questflow", "disable"); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
	if err := ValidatePostgresConfig("", 5432, "postgres", "secret", "questflow", "bogus"); err == nil {
		t.Error("expected invalid config to be rejected")
	}
}

func TestValidateGateConfig(t *testing.T) {
	if err := ValidateGateConfig(0.7, 0.7, 0.85, 2); err != nil {
		t.Errorf("valid gate config rejected: %v", err)
	}
	if err := ValidateGateConfig(0.7, 0.9, 0.85, 2); err == nil {
		t.Error("expected rejection when hard accept sits below soft accept")
	}
	if err := ValidateGateConfig(-0.1, 0.7, 0.85, 2); err == nil {
		t.Error("expected rejection for negative threshold")
	}
}
