package util

import (
	"errors"
	"strings"
	"testing"

	"nathanbeddoewebdev/flagadmin/internal/domain"
)

func TestValidateFlagKey_Valid(t *testing.T) {
	valid := []string{
		"beta",
		"new-checkout",
		"search.v2",
		"dark_mode",
		"a1",
		"2fa-required",
	}
	for _, key := range valid {
		t.Run(key, func(t *testing.T) {
			if err := ValidateFlagKey(key); err != nil {
				t.Errorf("expected %q to be valid, got error: %v", key, err)
			}
		})
	}
}

func TestValidateFlagKey_Invalid(t *testing.T) {
	tests := []struct {
		key     string
		wantMsg string
	}{
		{"", "at least 2 characters"},
		{"a", "at least 2 characters"},
		{strings.Repeat("x", 65), "at most 64 characters"},
		{"Beta", "invalid characters"},
		{"new checkout", "invalid characters"},
		{"-beta", "invalid characters"},
		{".beta", "invalid characters"},
		{"beta!", "invalid characters"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateFlagKey(tt.key)
			if err == nil {
				t.Fatalf("expected %q to be invalid, got nil", tt.key)
			}
			if !errors.Is(err, domain.ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
			if got := err.Error(); !strings.Contains(got, tt.wantMsg) {
				t.Errorf("expected error containing %q, got %q", tt.wantMsg, got)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	if err := ValidateUsername("ada.l"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateUsername("ab"); err == nil {
		t.Error("expected short username to be rejected")
	}
}

func TestValidateRollout(t *testing.T) {
	for _, p := range []int{0, 1, 50, 100} {
		if err := ValidateRollout(p); err != nil {
			t.Errorf("ValidateRollout(%d) error: %v", p, err)
		}
	}
	for _, p := range []int{-1, 101} {
		if err := ValidateRollout(p); !errors.Is(err, domain.ErrInvalid) {
			t.Errorf("ValidateRollout(%d) = %v, want ErrInvalid", p, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"", true},
		{"ada@example.com", true},
		{"not-an-email", false},
		{"Ada <ada@example.com>", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err == nil) != tt.valid {
				t.Errorf("ValidateEmail(%q) = %v, want valid=%v", tt.email, err, tt.valid)
			}
		})
	}
}
