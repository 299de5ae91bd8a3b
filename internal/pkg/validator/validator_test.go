package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"123e4567-e89b-12d3-a456-426614174000",
		"123E4567-E89B-42D3-A456-426614174000",
	}
	invalid := []string{
		"0188d0f27b8c7b4a8a2b6b8b8b8b8b8b",
		"g188d0f2-7b8c-7b4a-8a2b-6b8b8b8b8b8b",
		"not-a-uuid",
		"",
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidPeriod(t *testing.T) {
	cases := []struct {
		start, end string
		want       bool
	}{
		{"2025-01-01", "2025-01-31", true},
		{"2025-01-15", "2025-01-15", true},
		{"2025-02-01", "2025-01-31", false},
		{"bad", "2025-01-31", false},
		{"2025-01-01", "bad", false},
	}
	for _, c := range cases {
		_, _, got := IsValidPeriod(c.start, c.end)
		if got != c.want {
			t.Errorf("IsValidPeriod(%q, %q) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestIsValidPercentage(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"0", true},
		{"10.5", true},
		{"100", true},
		{"100.01", false},
		{"-1", false},
	}
	for _, c := range cases {
		d := decimal.RequireFromString(c.input)
		if got := IsValidPercentage(d); got != c.want {
			t.Errorf("IsValidPercentage(%s) = %v, want %v", c.input, got, c.want)
		}
	}
}
