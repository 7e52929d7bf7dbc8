package validator

import (
	"testing"
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

func TestIsValidEmail(t *testing.T) {
	valid := []string{"test@example.com", "user.name+1@domain.co", "a@b.cd"}
	invalid := []string{"test@", "@example.com", "test@.com", "test@com", "test@domain", " ", ""}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = false, want true", email)
		}
	}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Errorf("IsValidEmail(%q) = true, want false", email)
		}
	}
}

func TestIsValidTRN(t *testing.T) {
	valid := []string{"123456789", "123-456-789"}
	invalid := []string{"12345678", "1234567890", "12345678a", ""}
	for _, trn := range valid {
		if !IsValidTRN(trn) {
			t.Errorf("IsValidTRN(%q) = false, want true", trn)
		}
	}
	for _, trn := range invalid {
		if IsValidTRN(trn) {
			t.Errorf("IsValidTRN(%q) = true, want false", trn)
		}
	}
}

func TestIsValidEmployeeCode(t *testing.T) {
	valid := []string{"EMP001", "EMP-JAM-01", "E-1"}
	invalid := []string{"", "ab", "emp001", "EMP 001", "-EMP001"}
	for _, code := range valid {
		if !IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = false, want true", code)
		}
	}
	for _, code := range invalid {
		if IsValidEmployeeCode(code) {
			t.Errorf("IsValidEmployeeCode(%q) = true, want false", code)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-02-28"); !ok {
		t.Error("expected 2026-02-28 to be a valid date")
	}
	if _, ok := IsValidDate("28/02/2026"); ok {
		t.Error("expected 28/02/2026 to be rejected")
	}
}
