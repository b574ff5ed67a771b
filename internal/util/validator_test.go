package util

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "citizen@lapor.gov.my", " padded@example.com "}
	for _, email := range valid {
		if !IsValidEmail(email) {
			t.Fatalf("expected %q to be valid", email)
		}
	}

	invalid := []string{"", "plain", "no@tld", "two@@example.com", "spa ce@example.com"}
	for _, email := range invalid {
		if IsValidEmail(email) {
			t.Fatalf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		password string
		reason   string
	}{
		{"Ab1", "Password must be at least 8 characters long"},
		{"ALLUPPER1", "Password must contain at least one lowercase letter"},
		{"alllower1", "Password must contain at least one uppercase letter"},
		{"NoNumbers", "Password must contain at least one number"},
	}
	for _, tc := range cases {
		check := ValidatePassword(tc.password)
		if check.Valid {
			t.Fatalf("expected %q to be rejected", tc.password)
		}
		if check.Reason != tc.reason {
			t.Fatalf("password %q: expected reason %q, got %q", tc.password, tc.reason, check.Reason)
		}
	}

	if check := ValidatePassword("Admin123!"); !check.Valid {
		t.Fatalf("expected valid password, got %q", check.Reason)
	}
}

func TestRequireString(t *testing.T) {
	for _, value := range []string{"x", " trimmed ", "Sector 1"} {
		if !RequireString(value) {
			t.Fatalf("expected %q to pass", value)
		}
	}
	for _, value := range []string{"", "   ", "\t\n"} {
		if RequireString(value) {
			t.Fatalf("expected %q to fail", value)
		}
	}
}

func TestNewIDSortable(t *testing.T) {
	first := NewID()
	second := NewID()

	if len(first) != 36 {
		t.Fatalf("expected 36-char id, got %d (%s)", len(first), first)
	}
	if first == second {
		t.Fatalf("expected unique ids")
	}
	// uuid v7 embute o timestamp no prefixo, mantendo ordem lexicográfica
	if strings.Compare(first, second) >= 0 {
		t.Fatalf("expected ids to sort by generation order: %s >= %s", first, second)
	}
}

func TestNowISOFormat(t *testing.T) {
	stamp := NowISO()
	if len(stamp) != len("2006-01-02T15:04:05.000Z") {
		t.Fatalf("unexpected length: %s", stamp)
	}
	if !strings.HasSuffix(stamp, "Z") || stamp[10] != 'T' {
		t.Fatalf("unexpected shape: %s", stamp)
	}
}
