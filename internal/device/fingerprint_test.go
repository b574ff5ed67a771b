package device

import (
	"net/http"
	"strings"
	"testing"
)

func TestFingerprintLength(t *testing.T) {
	header := http.Header{}
	header.Set("User-Agent", "Mozilla/5.0")
	header.Set("Accept-Language", "ms-MY")

	fp := Fingerprint(header)
	if len(fp) != 16 {
		t.Fatalf("expected 16 characters, got %d (%s)", len(fp), fp)
	}
}

func TestCombineWithoutClientFingerprint(t *testing.T) {
	combined := Combine("abcd1234abcd1234", "")
	if combined != "server_abcd1234abcd1234" {
		t.Fatalf("expected server_ prefix, got %s", combined)
	}
}

func TestCombineJoinsAndCaps(t *testing.T) {
	combined := Combine("abcd1234abcd1234", "xy")
	if combined != "abcd1234abcd1234_xy" {
		t.Fatalf("unexpected combined value: %s", combined)
	}

	long := Combine("abcd1234abcd1234", strings.Repeat("z", 40))
	if len(long) != 32 {
		t.Fatalf("expected combined fingerprint capped at 32, got %d", len(long))
	}
	if !strings.HasPrefix(long, "abcd1234abcd1234_") {
		t.Fatalf("expected server part preserved, got %s", long)
	}
}
