package models

import "testing"

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("Müller", "Anna", "A1")
	b := Fingerprint("Müller", "Anna", "A1")
	if a != b {
		t.Fatalf("fingerprint not deterministic: %s vs %s", a, b)
	}
	if len(a) != 8 {
		t.Fatalf("expected 8 hex digits, got %q", a)
	}
	for _, r := range a {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			t.Fatalf("non-hex rune %q in fingerprint %s", r, a)
		}
	}
}

func TestFingerprintFieldSensitivity(t *testing.T) {
	base := Fingerprint("Müller", "Anna", "A1")
	cases := map[string]string{
		"surname": Fingerprint("Mueller", "Anna", "A1"),
		"given":   Fingerprint("Müller", "Anne", "A1"),
		"order":   Fingerprint("Müller", "Anna", "A2"),
	}
	for field, fp := range cases {
		if fp == base {
			t.Errorf("changing %s did not change the fingerprint", field)
		}
	}
}
