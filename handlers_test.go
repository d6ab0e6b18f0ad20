package main

import "testing"

func TestValidateFinalPictures(t *testing.T) {
	cases := []struct {
		name       string
		p1, p2, p3 string
		wantErr    bool
	}{
		{"all empty", "", "", "", false},
		{"distinct", "/a/1.jpg", "/a/2.jpg", "/a/3.jpg", false},
		{"one set", "/a/1.jpg", "", "", false},
		{"duplicate adjacent", "/a/1.jpg", "/a/1.jpg", "", true},
		{"duplicate far", "/a/1.jpg", "", "/a/1.jpg", true},
		{"empty slots never collide", "", "", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateFinalPictures(tc.p1, tc.p2, tc.p3)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validateFinalPictures(%q, %q, %q) = %v", tc.p1, tc.p2, tc.p3, err)
			}
		})
	}
}

func TestFieldPatterns(t *testing.T) {
	if !eventDateRE.MatchString("24.05.2025") {
		t.Error("valid event date rejected")
	}
	for _, bad := range []string{"2025-05-24", "24.5.2025", "24.05.25", "24.05.2025 00:00:00"} {
		if eventDateRE.MatchString(bad) {
			t.Errorf("event date %q accepted", bad)
		}
	}
	if !eventTimeRE.MatchString("14-00") {
		t.Error("valid event time rejected")
	}
	for _, bad := range []string{"14:00", "14-00-00", "9-00"} {
		if eventTimeRE.MatchString(bad) {
			t.Errorf("event time %q accepted", bad)
		}
	}
}
