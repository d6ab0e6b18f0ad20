package match

import (
	"os"
	"path/filepath"
	"testing"
)

func mkdirs(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		if err := os.MkdirAll(filepath.Join(root, n), 0755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestFindEventDirExactDate(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "2025-05-24_Sommerfest", "2025-06-01_Herbstfest")

	got, err := FindEventDir(root, "24.05.2025", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "2025-05-24_Sommerfest") {
		t.Fatalf("got %q", got)
	}
}

func TestFindEventDirShortYear(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Feier_250524")

	got, err := FindEventDir(root, "24.05.2025", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "Feier_250524") {
		t.Fatalf("got %q", got)
	}
}

func TestFindEventDirLocationKeyword(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "24.05.2025_Rathaus", "24.05.2025_Stadthalle")

	// last whitespace token of the location is required, case-insensitively
	got, err := FindEventDir(root, "24.05.2025", "Festsaal Stadthalle")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "24.05.2025_Stadthalle") {
		t.Fatalf("got %q", got)
	}
}

func TestFindEventDirNested(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, filepath.Join("2025", "events", "24.05.2025_Ort"))

	got, err := FindEventDir(root, "24.05.2025", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(root, "2025", "events", "24.05.2025_Ort") {
		t.Fatalf("got %q", got)
	}
}

func TestFindEventDirNoMatch(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "Sommerfest", "Herbstfest")

	got, err := FindEventDir(root, "24.05.2025", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("expected no match, got %q", got)
	}
}

func TestFindEventDirEmptyDate(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "2025-05-24_Sommerfest")

	got, err := FindEventDir(root, "", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "" {
		t.Fatalf("empty date must not match anything, got %q", got)
	}
}

func TestFindEventDirFirstMatchWins(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "a_24.05.2025", "b_24.05.2025")

	got, err := FindEventDir(root, "24.05.2025", "")
	if err != nil {
		t.Fatal(err)
	}
	// lexical walk order makes the tie-break deterministic
	if got != filepath.Join(root, "a_24.05.2025") {
		t.Fatalf("got %q", got)
	}
}
