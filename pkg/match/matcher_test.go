package match

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		path := filepath.Join(dir, n)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("img"), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestMatchImagesUmlautEquivalence(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Muesli_Schuessler_1.jpg")

	got, err := MatchImages(dir, "Müsli", "Schüßler")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %v", got)
	}

	// and the symmetric case: diacritics on disk, ASCII in the record
	dir2 := t.TempDir()
	writeFiles(t, dir2, "Müsli_Schüßler_1.jpg")
	got, err = MatchImages(dir2, "Muesli", "Schuessler")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match for diacritic file, got %v", got)
	}
}

func TestMatchImagesRejectMarker(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Anna_Mueller_nachgefordert.jpg", "Anna_Mueller_01.jpg")

	got, err := MatchImages(dir, "Anna", "Müller")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || filepath.Base(got[0]) != "Anna_Mueller_01.jpg" {
		t.Fatalf("reject marker not honored: %v", got)
	}
}

func TestMatchImagesGivenNamePrefix(t *testing.T) {
	dir := t.TempDir()
	// surname present but given name not at the start
	writeFiles(t, dir, "Foto_Anna_Mueller.jpg")

	got, err := MatchImages(dir, "Anna", "Mueller")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("given name must be a filename prefix, got %v", got)
	}
}

func TestMatchImagesMultipleGivenNames(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "Marie_Mueller_2.jpg")

	got, err := MatchImages(dir, "Anna Marie", "Müller")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("second given-name token should match, got %v", got)
	}
}

func TestMatchImagesExtensionsAndRecursion(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"Anna_Mueller_01.JPG",
		filepath.Join("sub", "Anna_Mueller_02.png"),
		"Anna_Mueller_notes.txt",
	)

	got, err := MatchImages(dir, "Anna", "Mueller")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected the two images, got %v", got)
	}
}

func TestTargetDirLayout(t *testing.T) {
	got := TargetDir("target", "24.05.2025", "14-00", "Ort", "Anna", "Müller", "A1")
	want := filepath.Join("target", "24.05.2025_Ort", "14-00", "Anna_Müller_A1")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	// no location: no underscore suffix on the date level
	got = TargetDir("target", "24.05.2025", "14-00", "", "Anna", "Müller", "A1")
	want = filepath.Join("target", "24.05.2025", "14-00", "Anna_Müller_A1")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTargetDirSanitizesSeparators(t *testing.T) {
	got := TargetDir("target", "24/05/2025", "14-00", "", "Anna", `Mü\ller`, "A1")
	want := filepath.Join("target", "24-05-2025", "14-00", "Anna_Mü-ller_A1")
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRelocateCopyKeepsOriginal(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	writeFiles(t, src, "Anna_Mueller_01.jpg")
	file := filepath.Join(src, "Anna_Mueller_01.jpg")

	dir := TargetDir(target, "24.05.2025", "14-00", "Ort", "Anna", "Müller", "A1")
	if err := EnsureTargetDir(dir); err != nil {
		t.Fatal(err)
	}
	res := Relocate([]string{file}, dir, ModeCopy)
	if len(res.Errors) != 0 || len(res.Relocated) != 1 {
		t.Fatalf("relocate result: %+v", res)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("copy must keep the original: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Anna_Mueller_01.jpg")); err != nil {
		t.Fatalf("destination missing: %v", err)
	}
}

func TestRelocateMoveRemovesOriginal(t *testing.T) {
	src := t.TempDir()
	dir := filepath.Join(t.TempDir(), "dest")
	if err := EnsureTargetDir(dir); err != nil {
		t.Fatal(err)
	}
	writeFiles(t, src, "Anna_Mueller_01.jpg")
	file := filepath.Join(src, "Anna_Mueller_01.jpg")

	res := Relocate([]string{file}, dir, ModeMove)
	if len(res.Errors) != 0 || len(res.Relocated) != 1 {
		t.Fatalf("relocate result: %+v", res)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Fatalf("move must remove the original, stat err=%v", err)
	}
}

func TestRelocateCopyIsIdempotent(t *testing.T) {
	src := t.TempDir()
	target := t.TempDir()
	writeFiles(t, src, "Anna_Mueller_01.jpg")
	file := filepath.Join(src, "Anna_Mueller_01.jpg")

	dir1 := TargetDir(target, "24.05.2025", "14-00", "Ort", "Anna", "Müller", "A1")
	dir2 := TargetDir(target, "24.05.2025", "14-00", "Ort", "Anna", "Müller", "A1")
	if dir1 != dir2 {
		t.Fatalf("target dir not stable: %q vs %q", dir1, dir2)
	}
	for i := 0; i < 2; i++ {
		if err := EnsureTargetDir(dir1); err != nil {
			t.Fatal(err)
		}
		res := Relocate([]string{file}, dir1, ModeCopy)
		if len(res.Errors) != 0 {
			t.Fatalf("run %d: %v", i, res.Errors)
		}
	}
	// the second copy overwrites, it does not accumulate
	entries, err := os.ReadDir(dir1)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one file in %s, got %d", dir1, len(entries))
	}
}
