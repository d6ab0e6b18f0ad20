package process

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/wak-lab-e-v/jw-db-manager/models"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/ingest"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/match"
)

// fakeStore keeps registrations in a slice, mirroring the store semantics the
// passes rely on.
type fakeStore struct {
	regs   []models.Registration
	nextID uint
}

func (s *fakeStore) PendingSource() ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range s.regs {
		if r.SourceDir == "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) WithSource() ([]models.Registration, error) {
	var out []models.Registration
	for _, r := range s.regs {
		if r.SourceDir != "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByFingerprint(fp string) (*models.Registration, error) {
	for i := range s.regs {
		if s.regs[i].Fingerprint == fp {
			r := s.regs[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) Create(r *models.Registration) error {
	s.nextID++
	r.ID = s.nextID
	s.regs = append(s.regs, *r)
	return nil
}

func (s *fakeStore) SetSourceDir(id uint, dir string) error { return s.set(id, func(r *models.Registration) { r.SourceDir = dir }) }
func (s *fakeStore) SetWorkDir(id uint, dir string) error   { return s.set(id, func(r *models.Registration) { r.WorkDir = dir }) }

func (s *fakeStore) AppendNote(id uint, note string) error {
	return s.set(id, func(r *models.Registration) {
		if strings.Contains(r.Note, note) {
			return
		}
		if r.Note != "" {
			note = r.Note + " " + note
		}
		r.Note = note
	})
}

func (s *fakeStore) set(id uint, fn func(*models.Registration)) error {
	for i := range s.regs {
		if s.regs[i].ID == id {
			fn(&s.regs[i])
			return nil
		}
	}
	return fmt.Errorf("registration %d not found", id)
}

func (s *fakeStore) byID(t *testing.T, id uint) models.Registration {
	t.Helper()
	for _, r := range s.regs {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("registration %d not found", id)
	return models.Registration{}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func annaResult() *ingest.Result {
	return &ingest.Result{Rows: []ingest.Row{{
		Line:        2,
		OrderNumber: "A1",
		Surname:     "Müller",
		GivenName:   "Anna",
		EventDate:   "24.05.2025",
		EventTime:   "14-00",
		Location:    "Ort",
	}}}
}

func TestImportCreatesAndDeduplicates(t *testing.T) {
	store := &fakeStore{}
	log := testLogger()

	sum, err := Import(store, annaResult(), log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.New != 1 || sum.Existing != 0 {
		t.Fatalf("first import: %+v", sum)
	}
	reg := store.byID(t, 1)
	if reg.Fingerprint != models.Fingerprint("Müller", "Anna", "A1") {
		t.Errorf("fingerprint = %q", reg.Fingerprint)
	}
	if reg.Status != "neu" {
		t.Errorf("status = %q", reg.Status)
	}

	sum, err = Import(store, annaResult(), log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.New != 0 || sum.Existing != 1 || sum.Changed != 0 {
		t.Fatalf("re-import: %+v", sum)
	}
	if len(store.regs) != 1 {
		t.Fatalf("re-import created a duplicate: %d rows", len(store.regs))
	}
}

func TestImportFlagsChangedEventTime(t *testing.T) {
	store := &fakeStore{}
	log := testLogger()
	if _, err := Import(store, annaResult(), log); err != nil {
		t.Fatal(err)
	}

	changed := annaResult()
	changed.Rows[0].EventTime = "15-00"
	sum, err := Import(store, changed, log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Changed != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	reg := store.byID(t, 1)
	if !strings.Contains(reg.Note, changedNote) {
		t.Errorf("note = %q", reg.Note)
	}
	// stored date/time stay untouched, only the note flags the drift
	if reg.EventTime != "14-00" {
		t.Errorf("event time overwritten: %q", reg.EventTime)
	}
}

func TestCheckSourcesResolvesPending(t *testing.T) {
	root := t.TempDir()
	eventDir := filepath.Join(root, "24.05.2025_Ort")
	if err := os.MkdirAll(eventDir, 0755); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	log := testLogger()
	if _, err := Import(store, annaResult(), log); err != nil {
		t.Fatal(err)
	}
	other := annaResult()
	other.Rows[0].OrderNumber = "B2"
	other.Rows[0].Surname = "Schmidt"
	other.Rows[0].EventDate = "01.01.2030"
	if _, err := Import(store, other, log); err != nil {
		t.Fatal(err)
	}

	sum, err := CheckSources(store, root, log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Found != 1 || sum.NotFound != 1 {
		t.Fatalf("summary: %+v", sum)
	}
	if got := store.byID(t, 1).SourceDir; got != eventDir {
		t.Errorf("source dir = %q, want %q", got, eventDir)
	}
	if got := store.byID(t, 2).SourceDir; got != "" {
		t.Errorf("unresolvable record got source dir %q", got)
	}

	// resolved records are not touched again
	sum, err = CheckSources(store, root, log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Found != 0 || sum.NotFound != 1 {
		t.Fatalf("second run: %+v", sum)
	}
}

func TestCheckPicturesMissingSourceDir(t *testing.T) {
	store := &fakeStore{}
	log := testLogger()
	store.Create(&models.Registration{
		OrderNumber: "A1", Surname: "Müller", GivenName: "Anna",
		SourceDir: filepath.Join(t.TempDir(), "gone"),
	})

	sum, err := CheckPictures(store, "", match.ModeCopy, log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.MissingDir != 1 || sum.Matched != 0 {
		t.Fatalf("summary: %+v", sum)
	}
}

// Full pipeline: import, resolve the source directory, match and relocate.
func TestRegistrationToDeliveryPipeline(t *testing.T) {
	sourceRoot := t.TempDir()
	targetRoot := t.TempDir()
	eventDir := filepath.Join(sourceRoot, "24.05.2025_Ort")
	if err := os.MkdirAll(eventDir, 0755); err != nil {
		t.Fatal(err)
	}
	photo := filepath.Join(eventDir, "Anna_Mueller_01.jpg")
	if err := os.WriteFile(photo, []byte("img"), 0644); err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{}
	log := testLogger()
	if _, err := Import(store, annaResult(), log); err != nil {
		t.Fatal(err)
	}
	if _, err := CheckSources(store, sourceRoot, log); err != nil {
		t.Fatal(err)
	}
	sum, err := CheckPictures(store, targetRoot, match.ModeCopy, log)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Matched != 1 || sum.Relocated != 1 || sum.FailedFiles != 0 {
		t.Fatalf("summary: %+v", sum)
	}

	wantDir := filepath.Join(targetRoot, "24.05.2025_Ort", "14-00", "Anna_Müller_A1")
	if _, err := os.Stat(filepath.Join(wantDir, "Anna_Mueller_01.jpg")); err != nil {
		t.Fatalf("delivered file missing: %v", err)
	}
	// copy mode keeps the original
	if _, err := os.Stat(photo); err != nil {
		t.Fatalf("original removed in copy mode: %v", err)
	}

	reg := store.byID(t, 1)
	wantAbs, err := filepath.Abs(wantDir)
	if err != nil {
		t.Fatal(err)
	}
	if reg.WorkDir != wantAbs {
		t.Errorf("work dir = %q, want %q", reg.WorkDir, wantAbs)
	}
}
