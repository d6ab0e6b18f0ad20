package process

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/wak-lab-e-v/jw-db-manager/pkg/match"
)

// PictureSummary counts one image-matching run.
type PictureSummary struct {
	Matched     int
	Unmatched   int
	MissingDir  int
	Relocated   int
	FailedFiles int
}

func (s PictureSummary) String() string {
	return fmt.Sprintf("picture check: %d records matched, %d without matches, %d with missing source dir; %d files relocated, %d failed",
		s.Matched, s.Unmatched, s.MissingDir, s.Relocated, s.FailedFiles)
}

// CheckPictures looks for each registration's photos by name matching inside
// its resolved source directory. With a non-empty targetRoot the matches are
// relocated into the delivery tree and the record's work directory is set (as
// an absolute path) once at least one file made it over. An empty targetRoot
// only counts matches. Per-record and per-file failures are logged and
// counted; only a store-level read failure aborts.
func CheckPictures(store RegistrationStore, targetRoot string, mode match.Mode, log *slog.Logger) (PictureSummary, error) {
	var sum PictureSummary

	regs, err := store.WithSource()
	if err != nil {
		return sum, fmt.Errorf("load registrations with source dir: %w", err)
	}
	log.Info("checking pictures", "records", len(regs), "target", targetRoot, "mode", string(mode))

	for _, r := range regs {
		if _, err := os.Stat(r.SourceDir); err != nil {
			log.Warn("source directory missing", "id", r.ID, "dir", r.SourceDir)
			sum.MissingDir++
			continue
		}

		files, err := match.MatchImages(r.SourceDir, r.GivenName, r.Surname)
		if err != nil {
			log.Warn("image walk failed", "id", r.ID, "dir", r.SourceDir, "error", err)
			sum.Unmatched++
			continue
		}
		if len(files) == 0 {
			log.Debug("no matching pictures",
				"id", r.ID, "surname", r.Surname, "given_name", r.GivenName, "dir", r.SourceDir)
			sum.Unmatched++
			continue
		}
		sum.Matched++
		log.Info("pictures found",
			"id", r.ID, "surname", r.Surname, "given_name", r.GivenName, "count", len(files))

		if targetRoot == "" {
			continue
		}

		dir := match.TargetDir(targetRoot, r.EventDate, r.EventTime, r.Location, r.GivenName, r.Surname, r.OrderNumber)
		if err := match.EnsureTargetDir(dir); err != nil {
			log.Error("create target directory failed", "id", r.ID, "dir", dir, "error", err)
			sum.FailedFiles += len(files)
			continue
		}
		res := match.Relocate(files, dir, mode)
		for _, err := range res.Errors {
			log.Error("relocate failed", "id", r.ID, "error", err)
		}
		sum.Relocated += len(res.Relocated)
		sum.FailedFiles += len(res.Errors)

		if len(res.Relocated) > 0 {
			workDir, err := filepath.Abs(dir)
			if err != nil {
				workDir = dir
			}
			if err := store.SetWorkDir(r.ID, workDir); err != nil {
				log.Error("persist work directory failed", "id", r.ID, "dir", workDir, "error", err)
			}
		}
	}
	return sum, nil
}
