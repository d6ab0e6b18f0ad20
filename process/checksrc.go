package process

import (
	"fmt"
	"log/slog"

	"github.com/wak-lab-e-v/jw-db-manager/pkg/match"
)

// SourceSummary counts one source-directory resolution run.
type SourceSummary struct {
	Found    int
	NotFound int
	Failed   int
}

func (s SourceSummary) String() string {
	return fmt.Sprintf("source check: %d found, %d not found, %d failed to persist", s.Found, s.NotFound, s.Failed)
}

// CheckSources resolves the source directory for every registration that does
// not have one yet, searching root for a directory name that encodes the
// record's event date (and location keyword). Walk errors for one record are
// logged and count as not found; the run continues. Only a store-level read
// failure aborts.
func CheckSources(store RegistrationStore, root string, log *slog.Logger) (SourceSummary, error) {
	var sum SourceSummary

	regs, err := store.PendingSource()
	if err != nil {
		return sum, fmt.Errorf("load pending registrations: %w", err)
	}
	log.Info("checking source directories", "pending", len(regs), "root", root)

	for _, r := range regs {
		dir, err := match.FindEventDir(root, r.EventDate, r.Location)
		if err != nil {
			log.Warn("source directory walk failed",
				"id", r.ID, "event_date", r.EventDate, "error", err)
			sum.NotFound++
			continue
		}
		if dir == "" {
			log.Debug("no source directory found",
				"id", r.ID, "surname", r.Surname, "given_name", r.GivenName, "event_date", r.EventDate)
			sum.NotFound++
			continue
		}
		if err := store.SetSourceDir(r.ID, dir); err != nil {
			log.Error("persist source directory failed", "id", r.ID, "dir", dir, "error", err)
			sum.Failed++
			continue
		}
		log.Info("source directory found",
			"id", r.ID, "surname", r.Surname, "given_name", r.GivenName, "dir", dir)
		sum.Found++
	}
	return sum, nil
}
