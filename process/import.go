package process

import (
	"fmt"
	"log/slog"

	"github.com/wak-lab-e-v/jw-db-manager/models"
	"github.com/wak-lab-e-v/jw-db-manager/pkg/ingest"
)

// changedNote is appended when a re-import finds the event date or time
// changed for an already known registrant. The stored values stay as they
// are; an operator decides what to do with the drift.
const changedNote = "Achtung, Feierzeit im XLS verändert!"

// ImportSummary counts one import run.
type ImportSummary struct {
	New      int
	Existing int
	Changed  int
	Skipped  int
}

func (s ImportSummary) String() string {
	return fmt.Sprintf("import: %d new, %d existing (%d with changed event date/time), %d skipped for missing fields",
		s.New, s.Existing, s.Changed, s.Skipped)
}

// Import writes the rows of one Excel export into the store. The fingerprint
// over (surname, given name, order number) is the dedup key: a known
// fingerprint leaves the record untouched, except that a changed event
// date/time gets flagged in the note field. Per-row store failures are logged
// and the run continues; only lookup-level failures abort.
func Import(store RegistrationStore, res *ingest.Result, log *slog.Logger) (ImportSummary, error) {
	sum := ImportSummary{Skipped: len(res.Skipped)}
	for _, msg := range res.Skipped {
		log.Warn("import row skipped", "reason", msg)
	}

	for _, row := range res.Rows {
		fp := models.Fingerprint(row.Surname, row.GivenName, row.OrderNumber)
		existing, err := store.FindByFingerprint(fp)
		if err != nil {
			return sum, fmt.Errorf("lookup fingerprint %s: %w", fp, err)
		}

		if existing != nil {
			sum.Existing++
			if existing.EventDate != row.EventDate || existing.EventTime != row.EventTime {
				sum.Changed++
				log.Warn("event date/time changed in export",
					"surname", row.Surname, "given_name", row.GivenName,
					"order_number", row.OrderNumber, "row", row.Line)
				if err := store.AppendNote(existing.ID, changedNote); err != nil {
					log.Error("append note failed", "id", existing.ID, "error", err)
				}
			}
			continue
		}

		reg := models.Registration{
			OrderNumber: row.OrderNumber,
			Surname:     row.Surname,
			GivenName:   row.GivenName,
			Fingerprint: fp,
			EventDate:   row.EventDate,
			EventTime:   row.EventTime,
			Location:    row.Location,
			Status:      "neu",
		}
		if err := store.Create(&reg); err != nil {
			log.Error("create registration failed", "fingerprint", fp, "row", row.Line, "error", err)
			continue
		}
		sum.New++
	}
	return sum, nil
}
