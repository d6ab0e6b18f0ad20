package process

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/wak-lab-e-v/jw-db-manager/pkg/ingest"
)

// WatchInbox watches a directory for dropped Excel exports and imports each
// one once its writes have settled. Runs until the context is cancelled.
func WatchInbox(ctx context.Context, store RegistrationStore, dir, sheet string, log *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}
	log.Info("watching import inbox", "dir", dir)

	// debounce map of pending files; a workbook is imported once it has been
	// quiet for half a second
	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if strings.ToLower(filepath.Ext(ev.Name)) != ".xlsx" {
				continue
			}
			if strings.HasPrefix(filepath.Base(ev.Name), "~") {
				continue // office lock files
			}
			pending[ev.Name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 500*time.Millisecond {
					delete(pending, path)
					importInboxFile(store, path, sheet, log)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		}
	}
}

func importInboxFile(store RegistrationStore, path, sheet string, log *slog.Logger) {
	res, err := ingest.ReadFile(path, sheet)
	if err != nil {
		log.Error("read workbook failed", "path", path, "error", err)
		return
	}
	sum, err := Import(store, res, log)
	if err != nil {
		log.Error("import failed", "path", path, "error", err)
		return
	}
	log.Info("workbook imported", "path", path, "summary", sum.String())
}
