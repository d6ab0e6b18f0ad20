package match

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// FindEventDir walks root looking for the first directory whose name contains
// one of the event date's candidate encodings and, when a location is given,
// its last whitespace token (case-insensitively). WalkDir visits siblings in
// lexical order, so the first-match tie-break is stable across platforms.
// Returns "" when nothing matches.
func FindEventDir(root, eventDate, location string) (string, error) {
	candidates := DateCandidates(eventDate)
	if len(candidates) == 0 {
		return "", nil
	}
	keyword := ""
	if fields := strings.Fields(location); len(fields) > 0 {
		keyword = strings.ToLower(fields[len(fields)-1])
	}

	found := ""
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || path == root {
			return nil
		}
		name := d.Name()
		for _, c := range candidates {
			if c == "" || !strings.Contains(name, c) {
				continue
			}
			if keyword != "" && !strings.Contains(strings.ToLower(name), keyword) {
				break
			}
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return found, nil
}
