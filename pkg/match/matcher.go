package match

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Recognized image file extensions (lowercase, with leading dot).
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".jfif": true,
}

// rejectMarker flags placeholder/reorder files that must never match,
// regardless of how well the name fits.
const rejectMarker = "nachgefordert"

// Mode selects how matched files are relocated into the delivery tree.
type Mode string

const (
	ModeCopy Mode = "copy"
	ModeMove Mode = "move"
)

// MatchImages walks sourceDir recursively and returns every image file whose
// name starts with one of the given-name-token variants and contains one of
// the surname variants. All tests are lowercased substring/prefix tests; there
// is no scoring.
func MatchImages(sourceDir, givenName, surname string) ([]string, error) {
	var givenVariants []string
	for _, token := range strings.Fields(givenName) {
		givenVariants = append(givenVariants, GivenNameVariants(token)...)
	}
	surnameVariants := SurnameVariants(surname)

	var matched []string
	err := filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if fileNameMatches(d.Name(), givenVariants, surnameVariants) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

func fileNameMatches(name string, givenVariants, surnameVariants []string) bool {
	if !imageExtensions[strings.ToLower(filepath.Ext(name))] {
		return false
	}
	lower := strings.ToLower(name)
	if strings.Contains(lower, rejectMarker) {
		return false
	}
	for _, g := range givenVariants {
		if !strings.HasPrefix(lower, strings.ToLower(g)) {
			continue
		}
		for _, s := range surnameVariants {
			if strings.Contains(lower, strings.ToLower(s)) {
				return true
			}
		}
	}
	return false
}

// TargetDir builds the three-level delivery path for one person:
// date[_location] / time / given_surname_order. Path separators inside the
// field values are sanitized to hyphens.
func TargetDir(root, eventDate, eventTime, location, givenName, surname, orderNumber string) string {
	level1 := sanitizeComponent(eventDate)
	if loc := strings.TrimSpace(location); loc != "" {
		level1 += "_" + sanitizeComponent(loc)
	}
	level2 := sanitizeComponent(eventTime)
	level3 := sanitizeComponent(givenName + "_" + surname + "_" + orderNumber)
	return filepath.Join(root, level1, level2, level3)
}

func sanitizeComponent(s string) string {
	s = strings.ReplaceAll(s, "/", "-")
	return strings.ReplaceAll(s, "\\", "-")
}

// EnsureTargetDir creates the delivery directory and its parents. Idempotent.
func EnsureTargetDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// RelocateResult reports the outcome of moving or copying one record's files.
type RelocateResult struct {
	Relocated []string
	Errors    []error
}

// Relocate moves or copies the matched files into targetDir, which must
// already exist. Destination names keep the original basename; an existing
// destination file is overwritten. Per-file failures are collected, not
// fatal.
func Relocate(files []string, targetDir string, mode Mode) RelocateResult {
	var res RelocateResult
	for _, src := range files {
		dst := filepath.Join(targetDir, filepath.Base(src))
		var err error
		switch mode {
		case ModeMove:
			err = moveFile(src, dst)
		case ModeCopy:
			err = copyFile(src, dst)
		default:
			err = fmt.Errorf("unknown relocation mode %q", mode)
		}
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("%s: %w", src, err))
			continue
		}
		res.Relocated = append(res.Relocated, dst)
	}
	return res
}

func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// rename fails across filesystems; fall back to copy and remove
	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// copyFile copies src to dst preserving mode bits and modification time.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}
