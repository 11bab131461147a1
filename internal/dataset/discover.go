package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
)

var partRegexp = regexp.MustCompile(`(?i)^[^.].*\.csv$`)

// Discover returns the paths of all CSV parts beneath root, sorted by full
// path rather than by file name: root/nested/b.csv comes before root/part.csv.
func Discover(root string) ([]string, error) {
	entries := make([]string, 0)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if partRegexp.MatchString(d.Name()) {
			entries = append(entries, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover parts: %w", err)
	}
	sort.Strings(entries)
	return entries, nil
}
