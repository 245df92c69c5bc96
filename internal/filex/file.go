// Package filex resolves command-line path arguments to regular files.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Expand replaces every directory in paths with the regular files directly
// inside it, sorted by name. Hidden entries and subdirectories are skipped.
// Other paths are passed through untouched so the caller can report them
// individually.
func Expand(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))

	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil || !fi.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", p, err)
		}

		files := make([]string, 0, len(entries))
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".") || !e.Type().IsRegular() {
				continue
			}
			files = append(files, filepath.Join(p, e.Name()))
		}
		sort.Strings(files)
		out = append(out, files...)
	}

	return out, nil
}
