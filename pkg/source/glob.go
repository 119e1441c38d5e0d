package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// ExpandInputs turns command-line inputs into an ordered, deduplicated list of
// paths. Each input may be a file, a directory (its regular files, sorted), a
// glob pattern (its matches, sorted) or StdinName. Inputs keep the order they
// were given in so that output follows the caller's ordering. Patterns that
// match nothing are returned as-is and fail later when opened.
func ExpandInputs(inputs []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			result = append(result, path)
		}
	}

	for _, input := range inputs {
		if input == StdinName {
			add(input)
			continue
		}

		if info, err := os.Stat(input); err == nil && info.IsDir() {
			files, err := dirFiles(input)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
			continue
		}

		matches, err := filepath.Glob(input)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", input, err)
		}
		if len(matches) == 0 {
			add(input)
			continue
		}
		slices.Sort(matches)
		for _, m := range matches {
			add(m)
		}
	}

	return result, nil
}

func dirFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	// os.ReadDir already returns entries sorted by name.
	return files, nil
}
