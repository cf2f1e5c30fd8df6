package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// ScanOptions configures file scanning within a single directory.
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".csv").
	// Matching is case-insensitive; empty means all files.
	Extensions []string
	// Pattern is an optional regex matched against the filename without
	// its extension.
	Pattern *regexp.Regexp
}

// ScanFiles returns the sorted paths of regular files in dir matching the
// options. Subdirectories are not descended into; raw-data directories are
// flat by convention.
func ScanFiles(dir string, opts ScanOptions) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		name := entry.Name()
		if len(extMap) > 0 && !extMap[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		if opts.Pattern != nil {
			stem := strings.TrimSuffix(name, filepath.Ext(name))
			if !opts.Pattern.MatchString(stem) {
				continue
			}
		}
		files = append(files, filepath.Join(dir, name))
	}

	sort.Strings(files)
	return files, nil
}

// ListSubdirs returns the sorted names of immediate subdirectories of dir,
// excluding hidden directories and any name in exclude. Light-dark raw data
// is organized as one folder per subject alongside tracker bookkeeping
// folders that must be skipped.
func ListSubdirs(dir string, exclude []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	excludeMap := make(map[string]bool)
	for _, name := range exclude {
		excludeMap[name] = true
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if excludeMap[name] || strings.HasPrefix(name, ".") {
			continue
		}
		names = append(names, name)
	}

	sort.Strings(names)
	return names, nil
}

// Stem returns the base filename without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
