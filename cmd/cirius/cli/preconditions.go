package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// RequiredTables are the four source tables every run must find in the
// input directory, as <name>.csv or <name>.csv.zst.
var RequiredTables = []string{"fil", "sag", "dokumentcdw", "notat"}

// EnsureInputDir verifies that folder exists and is a directory, returning
// the cleaned path.
func EnsureInputDir(folder string) (string, error) {
	folder = filepath.Clean(folder)
	info, err := os.Stat(folder)
	if err != nil {
		return "", fmt.Errorf("input directory %s: %w", folder, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("input path %s is not a directory", folder)
	}
	return folder, nil
}

// ResolveTable returns the path of a source table inside folder, preferring
// the plain CSV and falling back to the zstd-compressed spelling.
func ResolveTable(folder, table string) (string, error) {
	plain := filepath.Join(folder, table+".csv")
	if _, err := os.Stat(plain); err == nil {
		return plain, nil
	}
	compressed := plain + ".zst"
	if _, err := os.Stat(compressed); err == nil {
		return compressed, nil
	}
	return "", fmt.Errorf("%s.csv not found in %s", table, folder)
}

// EnsureInputFiles checks that all required tables resolve. Every missing
// table is reported at once so the caller does not fix them one at a time.
// This runs before any processing begins.
func EnsureInputFiles(folder string) error {
	var missing []string
	for _, table := range RequiredTables {
		if _, err := ResolveTable(folder, table); err != nil {
			missing = append(missing, table+".csv")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required .csv files missing from %s: %s", folder, strings.Join(missing, ", "))
	}
	return nil
}

// StagePath returns the path of the staging database inside folder.
func StagePath(folder string) string {
	return filepath.Join(folder, "cirius.db")
}

// EnsureStaged checks that `cirius stage` has been run for folder.
func EnsureStaged(folder string) error {
	if _, err := os.Stat(StagePath(folder)); err != nil {
		return fmt.Errorf("no staged database in %s; run 'cirius stage %s' first", folder, folder)
	}
	return nil
}
