package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/teampulse-io/teampulse/internal/store/jsonfile"
)

// Paths names the output files for a dataset. Empty entries are
// skipped.
type Paths struct {
	Store         string
	GoogleJSON    string
	GoogleCSV     string
	MicrosoftJSON string
}

// WriteFiles persists a dataset to disk, creating parent directories
// as needed.
func WriteFiles(ds Dataset, paths Paths) error {
	if paths.Store != "" {
		doc := jsonfile.Document{Employees: ds.Roster, Tasks: ds.Tasks}
		raw, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("encode store: %w", err)
		}
		if err := writeFile(paths.Store, raw); err != nil {
			return err
		}
	}
	if paths.GoogleJSON != "" {
		if err := writeFile(paths.GoogleJSON, ds.GoogleJSON); err != nil {
			return err
		}
	}
	if paths.GoogleCSV != "" {
		if err := writeFile(paths.GoogleCSV, ds.GoogleCSV); err != nil {
			return err
		}
	}
	if paths.MicrosoftJSON != "" {
		if err := writeFile(paths.MicrosoftJSON, ds.MicrosoftJSON); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
