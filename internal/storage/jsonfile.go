package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// SaveJSON writes v to path as indented JSON, write-then-ack: the data is on
// disk before the call returns. The previous file, if any, is copied to
// path+".backup" first so a bad write never destroys the last-known-good
// state, and the write itself goes through a temp file and rename.
func SaveJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	if prev, err := os.ReadFile(path); err == nil {
		if err := os.WriteFile(path+".backup", prev, 0644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read previous file: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}
	return nil
}

// LoadJSON reads path into v. A missing file is not an error: it returns
// (false, nil) and v is left untouched. A file that fails to parse is
// preserved under path+".backup" and reported as (false, error) so the
// caller can log it and degrade to an empty state instead of crashing.
func LoadJSON(path string, v interface{}) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		// Keep the corrupt bytes around for inspection
		if backupErr := os.WriteFile(path+".backup", data, 0644); backupErr != nil {
			return false, fmt.Errorf("failed to parse %s (and failed to preserve backup: %v): %w", path, backupErr, err)
		}
		return false, fmt.Errorf("failed to parse %s (original preserved as .backup): %w", path, err)
	}
	return true, nil
}
