package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveJSON marshals the given object and saves it to filePath with the same
// temp-file-and-rename discipline as SaveGob. Index settings are persisted
// as JSON rather than gob because JSON keeps the difference between a null
// and an empty list, which the stop-word configuration depends on.
func SaveJSON(filePath string, object interface{}) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(object, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON for %s: %w", filePath, err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(filePath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write JSON to file %s: %w", filePath, err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, filePath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to move temp file into place at %s: %w", filePath, err)
	}
	return nil
}

// LoadJSON reads a JSON file from filePath into the provided object pointer.
// If the file does not exist, it returns os.ErrNotExist like LoadGob.
func LoadJSON(filePath string, objectPointer interface{}) error {
	data, err := os.ReadFile(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if os.IsNotExist(err) {
			return os.ErrNotExist
		}
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	if err := json.Unmarshal(data, objectPointer); err != nil {
		return fmt.Errorf("failed to unmarshal JSON from file %s: %w", filePath, err)
	}
	return nil
}
