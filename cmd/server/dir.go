package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// ensureDir creates the parent directory of a store file
func ensureDir(path string) error {
	if path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}
