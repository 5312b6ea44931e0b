package testutil

import (
	"os"
	"path/filepath"
)

// WriteTree materializes files under root from a map of relative path to
// content, creating directories as needed.
func WriteTree(root string, files map[string]string) error {
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}
