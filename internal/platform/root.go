package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// RootIndicators mark a notes data directory.
var RootIndicators = []string{".minddump", "minddump.yaml", "minddump.yml", "minddump.toml", ".git"}

// FindRoot looks upwards from startDir for a directory carrying one of the
// RootIndicators and returns its absolute path.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range RootIndicators {
			if hasFile(dir, name) {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
