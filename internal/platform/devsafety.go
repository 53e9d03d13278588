package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDevRun reports whether the binary was built by `go run` or `go test`,
// whose executables live in a go-build temp directory.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}
	return strings.Contains(filepath.ToSlash(exe), "/go-build")
}

// ResolveDataPath returns the directory to operate on. With useTemp, paths
// outside the system temp dir are redirected to a sandbox under it.
func ResolveDataPath(path string, useTemp bool) string {
	if !useTemp {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	tmp := os.TempDir()
	if rel, err := filepath.Rel(tmp, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return abs
	}
	return filepath.Join(tmp, "minddump-dev", filepath.Base(abs))
}
