package utils

import "path/filepath"

// ResolvePath returns path unchanged when it is empty or absolute, otherwise
// it is joined with baseDir and cleaned.
func ResolvePath(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Clean(filepath.Join(baseDir, path))
}
