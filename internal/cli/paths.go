package cli

import (
	"os"
	"path/filepath"
)

// cacheDir returns $XDG_CACHE_HOME/geosvg, or ~/.cache/geosvg when the
// variable is unset.
func cacheDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, appName), nil
}
