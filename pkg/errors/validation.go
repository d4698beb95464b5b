package errors

import (
	"strings"
	"unicode"
)

const (
	maxLayerName = 128
	maxPath      = 4096
)

// hasControl reports whether s contains NUL or another control character.
func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// checkText applies the shared rules for short user-supplied strings.
func checkText(code Code, what, s string, limit int) error {
	switch {
	case s == "":
		return New(code, "%s cannot be empty", what)
	case len(s) > limit:
		return New(code, "%s too long (max %d characters)", what, limit)
	case hasControl(s):
		return New(code, "%s contains control characters", what)
	}
	return nil
}

// ValidateLayerName checks a layer name from a scene file or request.
// Names show up in logs and metadata, so they must be short and printable.
func ValidateLayerName(name string) error {
	return checkText(ErrCodeInvalidConfig, "layer name", name, maxLayerName)
}

// ValidateInputPath checks an input path or URL before it is opened.
func ValidateInputPath(path string) error {
	return checkText(ErrCodeInvalidPath, "path", path, maxPath)
}

var cacheSchemes = []string{"redis://", "rediss://", "mongodb://", "mongodb+srv://"}

// ValidateCacheURL accepts redis, rediss, mongodb and mongodb+srv URLs.
func ValidateCacheURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "cache URL cannot be empty")
	}
	for _, scheme := range cacheSchemes {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "cache URL must use redis, rediss, mongodb or mongodb+srv scheme")
}
