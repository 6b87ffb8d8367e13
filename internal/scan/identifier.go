package scan

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// minIdentifierLength filters folder names that are too short to be install
// identifiers (InvokeAI uses UUIDs; older installs used long hex digests).
const minIdentifierLength = 9

// ValidIdentifier reports whether name looks like an install identifier:
// a UUID, or a longer alphanumeric-and-hyphen token.
func ValidIdentifier(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, err := uuid.Parse(name); err == nil {
		return true
	}
	if len(name) < minIdentifierLength {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-':
		default:
			return false
		}
	}
	return true
}

// IdentifierFromPath extracts the install identifier embedded in a payload
// path ({...}/{identifier}/{file}). It is total: any path that does not
// follow the layout yields ok=false, never an error.
func IdentifierFromPath(path string) (string, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", false
	}
	parent := filepath.Base(filepath.Dir(filepath.Clean(path)))
	if parent == "." || parent == string(filepath.Separator) {
		return "", false
	}
	if !ValidIdentifier(parent) {
		return "", false
	}
	return parent, true
}
