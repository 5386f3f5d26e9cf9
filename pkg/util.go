package pkg

import (
	"os"
	"regexp"
	"unsafe"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// BytesToString converts bytes slice to a string without extra allocation
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// IsValidSlug accepts lower-case alphanumeric words joined by single dashes, e.g. "my-first-post"
func IsValidSlug(slug string) bool {
	return slugRegex.MatchString(slug)
}

// EnsureDir creates the directory (and parents) if it does not exist yet
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}
