package util

import (
	"errors"
	"strings"
)

// ErrUnsafeFileName reports an uploaded file name that cannot be used
// as part of a storage key.
var ErrUnsafeFileName = errors.New("unsafe file name")

var separatorReplacer = strings.NewReplacer("/", "_", "\\", "_")

// SanitizeFileName makes an uploaded file name safe to embed in a
// storage key. Traversal sequences are rejected outright; path
// separators are replaced.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrUnsafeFileName
	}
	return separatorReplacer.Replace(s), nil
}
