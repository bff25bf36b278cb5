package vo

import (
	"errors"
	"path/filepath"
	"strings"
)

var ErrEmptyFileName = errors.New("file name cannot be empty")

// FileName is the name of a photo file as entered by the user. It is stored
// without surrounding whitespace and is never empty.
type FileName string

// ParseFileName trims name and rejects blank input
func ParseFileName(name string) (FileName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyFileName
	}
	return FileName(name), nil
}

// String returns the file name
func (n FileName) String() string {
	return string(n)
}

// Extension returns the lower-cased extension including the dot, or ""
func (n FileName) Extension() string {
	return strings.ToLower(filepath.Ext(string(n)))
}
