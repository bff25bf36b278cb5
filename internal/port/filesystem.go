package port

import (
	"time"
)

// FileSystem defines the interface for the local file operations the
// catalog snapshot needs
type FileSystem interface {
	// EnsureDir creates the parent directory of filePath if it is missing
	EnsureDir(filePath string) error

	// ReadFile returns the content of a file.
	// Errors satisfy errors.Is(err, fs.ErrNotExist) when the file is absent.
	ReadFile(filePath string) ([]byte, error)

	// WriteFileAtomic replaces filePath with data. Readers observe either the
	// old or the new content, never a partial write.
	WriteFileAtomic(filePath string, data []byte) error

	// FileExists checks if a file exists
	FileExists(filePath string) bool

	// CleanOldTempFiles removes temp files left by interrupted atomic writes in
	// dir that are older than the specified duration.
	// Returns the number of files deleted
	CleanOldTempFiles(dir string, olderThan time.Duration) (int, error)
}
