package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vertextoedge/photo-catalog/internal/port"
)

// TempMarker is part of every temp file name created by WriteFileAtomic
const TempMarker = ".tmp-"

// Manager handles local filesystem operations
type Manager struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new filesystem manager
func NewManager() *Manager {
	return NewManagerWithPerms(0755, 0644)
}

// NewManagerWithPerms creates a new filesystem manager with custom permissions
func NewManagerWithPerms(dirPerm, filePerm os.FileMode) *Manager {
	return &Manager{
		dirPerm:  dirPerm,
		filePerm: filePerm,
	}
}

// EnsureDir creates the parent directory of filePath
func (m *Manager) EnsureDir(filePath string) error {
	return os.MkdirAll(filepath.Dir(filePath), m.dirPerm)
}

// ReadFile returns the content of a file
func (m *Manager) ReadFile(filePath string) ([]byte, error) {
	return os.ReadFile(filePath)
}

// WriteFileAtomic writes data to a temp file next to filePath, syncs it and
// renames it over filePath. The temp file never survives a failed call.
func (m *Manager) WriteFileAtomic(filePath string, data []byte) (err error) {
	if err := m.EnsureDir(filePath); err != nil {
		return fmt.Errorf("failed to create parent dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Dir(filePath), filepath.Base(filePath)+TempMarker+"*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if _, err = f.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err = f.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = f.Chmod(m.filePerm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(f.Name(), filePath); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filePath, err)
	}
	return nil
}

// FileExists checks if a file exists
func (m *Manager) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// CleanOldTempFiles removes files in dir whose name carries TempMarker and
// whose modification time is older than olderThan. A missing dir is not an error.
func (m *Manager) CleanOldTempFiles(dir string, olderThan time.Duration) (int, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !strings.Contains(e.Name(), TempMarker) {
			continue
		}
		if info, err := e.Info(); err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(dir, e.Name())) == nil {
			removed++
		}
	}
	return removed, nil
}
