// Package snapshot stores the whole catalog as a single YAML document.
//
// Documents are written in the JSON-compatible flow style of YAML so every
// string is double-quoted and escaped:
//
//	{"version": 1, "photos": [{"id": 1, "file_name": "beach.jpg",
//	  "description": "", "date_taken": "2024-05-01T10:30Z",
//	  "file_size_mb": 7.5, "rating": 5}]}
//
// Block-style documents are read as well. Records keep the order of the
// in-memory catalog. Encode refuses any record that Decode would refuse,
// so a saved snapshot always loads back unchanged.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/port"
)

const (
	// FormatVersion is the only document version this package reads and writes
	FormatVersion = 1

	// DateLayout keeps minute resolution and the UTC offset
	DateLayout = "2006-01-02T15:04Z07:00"
)

// ErrDateResolution is returned by Encode for a date that DateLayout cannot
// hold exactly
var ErrDateResolution = errors.New("date_taken must have minute resolution")

type document struct {
	Version int      `yaml:"version"`
	Photos  []record `yaml:"photos"`
}

type record struct {
	ID          int     `yaml:"id"`
	FileName    string  `yaml:"file_name"`
	Description string  `yaml:"description"`
	DateTaken   string  `yaml:"date_taken"`
	FileSizeMB  float64 `yaml:"file_size_mb"`
	Rating      int     `yaml:"rating"`
}

// YAMLRepository implements port.CatalogRepository on top of a port.FileSystem
type YAMLRepository struct {
	path string
	fs   port.FileSystem
}

// Ensure YAMLRepository implements port.CatalogRepository
var _ port.CatalogRepository = (*YAMLRepository)(nil)

// NewYAMLRepository creates a repository for the snapshot at path
func NewYAMLRepository(path string, fsys port.FileSystem) (*YAMLRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: catalog path is required", domain.ErrInvalidArgument)
	}
	if fsys == nil {
		return nil, fmt.Errorf("%w: filesystem is required", domain.ErrInvalidArgument)
	}
	return &YAMLRepository{path: path, fs: fsys}, nil
}

// Location returns the snapshot path
func (r *YAMLRepository) Location() string {
	return r.path
}

// Load reads and decodes the snapshot
func (r *YAMLRepository) Load() ([]domain.Photo, error) {
	data, err := r.fs.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSnapshotMissing
		}
		return nil, domain.NewCorruptStateError(r.path, "read failed", err)
	}

	// A zero-length file is a valid empty catalog
	if len(bytes.TrimSpace(data)) == 0 {
		return []domain.Photo{}, nil
	}

	photos, err := Decode(data)
	if err != nil {
		return nil, domain.NewCorruptStateError(r.path, "parse failed", err)
	}
	return photos, nil
}

// Save encodes photos and atomically replaces the snapshot
func (r *YAMLRepository) Save(photos []domain.Photo) error {
	data, err := Encode(photos)
	if err != nil {
		return domain.NewPersistenceError("encode", domain.PersistenceSerialization, r.path, err)
	}

	if err := r.fs.WriteFileAtomic(r.path, data); err != nil {
		kind := domain.PersistenceIO
		if errors.Is(err, fs.ErrPermission) {
			kind = domain.PersistencePermission
		}
		return domain.NewPersistenceError("write", kind, r.path, err)
	}
	return nil
}

// Encode serializes photos into a snapshot document. Records that would not
// decode back to the same values are rejected.
func Encode(photos []domain.Photo) ([]byte, error) {
	doc := document{
		Version: FormatVersion,
		Photos:  make([]record, 0, len(photos)),
	}
	seen := make(map[int]struct{}, len(photos))
	for i, p := range photos {
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("photo %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("photo %d: %w: id %d", i, domain.ErrDuplicateKey, p.ID)
		}
		seen[p.ID] = struct{}{}

		taken := p.DateTaken.Format(DateLayout)
		if back, err := time.Parse(DateLayout, taken); err != nil || !back.Equal(p.DateTaken) {
			return nil, fmt.Errorf("photo %d: %w: %s", i, ErrDateResolution, p.DateTaken.Format(time.RFC3339Nano))
		}

		doc.Photos = append(doc.Photos, record{
			ID:          p.ID,
			FileName:    p.FileName,
			Description: p.Description,
			DateTaken:   taken,
			FileSizeMB:  p.FileSizeMB,
			Rating:      p.Rating,
		})
	}
	return yaml.MarshalWithOptions(doc, yaml.JSON())
}

// Decode parses a snapshot document, rejecting unknown versions, invalid
// records and repeated ids
func Decode(data []byte) ([]domain.Photo, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", doc.Version)
	}

	photos := make([]domain.Photo, 0, len(doc.Photos))
	seen := make(map[int]struct{}, len(doc.Photos))
	for i, rec := range doc.Photos {
		taken, err := time.Parse(DateLayout, rec.DateTaken)
		if err != nil {
			return nil, fmt.Errorf("photo %d: invalid date_taken %q: %w", i, rec.DateTaken, err)
		}

		p := domain.Photo{
			ID:          rec.ID,
			FileName:    rec.FileName,
			Description: rec.Description,
			DateTaken:   taken,
			FileSizeMB:  rec.FileSizeMB,
			Rating:      rec.Rating,
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("photo %d: %w", i, err)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("photo %d: %w: id %d", i, domain.ErrDuplicateKey, p.ID)
		}
		seen[p.ID] = struct{}{}
		photos = append(photos, p)
	}
	return photos, nil
}
