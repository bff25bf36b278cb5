package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/vertextoedge/photo-catalog/internal/domain/vo"
)

// Photo is a single catalog record describing one photo file
type Photo struct {
	ID          int
	FileName    string
	Description string
	DateTaken   time.Time
	FileSizeMB  float64
	Rating      int
}

// NewPhoto builds a validated Photo. DateTaken is truncated to the minute
// and the description is trimmed; every other field is checked through its
// value object and reported as a *ValidationError naming the field.
func NewPhoto(id int, fileName, description string, dateTaken time.Time, sizeMB float64, rating int) (Photo, error) {
	p := Photo{
		ID:          id,
		FileName:    strings.TrimSpace(fileName),
		Description: strings.TrimSpace(description),
		DateTaken:   dateTaken.Truncate(time.Minute),
		FileSizeMB:  sizeMB,
		Rating:      rating,
	}
	if err := p.Validate(); err != nil {
		return Photo{}, err
	}
	return p, nil
}

// Validate checks the field-level constraints of a record
func (p *Photo) Validate() error {
	if p.ID <= 0 {
		return NewValidationError("id", ErrInvalidID)
	}
	if _, err := vo.ParseFileName(p.FileName); err != nil {
		return NewValidationError("file_name", err)
	}
	if !utf8.ValidString(p.FileName) {
		return NewValidationError("file_name", ErrInvalidText)
	}
	if !utf8.ValidString(p.Description) {
		return NewValidationError("description", ErrInvalidText)
	}
	if p.DateTaken.IsZero() {
		return NewValidationError("date_taken", ErrMissingDate)
	}
	if _, err := vo.ParseSizeMB(p.FileSizeMB); err != nil {
		return NewValidationError("file_size_mb", err)
	}
	if _, err := vo.ParseRating(p.Rating); err != nil {
		return NewValidationError("rating", err)
	}
	return nil
}

// Size returns the file size as a value object
func (p *Photo) Size() vo.SizeMB {
	return vo.SizeMB(p.FileSizeMB)
}

// Stars returns the rating rendered as stars
func (p *Photo) Stars() string {
	return vo.Rating(p.Rating).Stars()
}

// TakenAfter reports whether the photo was taken strictly after t
func (p *Photo) TakenAfter(t time.Time) bool {
	return p.DateTaken.After(t)
}

// Equal compares two records field by field, using time.Equal for DateTaken
func (p Photo) Equal(other Photo) bool {
	return p.ID == other.ID &&
		p.FileName == other.FileName &&
		p.Description == other.Description &&
		p.DateTaken.Equal(other.DateTaken) &&
		p.FileSizeMB == other.FileSizeMB &&
		p.Rating == other.Rating
}
