package vo

import (
	"errors"
	"strings"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrRatingOutOfRange = errors.New("rating must be between 1 and 5")

// Rating is a photo rating from MinRating to MaxRating
type Rating int

// ParseRating checks that level lies within the rating scale
func ParseRating(level int) (Rating, error) {
	if level < MinRating || level > MaxRating {
		return 0, ErrRatingOutOfRange
	}
	return Rating(level), nil
}

// Int returns the rating as a plain int
func (r Rating) Int() int {
	return int(r)
}

// AtLeast reports whether r is level or better
func (r Rating) AtLeast(level int) bool {
	return int(r) >= level
}

// Stars renders the rating as filled and empty stars, e.g. "***.."
func (r Rating) Stars() string {
	n := min(max(int(r), 0), MaxRating)
	return strings.Repeat("*", n) + strings.Repeat(".", MaxRating-n)
}
