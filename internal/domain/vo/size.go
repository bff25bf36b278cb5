package vo

import (
	"cmp"
	"errors"
	"math"

	"github.com/dustin/go-humanize"
)

var (
	ErrNegativeSize = errors.New("file size cannot be negative")
	ErrInvalidSize  = errors.New("file size must be a finite number")
)

// SizeMB is a photo file size in megabytes. Zero is a valid size.
type SizeMB float64

// ParseSizeMB checks mb and returns it as a SizeMB
func ParseSizeMB(mb float64) (SizeMB, error) {
	switch {
	case math.IsNaN(mb), math.IsInf(mb, 0):
		return 0, ErrInvalidSize
	case mb < 0:
		return 0, ErrNegativeSize
	}
	return SizeMB(mb), nil
}

// Float returns the size as a plain float64
func (s SizeMB) Float() float64 {
	return float64(s)
}

// Compare returns -1, 0 or +1 as s is smaller, equal or larger than other
func (s SizeMB) Compare(other SizeMB) int {
	return cmp.Compare(s, other)
}

// Bytes converts the size using 1 MB = 1024*1024 bytes
func (s SizeMB) Bytes() uint64 {
	return uint64(math.Round(float64(s) * humanize.MiByte))
}

// String formats the size for people, e.g. "7.5 MiB"
func (s SizeMB) String() string {
	return humanize.IBytes(s.Bytes())
}
