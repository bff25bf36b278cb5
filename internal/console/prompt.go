package console

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/vertextoedge/photo-catalog/internal/domain/vo"
)

// errInputClosed ends the menu when the input stream is exhausted
var errInputClosed = errors.New("input closed")

// readLine prints label and returns the next trimmed input line
func (m *Menu) readLine(label string) (string, error) {
	fmt.Fprint(m.out, label)
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// promptUntil re-asks label until parse accepts the input
func promptUntil[T any](m *Menu, label string, parse func(string) (T, error)) (T, error) {
	for {
		line, err := m.readLine(label)
		if err != nil {
			var zero T
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		fmt.Fprintf(m.out, "  %v, try again\n", err)
	}
}

func (m *Menu) promptFileName() (string, error) {
	return promptUntil(m, "File name: ", func(s string) (string, error) {
		fn, err := vo.ParseFileName(s)
		if err != nil {
			return "", err
		}
		return fn.String(), nil
	})
}

func (m *Menu) promptDateTime(label string) (time.Time, error) {
	layout := m.config.DateLayout
	return promptUntil(m, fmt.Sprintf("%s (%s): ", label, layout), func(s string) (time.Time, error) {
		t, err := time.ParseInLocation(layout, s, m.config.Location)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected a date like %s", layout)
		}
		return t, nil
	})
}

func (m *Menu) promptDate(label string) (time.Time, error) {
	return promptUntil(m, label+" (2006-01-02): ", func(s string) (time.Time, error) {
		t, err := time.ParseInLocation(time.DateOnly, s, m.config.Location)
		if err != nil {
			return time.Time{}, errors.New("expected a date like 2006-01-02")
		}
		return t, nil
	})
}

func (m *Menu) promptSize() (float64, error) {
	return promptUntil(m, "File size in MB: ", func(s string) (float64, error) {
		mb, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, errors.New("expected a number")
		}
		size, err := vo.ParseSizeMB(mb)
		if err != nil {
			return 0, err
		}
		return size.Float(), nil
	})
}

func (m *Menu) promptRating(label string) (int, error) {
	return promptUntil(m, label, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, errors.New("expected a whole number")
		}
		r, err := vo.ParseRating(n)
		if err != nil {
			return 0, err
		}
		return r.Int(), nil
	})
}

func (m *Menu) promptID() (int, error) {
	return promptUntil(m, "Photo id: ", func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, errors.New("expected a positive whole number")
		}
		return n, nil
	})
}

// promptDefault returns def when the input line is empty
func (m *Menu) promptDefault(label, def string) (string, error) {
	line, err := m.readLine(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// isClosed reports whether err means the user is gone
func isClosed(err error) bool {
	return errors.Is(err, errInputClosed) || errors.Is(err, io.EOF)
}
