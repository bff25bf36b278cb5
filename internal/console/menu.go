// Package console runs the interactive text menu on top of the catalog.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/port"
)

// Catalog is the part of the catalog store the menu drives
type Catalog interface {
	Add(photo *domain.Photo) (domain.Outcome, error)
	Delete(id int) domain.Outcome
	All() []domain.Photo
	ByMinRating(minRating int) []domain.Photo
	TakenAfter(t time.Time) []domain.Photo
	Count() int
	Largest() (domain.Photo, bool)
	NextAvailableID() int
	ExportTo(exp port.ExportRepository) (int, error)
}

// ExportOpener opens an export target at path
type ExportOpener func(path string) (port.ExportRepository, error)

// Config contains menu settings
type Config struct {
	DateLayout string
	ExportPath string
	Location   *time.Location
}

// DefaultConfig returns default menu settings
func DefaultConfig() *Config {
	return &Config{
		DateLayout: "2006-01-02 15:04",
		ExportPath: "photos.db",
		Location:   time.Local,
	}
}

// Menu is the interactive session
type Menu struct {
	config     *Config
	catalog    Catalog
	openExport ExportOpener
	in         *bufio.Scanner
	out        io.Writer
	logger     *zap.Logger
}

// New creates a new Menu reading commands from in and writing to out
func New(cfg *Config, catalog Catalog, openExport ExportOpener, in io.Reader, out io.Writer, logger *zap.Logger) *Menu {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.DateLayout == "" {
		cfg.DateLayout = "2006-01-02 15:04"
	}
	if cfg.ExportPath == "" {
		cfg.ExportPath = "photos.db"
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Menu{
		config:     cfg,
		catalog:    catalog,
		openExport: openExport,
		in:         bufio.NewScanner(in),
		out:        out,
		logger:     logger,
	}
}

const menuText = `
Photo catalog
  1) Add photo
  2) Delete photo
  3) List all photos
  4) Photos with minimum rating
  5) Photos taken after a date
  6) Count photos
  7) Largest photo
  8) Export to SQLite
  0) Exit
`

// Run shows the menu until the user exits, input ends or ctx is cancelled
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		fmt.Fprint(m.out, menuText)
		choice, err := m.readLine("Choice: ")
		if err != nil {
			if isClosed(err) {
				return nil
			}
			return err
		}

		switch choice {
		case "0", "q", "quit", "exit":
			fmt.Fprintln(m.out, "Bye.")
			return nil
		case "1":
			err = m.addPhoto()
		case "2":
			err = m.deletePhoto()
		case "3":
			err = m.listAll()
		case "4":
			err = m.listByMinRating()
		case "5":
			err = m.listTakenAfter()
		case "6":
			fmt.Fprintf(m.out, "Photos in catalog: %s\n", humanize.Comma(int64(m.catalog.Count())))
		case "7":
			err = m.showLargest()
		case "8":
			err = m.export()
		case "":
			continue
		default:
			fmt.Fprintf(m.out, "Unknown option %q\n", choice)
		}

		if err != nil {
			if isClosed(err) {
				return nil
			}
			return err
		}
	}
}

func (m *Menu) addPhoto() error {
	fileName, err := m.promptFileName()
	if err != nil {
		return err
	}
	description, err := m.readLine("Description (optional): ")
	if err != nil {
		return err
	}
	taken, err := m.promptDateTime("Date taken")
	if err != nil {
		return err
	}
	size, err := m.promptSize()
	if err != nil {
		return err
	}
	rating, err := m.promptRating("Rating (1-5): ")
	if err != nil {
		return err
	}

	photo, err := domain.NewPhoto(m.catalog.NextAvailableID(), fileName, description, taken, size, rating)
	if err != nil {
		fmt.Fprintf(m.out, "Photo rejected: %v\n", err)
		return nil
	}

	outcome, err := m.catalog.Add(&photo)
	if err != nil {
		return err
	}
	m.report(outcome)
	return nil
}

func (m *Menu) deletePhoto() error {
	id, err := m.promptID()
	if err != nil {
		return err
	}
	m.report(m.catalog.Delete(id))
	return nil
}

func (m *Menu) listAll() error {
	return m.printPhotos(m.catalog.All())
}

func (m *Menu) listByMinRating() error {
	minRating, err := m.promptRating("Minimum rating (1-5): ")
	if err != nil {
		return err
	}
	return m.printPhotos(m.catalog.ByMinRating(minRating))
}

// listTakenAfter excludes photos from the entered day itself
func (m *Menu) listTakenAfter() error {
	day, err := m.promptDate("Taken after")
	if err != nil {
		return err
	}
	return m.printPhotos(m.catalog.TakenAfter(EndOfDay(day)))
}

func (m *Menu) showLargest() error {
	photo, ok := m.catalog.Largest()
	if !ok {
		fmt.Fprintln(m.out, "The catalog is empty.")
		return nil
	}
	return m.printPhotos([]domain.Photo{photo})
}

func (m *Menu) export() error {
	if m.openExport == nil {
		fmt.Fprintln(m.out, "Export is not available.")
		return nil
	}

	path, err := m.promptDefault("Export file", m.config.ExportPath)
	if err != nil {
		return err
	}

	exp, err := m.openExport(path)
	if err != nil {
		fmt.Fprintf(m.out, "Export failed: %v\n", err)
		return nil
	}
	defer exp.Close()

	n, err := m.catalog.ExportTo(exp)
	if err != nil {
		fmt.Fprintf(m.out, "Export failed: %v\n", err)
		return nil
	}
	fmt.Fprintf(m.out, "Exported %s photos to %s\n", humanize.Comma(int64(n)), path)
	return nil
}

func (m *Menu) printPhotos(photos []domain.Photo) error {
	if len(photos) == 0 {
		fmt.Fprintln(m.out, "No photos found.")
		return nil
	}
	return RenderPhotos(m.out, photos, m.config.DateLayout)
}

// report prints the status message of a mutation
func (m *Menu) report(o domain.Outcome) {
	m.logger.Debug("catalog mutation", zap.String("status", o.Status.String()), zap.String("message", o.Message))
	if o.OK() {
		fmt.Fprintf(m.out, "OK: %s\n", o.Message)
		return
	}
	fmt.Fprintf(m.out, "Failed: %s\n", o.Message)
}

// EndOfDay returns the last minute of t's day. Records have minute
// resolution, so "after EndOfDay(d)" means "on a later day than d".
func EndOfDay(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 23, 59, 0, 0, t.Location())
}
