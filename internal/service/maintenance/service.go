// Package maintenance removes temp files that interrupted snapshot saves
// leave next to the catalog.
package maintenance

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vertextoedge/photo-catalog/internal/port"
)

const (
	defaultCleanupInterval = 10 * time.Minute
	defaultTempFileMaxAge  = time.Hour
)

// ErrAlreadyRunning is returned by Start when a loop is already active
var ErrAlreadyRunning = errors.New("maintenance service already running")

// Config contains maintenance service configuration
type Config struct {
	// Dir holds the catalog snapshot and its temp files
	Dir string

	// CleanupInterval is the pause between two cleanup passes
	CleanupInterval time.Duration

	// TempFileMaxAge is how old a temp file must be before it is removed.
	// Younger files may belong to a save in progress.
	TempFileMaxAge time.Duration
}

// DefaultConfig returns default maintenance configuration
func DefaultConfig() *Config {
	return &Config{
		Dir:             ".",
		CleanupInterval: defaultCleanupInterval,
		TempFileMaxAge:  defaultTempFileMaxAge,
	}
}

// Service runs cleanup passes once at startup and then on a ticker
type Service struct {
	config *Config
	fs     port.FileSystem
	logger *zap.Logger

	mu   sync.Mutex
	stop context.CancelFunc
}

// New creates a new maintenance Service. Zero config fields get defaults.
func New(cfg *Config, fs port.FileSystem, logger *zap.Logger) *Service {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.Dir != "" {
			c.Dir = cfg.Dir
		}
		if cfg.CleanupInterval > 0 {
			c.CleanupInterval = cfg.CleanupInterval
		}
		if cfg.TempFileMaxAge > 0 {
			c.TempFileMaxAge = cfg.TempFileMaxAge
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{config: c, fs: fs, logger: logger}
}

// RunOnce performs one cleanup pass and returns how many files were removed
func (s *Service) RunOnce() int {
	removed, err := s.fs.CleanOldTempFiles(s.config.Dir, s.config.TempFileMaxAge)
	if err != nil {
		s.logger.Error("failed to clean up temp files",
			zap.String("dir", s.config.Dir),
			zap.Error(err))
		return 0
	}
	if removed > 0 {
		s.logger.Info("removed stale snapshot temp files",
			zap.String("dir", s.config.Dir),
			zap.Int("count", removed))
	}
	return removed
}

// Start blocks, running a cleanup pass every CleanupInterval, until ctx is
// done or Stop is called
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stop != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, s.stop = context.WithCancel(ctx)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.stop()
		s.stop = nil
		s.mu.Unlock()
	}()

	s.logger.Debug("maintenance loop started",
		zap.String("dir", s.config.Dir),
		zap.Duration("interval", s.config.CleanupInterval))

	ticker := time.NewTicker(s.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("maintenance loop stopped")
			return nil
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// Stop ends a running Start loop. It is a no-op when nothing runs.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stop != nil {
		s.stop()
	}
}

// Running reports whether a Start loop is active
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stop != nil
}
