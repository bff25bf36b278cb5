package cli

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/vertextoedge/photo-catalog/internal/adapter/filesystem"
	"github.com/vertextoedge/photo-catalog/internal/adapter/snapshot"
	"github.com/vertextoedge/photo-catalog/internal/adapter/sqlite"
	"github.com/vertextoedge/photo-catalog/internal/config"
	"github.com/vertextoedge/photo-catalog/internal/console"
	"github.com/vertextoedge/photo-catalog/internal/domain/event"
	"github.com/vertextoedge/photo-catalog/internal/logger"
	"github.com/vertextoedge/photo-catalog/internal/port"
	"github.com/vertextoedge/photo-catalog/internal/service/catalog"
	"github.com/vertextoedge/photo-catalog/internal/service/maintenance"
)

// App holds the process-wide objects shared by all commands
type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	Store       *catalog.Store
	Stats       *event.StatsHandler
	Maintenance *maintenance.Service
}

// Bootstrap loads configuration, sets up logging and opens the catalog
func Bootstrap(v *viper.Viper, configPath string) (*App, error) {
	cfg, err := config.LoadWith(v, configPath)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return nil, err
	}
	zapLogger := logger.GetZapLogger()

	dispatcher := event.NewInMemoryDispatcher(func(e event.DomainEvent, err error) {
		zapLogger.Warn("event handler failed", zap.String("event", e.EventName()), zap.Error(err))
	})
	dispatcher.Subscribe(event.NewLoggingHandler(zapLogger))
	stats := event.NewStatsHandler()
	dispatcher.Subscribe(stats)

	fsManager := filesystem.NewManager()

	maintenanceService := maintenance.New(&maintenance.Config{
		Dir:             filepath.Dir(cfg.Catalog.Path),
		CleanupInterval: cfg.Maintenance.GetCleanupInterval(),
		TempFileMaxAge:  cfg.Maintenance.GetTempFileMaxAge(),
	}, fsManager, zapLogger)
	maintenanceService.RunOnce()

	repo, err := snapshot.NewYAMLRepository(cfg.Catalog.Path, fsManager)
	if err != nil {
		return nil, err
	}

	store, err := catalog.New(&catalog.Config{
		RollbackFailedDelete: cfg.Catalog.RollbackFailedDelete,
	}, repo, dispatcher, zapLogger)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:      cfg,
		Logger:      zapLogger,
		Store:       store,
		Stats:       stats,
		Maintenance: maintenanceService,
	}, nil
}

// OpenExport opens the SQLite export database at path
func OpenExport(path string) (port.ExportRepository, error) {
	return sqlite.Open(path)
}

// RunMenu runs the interactive menu while the maintenance loop runs in the background
func (a *App) RunMenu(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := a.Maintenance.Start(ctx); err != nil {
			a.Logger.Error("maintenance service stopped with error", zap.Error(err))
		}
	}()

	menu := console.New(&console.Config{
		DateLayout: a.Config.Console.DateLayout,
		ExportPath: a.Config.Export.SQLitePath,
		Location:   time.Local,
	}, a.Store, OpenExport, in, out, a.Logger)

	err := menu.Run(ctx)

	cancel()
	a.Maintenance.Stop()
	<-done

	stats := a.Stats.GetStats()
	a.Logger.Info("session finished",
		zap.Int64("photos_added", stats["photos_added"]),
		zap.Int64("photos_deleted", stats["photos_deleted"]),
		zap.Int64("save_failures", stats["save_failures"]),
		zap.Int64("exports", stats["exports"]))

	return err
}

// Close flushes the logger
func (a *App) Close() {
	_ = logger.Sync()
}
