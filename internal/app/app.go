package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/goaltracker/internal/config"
	"github.com/templui/goaltracker/internal/db"
	"github.com/templui/goaltracker/internal/pipeline"
	"github.com/templui/goaltracker/internal/progress"
	"github.com/templui/goaltracker/internal/repository"
	"github.com/templui/goaltracker/internal/service"
	"github.com/templui/goaltracker/internal/storage"
)

type App struct {
	Cfg           *config.Config
	DB            *sqlx.DB
	GoalService   *service.GoalService
	ExportService *service.ExportService
	TokenService  *service.TokenService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection, cfg.DBConnectAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(context.Background(), database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Export archive (optional)
	var archive storage.Archive
	if storage.Enabled(cfg) {
		s3Archive, err := storage.New(context.Background(), cfg)
		if err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("failed to initialize export archive: %w", err)
		}
		archive = s3Archive
	}

	return Wire(cfg, database, archive, time.Now), nil
}

// Wire builds repositories and services on an open, migrated database.
// A nil archive leaves export archiving disabled.
func Wire(cfg *config.Config, database *sqlx.DB, archive storage.Archive, now func() time.Time) *App {
	// Repositories
	goalRepository := repository.NewGoalRepository(database)
	progressRepository := repository.NewProgressRepository(database)

	// Services
	tracker := progress.NewTracker(progressRepository, goalRepository, now)
	chain := pipeline.Default(goalRepository, cfg.MaxActiveGoals, now)
	goalService := service.NewGoalService(goalRepository, tracker, chain, cfg.ProgressOwnerCheck, now)
	exportService := service.NewExportService(goalService, archive, cfg.S3PresignExpiry, now)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	return &App{
		Cfg:           cfg,
		DB:            database,
		GoalService:   goalService,
		ExportService: exportService,
		TokenService:  tokenService,
	}
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
