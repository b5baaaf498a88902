package app

import (
	"fmt"
	"net/http"

	"go.uber.org/multierr"

	"sceneguard/internal/config"
	"sceneguard/internal/handler"
	"sceneguard/internal/logger"
	"sceneguard/internal/repository/sqlite"
	"sceneguard/internal/route"
	"sceneguard/internal/service"
	"sceneguard/internal/service/ai"
	"sceneguard/internal/service/analysis"
	"sceneguard/internal/service/storage"
	"sceneguard/internal/service/websocket"
)

type App struct {
	config     *config.Config
	logger     *logger.Logger
	db         *sqlite.DB
	detector   *ai.DetectorService
	hubService *websocket.HubService
	manager    *service.Manager
}

func NewApp() (*App, error) {
	cfg := config.Load()
	log := logger.NewLogger(cfg)

	tables, err := cfg.LoadTables()
	if err != nil {
		return nil, fmt.Errorf("failed to load reference tables: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	detector := ai.NewDetectorService(cfg, log)
	hub := websocket.NewHubService(cfg, log)
	aggregator := analysis.NewAggregator(detector, tables, cfg, log)
	snapshots := storage.NewSnapshotStore(cfg, log)

	mng := service.NewManager(aggregator, detector, snapshots, sqlite.NewReportRepository(db), hub, cfg, log)

	return &App{
		config:     cfg,
		logger:     log,
		db:         db,
		detector:   detector,
		hubService: hub,
		manager:    mng,
	}, nil
}

func (a *App) Run() error {
	go a.hubService.Run()
	go handler.UDPCameraHandler(a.manager, a.logger, a.config)

	router := route.SetupRoutes(a.manager, a.config, a.logger)

	fmt.Printf("🚀 SceneGuard Server\n")
	fmt.Printf("📍 URL: http://localhost:%d\n", a.config.Port)
	fmt.Printf("📷 Cameras (UDP): %d\n", a.config.CamerasPort)
	fmt.Printf("📁 Snapshots: %s\n", a.config.ImageDirectory)
	fmt.Printf("🤖 AI Model: %s\n", a.config.ModelPath)

	return http.ListenAndServe(fmt.Sprintf(":%d", a.config.Port), router)
}

// Close stops background workers and releases resources.
func (a *App) Close() error {
	a.manager.Stop()
	a.hubService.Stop()
	return multierr.Combine(a.detector.Close(), a.db.Close(), a.logger.Close())
}
