package route

import (
	"net/http"

	"sceneguard/internal/config"
	"sceneguard/internal/handler"
	"sceneguard/internal/logger"
	"sceneguard/internal/middleware"
	"sceneguard/internal/service"
)

// SetupRoutes registers the capture, archive, viewer, log and auth endpoints
// and wraps the mux with the authentication middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	reports := manager.GetReportRepository()
	snapshots := manager.GetSnapshotStore()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Live view and capture
	mux.HandleFunc("/api/view", handler.ViewWebsocketHandler(manager, logger))
	mux.HandleFunc("/api/cameras", handler.CamerasHandler(manager, logger))
	mux.HandleFunc("/api/capture", handler.CaptureHandler(manager, logger))

	// Report archive
	mux.HandleFunc("/api/reports", handler.GetReportsHandler(reports, logger))
	mux.HandleFunc("/api/reports/view", handler.ViewReportHandler(reports, logger))
	mux.HandleFunc("/api/reports/stats", handler.ReportStatsHandler(reports, logger))
	mux.HandleFunc("/api/reports/snapshot", handler.ViewSnapshotHandler(snapshots))
	mux.HandleFunc("/api/reports/delete", handler.DeleteReportHandler(reports, snapshots, logger))
	mux.HandleFunc("/api/reports/clear", handler.ClearReportsHandler(reports, snapshots, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowInfoLogsHandler(cfg))
	mux.HandleFunc("/logs/warning", handler.ShowWarningLogsHandler(cfg))
	mux.HandleFunc("/logs/error", handler.ShowErrorLogsHandler(cfg))

	mux.HandleFunc("/logs/info/clear", handler.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handler.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handler.ClearErrorLogsHandler(logger))

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	return middleware.AuthMiddleware(mux)
}
