package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"sceneguard/internal/logger"
	"sceneguard/internal/service"
	"sceneguard/internal/service/storage"
)

// CaptureHandler handles POST /api/capture?camera=<name> by running one
// aggregation pass over the camera's buffered frames and returning the report.
func CaptureHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		camera := r.URL.Query().Get("camera")
		if camera == "" {
			http.Error(w, "Camera parameter is required", http.StatusBadRequest)
			return
		}

		report, err := manager.Capture(camera)
		switch {
		case errors.Is(err, storage.ErrBufferNotReady):
			writeJSON(w, logger, http.StatusConflict, map[string]string{"status": "not ready"})
			return
		case errors.Is(err, service.ErrUnknownCamera):
			writeJSON(w, logger, http.StatusNotFound, map[string]string{"status": "unknown camera"})
			return
		case err != nil:
			logger.Error("Capture failed for camera %s: %v", camera, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, logger, http.StatusOK, report)
	}
}

// CamerasHandler lists known cameras with their buffer fill level.
func CamerasHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, manager.Cameras())
	}
}

func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
