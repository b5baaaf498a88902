package handler

import (
	"net/http"
	"strconv"
	"time"

	"sceneguard/internal/dto"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
	"sceneguard/internal/repository"
	"sceneguard/internal/service/storage"
)

// GetReportsHandler returns a filtered, paginated list of archived reports.
func GetReportsHandler(reports repository.ReportRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		page := atoiDefault(q.Get("page"), 1)
		limit := atoiDefault(q.Get("limit"), 24)

		filter := &model.ReportFilter{
			Camera:    q.Get("camera"),
			Object:    q.Get("object"),
			RiskType:  q.Get("risk"),
			StartDate: parseDate(q.Get("dateAfter")),
			EndDate:   parseDate(q.Get("dateBefore")),
			Limit:     limit,
			Offset:    (page - 1) * limit,
		}

		records, err := reports.GetAll(filter)
		if err != nil {
			logger.Error("Error querying reports from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		totalCount, err := reports.GetTotalCount(filter)
		if err != nil {
			logger.Error("Error counting reports: %v", err)
			totalCount = len(records)
		}

		cameras, err := reports.GetCameras()
		if err != nil {
			logger.Error("Error listing cameras: %v", err)
		}

		infos := make([]dto.ReportInfo, 0, len(records))
		for _, rec := range records {
			infos = append(infos, reportInfo(reports, logger, rec))
		}

		writeJSON(w, logger, http.StatusOK, dto.ReportsData{
			Reports:     infos,
			Cameras:     cameras,
			Length:      totalCount,
			TotalPages:  (totalCount + limit - 1) / limit,
			CurrentPage: page,
			Limit:       limit,
		})
	}
}

func reportInfo(reports repository.ReportRepository, logger *logger.Logger, rec model.ReportRecord) dto.ReportInfo {
	info := dto.ReportInfo{
		ID:        rec.ID,
		Camera:    rec.Camera,
		Date:      rec.CapturedAt,
		TimeOfDay: rec.CapturedAt,
		Objects:   []string{},
		Risks:     []string{},
		Snapshot:  rec.SnapshotFile,
	}

	objects, err := reports.GetObjects(rec.ID)
	if err != nil {
		logger.Error("Error getting objects for report %s: %v", rec.ID, err)
	}
	for _, o := range objects {
		info.Objects = append(info.Objects, o.Name)
	}

	findings, err := reports.GetFindings(rec.ID)
	if err != nil {
		logger.Error("Error getting findings for report %s: %v", rec.ID, err)
	}
	for _, f := range findings {
		info.Risks = append(info.Risks, string(f.RiskType))
	}
	return info
}

// ViewReportHandler returns the full report given by the "id" query parameter.
func ViewReportHandler(reports repository.ReportRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Id parameter is required", http.StatusBadRequest)
			return
		}

		report, err := reports.GetByID(id)
		if err != nil {
			logger.Error("Error loading report %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if report == nil {
			http.NotFound(w, r)
			return
		}

		writeJSON(w, logger, http.StatusOK, report)
	}
}

// ReportStatsHandler returns archive statistics.
func ReportStatsHandler(reports repository.ReportRepository, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := reports.GetStats()
		if err != nil {
			logger.Error("Error computing report stats: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, logger, http.StatusOK, stats)
	}
}

// ViewSnapshotHandler serves an annotated snapshot given by the "image" query parameter.
func ViewSnapshotHandler(snapshots *storage.SnapshotStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		image := r.URL.Query().Get("image")
		if image == "" {
			http.Error(w, "Image parameter is required", http.StatusBadRequest)
			return
		}

		filePath, err := snapshots.Path(image)
		if err != nil {
			http.Error(w, "Invalid image name", http.StatusBadRequest)
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// DeleteReportHandler removes a report from the archive and its snapshot from disk.
func DeleteReportHandler(reports repository.ReportRepository, snapshots *storage.SnapshotStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete && r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := r.URL.Query().Get("id")
		if id == "" {
			http.Error(w, "Id parameter is required", http.StatusBadRequest)
			return
		}

		report, err := reports.GetByID(id)
		if err != nil {
			logger.Error("Error loading report %s: %v", id, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if report == nil {
			http.NotFound(w, r)
			return
		}

		if report.SnapshotFile != "" {
			if err := snapshots.Delete(report.SnapshotFile); err != nil {
				logger.Error("Failed to delete snapshot %s: %v", report.SnapshotFile, err)
			}
		}

		if err := reports.Delete(id); err != nil {
			logger.Error("Failed to delete from database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("Deleted report: %s", id)
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "deleted", "id": id})
	}
}

// ClearReportsHandler deletes every snapshot and clears the archive.
func ClearReportsHandler(reports repository.ReportRepository, snapshots *storage.SnapshotStore, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if err := snapshots.Clear(); err != nil {
			logger.Error("Error clearing snapshots: %v", err)
			http.Error(w, "Unable to clear snapshots", http.StatusInternalServerError)
			return
		}

		if err := reports.DeleteAll(); err != nil {
			logger.Error("Error clearing database: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		logger.Info("All reports cleared, snapshots removed from: %s", snapshots.Dir())
		w.WriteHeader(http.StatusNoContent)
	}
}

// atoiDefault converts string to int or returns a default when conversion fails or value <= 0.
func atoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}

// parseDate parses a date string in the format "2006-01-02" from the request (HTML input format).
func parseDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}
	}
	return t
}
