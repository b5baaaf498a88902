package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sceneguard/internal/model"
)

// ReportRepository implements repository.ReportRepository for SQLite.
type ReportRepository struct {
	db *DB
}

// NewReportRepository creates a new SQLite report repository.
func NewReportRepository(db *DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Insert stores the report with its confirmed objects and findings in one transaction.
// The full report is kept as a JSON payload for GetByID.
func (r *ReportRepository) Insert(report *model.Report) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	r.db.Lock()
	defer r.db.Unlock()

	tx, err := r.db.Conn().Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		INSERT INTO reports (id, camera, captured_at, frames_analyzed, frames_failed, discarded, snapshot_file, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, report.Camera, report.CapturedAt, report.FramesAnalyzed, report.FramesFailed,
		report.Discarded, report.SnapshotFile, payload); err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	objStmt, err := tx.Prepare(`
		INSERT INTO report_objects (report_id, name, display_name, x1, y1, x2, y2, confidence, frames_seen)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer objStmt.Close()

	for _, obj := range report.Objects {
		if _, err := objStmt.Exec(report.ID, obj.Name, obj.DisplayName,
			obj.Box.X1, obj.Box.Y1, obj.Box.X2, obj.Box.Y2, obj.Confidence, obj.FramesSeen); err != nil {
			return fmt.Errorf("failed to insert object: %w", err)
		}
	}

	findStmt, err := tx.Prepare(`
		INSERT INTO report_findings (report_id, risk_type, source, target, observation, suggestion)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer findStmt.Close()

	for _, rel := range report.Findings() {
		if _, err := findStmt.Exec(report.ID, string(rel.Finding.Type), rel.Finding.Source.Name,
			rel.Finding.Target.Name, rel.Explanation.Observation(), rel.Explanation.Suggestion()); err != nil {
			return fmt.Errorf("failed to insert finding: %w", err)
		}
	}

	return tx.Commit()
}

// GetByID retrieves the full report. It returns nil, nil when absent.
func (r *ReportRepository) GetByID(id string) (*model.Report, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	var payload []byte
	err := r.db.Conn().QueryRow(`SELECT payload FROM reports WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	var report model.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// filterClause appends the WHERE conditions shared by GetAll and GetTotalCount.
func filterClause(filter *model.ReportFilter) (string, []interface{}) {
	query := " WHERE 1=1"
	args := []interface{}{}

	if filter.Camera != "" {
		query += " AND r.camera = ?"
		args = append(args, filter.Camera)
	}

	if filter.Object != "" {
		query += " AND EXISTS (SELECT 1 FROM report_objects o WHERE o.report_id = r.id AND o.name = ?)"
		args = append(args, filter.Object)
	}

	if filter.RiskType != "" {
		query += " AND EXISTS (SELECT 1 FROM report_findings f WHERE f.report_id = r.id AND f.risk_type = ?)"
		args = append(args, filter.RiskType)
	}

	if !filter.StartDate.IsZero() {
		query += " AND DATE(r.captured_at) >= DATE(?)"
		args = append(args, filter.StartDate)
	}

	if !filter.EndDate.IsZero() {
		query += " AND DATE(r.captured_at) <= DATE(?)"
		args = append(args, filter.EndDate)
	}

	return query, args
}

// GetAll retrieves report rows matching the filter, newest first.
func (r *ReportRepository) GetAll(filter *model.ReportFilter) ([]model.ReportRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := filterClause(filter)
	query := `
		SELECT r.id, r.camera, r.captured_at, r.frames_analyzed, r.frames_failed, r.discarded, r.snapshot_file
		FROM reports r` + where + " ORDER BY r.captured_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Conn().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var records []model.ReportRecord
	for rows.Next() {
		var rec model.ReportRecord
		if err := rows.Scan(&rec.ID, &rec.Camera, &rec.CapturedAt, &rec.FramesAnalyzed,
			&rec.FramesFailed, &rec.Discarded, &rec.SnapshotFile); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// GetTotalCount returns the number of reports matching the filter.
func (r *ReportRepository) GetTotalCount(filter *model.ReportFilter) (int, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	where, args := filterClause(filter)

	var count int
	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM reports r`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// GetObjects returns the archived objects of a report in insertion order.
func (r *ReportRepository) GetObjects(reportID string) ([]model.ObjectRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, report_id, name, display_name, x1, y1, x2, y2, confidence, frames_seen
		FROM report_objects WHERE report_id = ? ORDER BY id
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query objects: %w", err)
	}
	defer rows.Close()

	var objects []model.ObjectRecord
	for rows.Next() {
		var o model.ObjectRecord
		if err := rows.Scan(&o.ID, &o.ReportID, &o.Name, &o.DisplayName,
			&o.X1, &o.Y1, &o.X2, &o.Y2, &o.Confidence, &o.FramesSeen); err != nil {
			return nil, fmt.Errorf("failed to scan object: %w", err)
		}
		objects = append(objects, o)
	}
	return objects, rows.Err()
}

// GetFindings returns the archived findings of a report in pair order.
func (r *ReportRepository) GetFindings(reportID string) ([]model.FindingRecord, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`
		SELECT id, report_id, risk_type, source, target, observation, suggestion
		FROM report_findings WHERE report_id = ? ORDER BY id
	`, reportID)
	if err != nil {
		return nil, fmt.Errorf("failed to query findings: %w", err)
	}
	defer rows.Close()

	var findings []model.FindingRecord
	for rows.Next() {
		var f model.FindingRecord
		if err := rows.Scan(&f.ID, &f.ReportID, &f.RiskType, &f.Source, &f.Target,
			&f.Observation, &f.Suggestion); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		findings = append(findings, f)
	}
	return findings, rows.Err()
}

// GetCameras returns a list of unique camera names.
func (r *ReportRepository) GetCameras() ([]string, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	rows, err := r.db.Conn().Query(`SELECT DISTINCT camera FROM reports ORDER BY camera`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	var cameras []string
	for rows.Next() {
		var camera string
		if err := rows.Scan(&camera); err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, camera)
	}
	return cameras, rows.Err()
}

// GetStats returns counts per camera, object class and risk type.
func (r *ReportRepository) GetStats() (*model.ReportStats, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	stats := &model.ReportStats{
		PerCamera:     make(map[string]int),
		ObjectCounts:  make(map[string]int),
		FindingCounts: make(map[string]int),
	}

	if err := r.db.Conn().QueryRow(`SELECT COUNT(*) FROM reports`).Scan(&stats.TotalReports); err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}

	groups := []struct {
		query  string
		target map[string]int
	}{
		{`SELECT camera, COUNT(*) FROM reports GROUP BY camera`, stats.PerCamera},
		{`SELECT name, COUNT(*) FROM report_objects GROUP BY name`, stats.ObjectCounts},
		{`SELECT risk_type, COUNT(*) FROM report_findings GROUP BY risk_type`, stats.FindingCounts},
	}
	for _, g := range groups {
		if err := countInto(r.db.Conn(), g.query, g.target); err != nil {
			return nil, err
		}
	}

	return stats, nil
}

func countInto(conn *sql.DB, query string, target map[string]int) error {
	rows, err := conn.Query(query)
	if err != nil {
		return fmt.Errorf("failed to query stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int
		if err := rows.Scan(&key, &count); err != nil {
			return fmt.Errorf("failed to scan stats: %w", err)
		}
		target[key] = count
	}
	return rows.Err()
}

// Delete removes a report; its objects and findings cascade.
func (r *ReportRepository) Delete(id string) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM reports WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

// DeleteAll removes every archived report.
func (r *ReportRepository) DeleteAll() error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, err := r.db.Conn().Exec(`DELETE FROM reports`); err != nil {
		return fmt.Errorf("failed to delete reports: %w", err)
	}
	return nil
}
