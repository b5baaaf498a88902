package model

import "time"

// ReportRecord is an archived report row.
type ReportRecord struct {
	ID             string    `json:"id"`
	Camera         string    `json:"camera"`
	CapturedAt     time.Time `json:"captured_at"`
	FramesAnalyzed int       `json:"frames_analyzed"`
	FramesFailed   int       `json:"frames_failed"`
	Discarded      int       `json:"discarded"`
	SnapshotFile   string    `json:"snapshot_file"`
	Payload        []byte    `json:"-"`
}

// ObjectRecord is an archived confirmed object.
type ObjectRecord struct {
	ID          int64   `json:"id"`
	ReportID    string  `json:"report_id"`
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	X1          int     `json:"x1"`
	Y1          int     `json:"y1"`
	X2          int     `json:"x2"`
	Y2          int     `json:"y2"`
	Confidence  float64 `json:"confidence"`
	FramesSeen  int     `json:"frames_seen"`
}

// FindingRecord is an archived risk finding.
type FindingRecord struct {
	ID          int64    `json:"id"`
	ReportID    string   `json:"report_id"`
	RiskType    RiskType `json:"risk_type"`
	Source      string   `json:"source"`
	Target      string   `json:"target"`
	Observation string   `json:"observation"`
	Suggestion  string   `json:"suggestion"`
}

// ReportFilter narrows archive queries.
type ReportFilter struct {
	Camera    string
	Object    string
	RiskType  string
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}

// ReportStats summarizes the archive.
type ReportStats struct {
	TotalReports  int            `json:"total_reports"`
	PerCamera     map[string]int `json:"per_camera"`
	ObjectCounts  map[string]int `json:"object_counts"`
	FindingCounts map[string]int `json:"finding_counts"`
}
