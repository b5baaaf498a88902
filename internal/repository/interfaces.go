package repository

import "sceneguard/internal/model"

// ReportRepository defines the interface for archived report operations.
type ReportRepository interface {
	// Create operations
	Insert(report *model.Report) error

	// Read operations
	GetByID(id string) (*model.Report, error)
	GetAll(filter *model.ReportFilter) ([]model.ReportRecord, error)
	GetTotalCount(filter *model.ReportFilter) (int, error)
	GetObjects(reportID string) ([]model.ObjectRecord, error)
	GetFindings(reportID string) ([]model.FindingRecord, error)
	GetCameras() ([]string, error)
	GetStats() (*model.ReportStats, error)

	// Delete operations
	Delete(id string) error
	DeleteAll() error
}
