package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
)

// SnapshotStore writes annotated reference frames to the image directory.
type SnapshotStore struct {
	imagesDir string
	logger    *logger.Logger
}

// NewSnapshotStore creates a SnapshotStore rooted at the configured image directory.
func NewSnapshotStore(config *config.Config, logger *logger.Logger) *SnapshotStore {
	return &SnapshotStore{
		imagesDir: config.ImageDirectory,
		logger:    logger,
	}
}

// Dir returns the directory snapshots are written to.
func (s *SnapshotStore) Dir() string {
	return s.imagesDir
}

// Save writes a JPEG for the report and returns its filename. The filename
// carries the timestamp, camera and confirmed object names.
func (s *SnapshotStore) Save(report *model.Report, jpeg []byte) (string, error) {
	if err := os.MkdirAll(s.imagesDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	filename := SnapshotFilename(report)
	fullpath := filepath.Join(s.imagesDir, filename)
	if err := os.WriteFile(fullpath, jpeg, 0644); err != nil {
		return "", fmt.Errorf("failed to save snapshot %s: %w", filename, err)
	}

	s.logger.Info("Saved snapshot %s (%d bytes)", filename, len(jpeg))
	return filename, nil
}

// Path resolves a snapshot filename inside the image directory, rejecting
// names that would escape it.
func (s *SnapshotStore) Path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", fmt.Errorf("invalid snapshot name %q", filename)
	}
	return filepath.Join(s.imagesDir, filename), nil
}

// Delete removes a snapshot file. A missing file is not an error.
func (s *SnapshotStore) Delete(filename string) error {
	path, err := s.Path(filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete snapshot %s: %w", filename, err)
	}
	return nil
}

// Clear removes every file in the image directory.
func (s *SnapshotStore) Clear() error {
	files, err := os.ReadDir(s.imagesDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read image directory: %w", err)
	}
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(s.imagesDir, file.Name())); err != nil {
			s.logger.Error("Error deleting file %s: %v", file.Name(), err)
		}
	}
	return nil
}

// SnapshotFilename builds "<timestamp>_<camera>_<obj>_<obj>_.jpg".
func SnapshotFilename(report *model.Report) string {
	ts := report.CapturedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	objects := ""
	for _, obj := range report.Objects {
		objects += strings.ReplaceAll(obj.Name, " ", "-") + "_"
	}

	camera := strings.ReplaceAll(report.Camera, "/", "-")
	return fmt.Sprintf("%s_%s_%s.jpg", ts.Format("2006-01-02_15-04_05.000"), camera, objects)
}
