package service

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
	"sceneguard/internal/repository/sqlite"
	"sceneguard/internal/service/analysis"
	"sceneguard/internal/service/storage"
	"sceneguard/internal/service/websocket"
)

// sceneDetector sees a cup next to a laptop in every frame.
type sceneDetector struct {
	mu    sync.Mutex
	calls int
}

func (d *sceneDetector) Detect(frame []byte) ([]model.RawDetection, error) {
	d.mu.Lock()
	d.calls++
	d.mu.Unlock()
	return []model.RawDetection{
		{Label: "cup", Confidence: 0.6, Box: model.Box{X1: 90, Y1: 90, X2: 110, Y2: 110}},
		{Label: "laptop", Confidence: 0.9, Box: model.Box{X1: 100, Y1: 80, X2: 140, Y2: 120}},
	}, nil
}

func (d *sceneDetector) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type stampAnnotator struct{}

func (stampAnnotator) DrawObjects(objects []model.ConfirmedObject, img []byte) ([]byte, error) {
	return append([]byte("objects:"), img...), nil
}

func (stampAnnotator) DrawDetections(detections []model.FilteredDetection, img []byte) ([]byte, error) {
	return append([]byte("preview:"), img...), nil
}

func newTestManager(t *testing.T, previewInterval int) (*Manager, *sceneDetector, *sqlite.ReportRepository, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		ImageDirectory:     filepath.Join(dir, "images"),
		BufferSize:         5,
		ConfirmationFrames: 2,
		GroupingDistance:   50,
		NearThreshold:      300,
		PreviewInterval:    previewInterval,
		PreviewWorkers:     1,
	}
	log := logger.NewDiscard()

	db, err := sqlite.New(filepath.Join(dir, "reports.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	repo := sqlite.NewReportRepository(db)

	detector := &sceneDetector{}
	aggregator := analysis.NewAggregator(detector, config.DefaultTables(), cfg, log)
	manager := NewManager(aggregator, stampAnnotator{}, storage.NewSnapshotStore(cfg, log), repo,
		websocket.NewHubService(cfg, log), cfg, log)

	return manager, detector, repo, cfg.ImageDirectory
}

func TestManager_CaptureUnknownCamera(t *testing.T) {
	manager, _, _, _ := newTestManager(t, 0)
	defer manager.Stop()

	_, err := manager.Capture("desk")
	assert.ErrorIs(t, err, ErrUnknownCamera)
}

func TestManager_CaptureBeforeBufferFull(t *testing.T) {
	manager, detector, _, _ := newTestManager(t, 0)
	defer manager.Stop()

	for i := 0; i < 3; i++ {
		manager.HandleCameraImage([]byte{byte(i)}, "desk")
	}

	_, err := manager.Capture("desk")
	assert.ErrorIs(t, err, storage.ErrBufferNotReady)
	assert.Zero(t, detector.Calls())

	statuses := manager.Cameras()
	require.Len(t, statuses, 1)
	assert.Equal(t, CameraStatus{Camera: "desk", Buffered: 3, Capacity: 5, Ready: false}, statuses[0])
}

func TestManager_CapturePublishesReport(t *testing.T) {
	manager, detector, repo, imagesDir := newTestManager(t, 0)
	defer manager.Stop()

	for i := 0; i < 7; i++ {
		manager.HandleCameraImage([]byte{byte(i)}, "desk")
	}

	report, err := manager.Capture("desk")
	require.NoError(t, err)
	assert.Equal(t, 5, detector.Calls())
	assert.Equal(t, 5, report.FramesAnalyzed)
	require.Len(t, report.Findings(), 1)
	assert.Equal(t, model.SpillRisk, report.Findings()[0].Finding.Type)

	require.NotEmpty(t, report.SnapshotFile)
	data, err := os.ReadFile(filepath.Join(imagesDir, report.SnapshotFile))
	require.NoError(t, err)
	assert.Equal(t, append([]byte("objects:"), 6), data, "reference frame is the newest one")

	archived, err := repo.GetByID(report.ID)
	require.NoError(t, err)
	require.NotNil(t, archived)
	assert.Equal(t, report.SnapshotFile, archived.SnapshotFile)
}

func TestManager_PreviewEveryNthFrame(t *testing.T) {
	manager, detector, _, _ := newTestManager(t, 2)

	for i := 0; i < 5; i++ {
		manager.HandleCameraImage([]byte{byte(i)}, "desk")
	}
	manager.Stop()

	assert.Equal(t, 2, detector.Calls())
}
