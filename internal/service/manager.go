package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
	"sceneguard/internal/repository"
	"sceneguard/internal/service/analysis"
	"sceneguard/internal/service/storage"
	"sceneguard/internal/service/websocket"
)

// ErrUnknownCamera is returned for a camera that has never sent a frame.
var ErrUnknownCamera = errors.New("unknown camera")

// Annotator draws boxes on encoded frames.
type Annotator interface {
	DrawObjects(objects []model.ConfirmedObject, img []byte) ([]byte, error)
	DrawDetections(detections []model.FilteredDetection, img []byte) ([]byte, error)
}

// CameraState holds the frame buffer and counters of one camera.
type CameraState struct {
	buffer     *storage.FrameBuffer
	frameCount int
	captureMu  sync.Mutex
}

// CameraStatus is the buffer fill level of one camera.
type CameraStatus struct {
	Camera   string `json:"camera"`
	Buffered int    `json:"buffered"`
	Capacity int    `json:"capacity"`
	Ready    bool   `json:"ready"`
}

type previewTask struct {
	Image  []byte
	Camera string
}

// Manager routes camera frames into per-camera buffers, runs live previews on
// a worker pool and performs capture passes on request.
type Manager struct {
	aggregator       *analysis.Aggregator
	annotator        Annotator
	snapshots        *storage.SnapshotStore
	reports          repository.ReportRepository
	websocketService *websocket.HubService
	logger           *logger.Logger

	cameraStates map[string]*CameraState
	statesMutex  sync.RWMutex
	bufferSize   int

	previewQueue    chan previewTask
	processEveryNth int
	numWorkers      int
	wg              sync.WaitGroup
}

// NewManager starts the preview workers. annotator and reports may be nil.
func NewManager(aggregator *analysis.Aggregator, annotator Annotator, snapshots *storage.SnapshotStore,
	reports repository.ReportRepository, websocketService *websocket.HubService, config *config.Config, logger *logger.Logger) *Manager {
	manager := &Manager{
		aggregator:       aggregator,
		annotator:        annotator,
		snapshots:        snapshots,
		reports:          reports,
		websocketService: websocketService,
		logger:           logger,
		cameraStates:     make(map[string]*CameraState),
		bufferSize:       config.BufferSize,
		previewQueue:     make(chan previewTask, 16),
		processEveryNth:  config.PreviewInterval,
		numWorkers:       config.PreviewWorkers,
	}

	if manager.processEveryNth > 0 {
		for i := 0; i < manager.numWorkers; i++ {
			manager.wg.Add(1)
			go manager.previewWorker(i)
		}
	}

	manager.logger.Info("🎬 Manager started - buffering %d frames, preview every %d frame(s)", manager.bufferSize, manager.processEveryNth)
	return manager
}

// HandleCameraImage buffers a frame, forwards it to viewers and queues a
// preview every processEveryNth frames.
func (m *Manager) HandleCameraImage(image []byte, camera string) {
	state := m.getCameraState(camera)
	state.buffer.Push(model.Frame{Camera: camera, Timestamp: time.Now(), Data: image})

	m.websocketService.Send(websocket.Message{Type: websocket.TypeFrame, Camera: camera, Image: image})

	if m.processEveryNth <= 0 || m.numWorkers <= 0 {
		return
	}

	m.statesMutex.Lock()
	state.frameCount++
	due := state.frameCount%m.processEveryNth == 0
	if due {
		state.frameCount = 0
	}
	m.statesMutex.Unlock()

	if !due {
		return
	}

	select {
	case m.previewQueue <- previewTask{Image: image, Camera: camera}:
	default:
		m.logger.Warning("⚠️  Preview queue full for camera %s - skipping", camera)
	}
}

// previewWorker runs single-frame detection for live previews.
func (m *Manager) previewWorker(workerID int) {
	defer m.wg.Done()

	m.logger.Info("🔧 Preview worker %d started", workerID)
	for task := range m.previewQueue {
		m.preview(task.Image, task.Camera)
	}
	m.logger.Info("🔧 Preview worker %d stopped", workerID)
}

func (m *Manager) preview(image []byte, camera string) {
	detections, err := m.aggregator.Preview(image)
	if err != nil {
		m.logger.Warning("Preview detection failed for camera %s: %v", camera, err)
		return
	}

	msg := websocket.Message{Type: websocket.TypePreview, Camera: camera, Detections: detections}
	if m.annotator != nil && len(detections) > 0 {
		annotated, err := m.annotator.DrawDetections(detections, image)
		if err != nil {
			m.logger.Error("Failed to draw preview boxes: %v", err)
		} else {
			msg.Image = annotated
		}
	}
	m.websocketService.Send(msg)
}

// Capture freezes the camera's buffer, aggregates the burst and publishes
// the report: annotated snapshot on disk, archive row and viewer broadcast.
func (m *Manager) Capture(camera string) (*model.Report, error) {
	m.statesMutex.RLock()
	state, exists := m.cameraStates[camera]
	m.statesMutex.RUnlock()
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCamera, camera)
	}

	state.captureMu.Lock()
	defer state.captureMu.Unlock()

	state.buffer.Freeze()
	frames, err := state.buffer.Snapshot()
	state.buffer.Thaw()
	if err != nil {
		return nil, err
	}

	m.logger.Info("Capturing burst of %d frames for camera %s", len(frames), camera)
	report, err := m.aggregator.Analyze(camera, frames)
	if err != nil {
		return nil, err
	}

	m.saveSnapshot(report, frames[len(frames)-1].Data)

	if m.reports != nil {
		if err := m.reports.Insert(report); err != nil {
			m.logger.Error("Failed to archive report %s: %v", report.ID, err)
		}
	}

	m.websocketService.Send(websocket.Message{Type: websocket.TypeReport, Camera: camera, Report: report})
	return report, nil
}

func (m *Manager) saveSnapshot(report *model.Report, reference []byte) {
	if m.snapshots == nil {
		return
	}

	image := reference
	if m.annotator != nil {
		annotated, err := m.annotator.DrawObjects(report.Objects, reference)
		if err != nil {
			m.logger.Error("Failed to draw objects: %v", err)
		} else {
			image = annotated
		}
	}

	filename, err := m.snapshots.Save(report, image)
	if err != nil {
		m.logger.Error("Failed to save snapshot: %v", err)
		return
	}
	report.SnapshotFile = filename
}

// Cameras returns the buffer status of every known camera, sorted by name.
func (m *Manager) Cameras() []CameraStatus {
	m.statesMutex.RLock()
	defer m.statesMutex.RUnlock()

	statuses := make([]CameraStatus, 0, len(m.cameraStates))
	for camera, state := range m.cameraStates {
		statuses = append(statuses, CameraStatus{
			Camera:   camera,
			Buffered: state.buffer.Len(),
			Capacity: state.buffer.Capacity(),
			Ready:    state.buffer.IsFull(),
		})
	}
	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Camera < statuses[j].Camera })
	return statuses
}

func (m *Manager) GetWebsocketService() *websocket.HubService {
	return m.websocketService
}

func (m *Manager) GetReportRepository() repository.ReportRepository {
	return m.reports
}

func (m *Manager) GetSnapshotStore() *storage.SnapshotStore {
	return m.snapshots
}

// Stop drains the preview queue and waits for the workers.
func (m *Manager) Stop() {
	close(m.previewQueue)
	m.wg.Wait()
	m.logger.Info("🛑 All preview workers stopped")
}

// getCameraState returns the per-camera state, creating it when absent.
func (m *Manager) getCameraState(camera string) *CameraState {
	m.statesMutex.RLock()
	state, exists := m.cameraStates[camera]
	m.statesMutex.RUnlock()

	if exists {
		return state
	}

	m.statesMutex.Lock()
	defer m.statesMutex.Unlock()
	if state, exists := m.cameraStates[camera]; exists {
		return state
	}

	state = &CameraState{buffer: storage.NewFrameBuffer(m.bufferSize)}
	m.cameraStates[camera] = state
	m.logger.Info("Created frame buffer for camera: %s", camera)

	return state
}
