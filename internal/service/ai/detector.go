package ai

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
)

// DetectorService runs an SSD network over encoded frames.
type DetectorService struct {
	net           gocv.Net
	netMutex      sync.Mutex
	labels        map[int]string
	minConfidence float64
	modelPath     string
	configPath    string
	logger        *logger.Logger
}

// NewDetectorService creates a detector with model/config paths and a logger.
// It attempts to initialize the underlying DNN network.
func NewDetectorService(config *config.Config, logger *logger.Logger) *DetectorService {
	service := &DetectorService{
		labels:        cocoLabels(),
		minConfidence: config.DetectorMinConfidence,
		modelPath:     config.ModelPath,
		configPath:    config.ConfigPath,
		logger:        logger,
	}

	if config.LabelsPath != "" {
		labels, err := LoadLabels(config.LabelsPath)
		if err != nil {
			logger.Warning("Using built-in COCO labels: %v", err)
		} else {
			service.labels = labels
		}
	}

	if err := service.initializeNet(); err != nil {
		service.logger.Warning("Could not initialize detection network: %v", err)
		return service
	}

	return service
}

// initializeNet loads the DNN network and sets backend/target preferences.
func (s *DetectorService) initializeNet() error {
	if _, err := os.Stat(s.modelPath); os.IsNotExist(err) {
		return fmt.Errorf("model file not found: %s", s.modelPath)
	}

	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file not found: %s", s.configPath)
	}

	net := gocv.ReadNet(s.modelPath, s.configPath)
	if net.Empty() {
		return fmt.Errorf("failed to load network")
	}

	errBackend := net.SetPreferableBackend(gocv.NetBackendDefault)
	errTarget := net.SetPreferableTarget(gocv.NetTargetCPU)
	if errBackend != nil || errTarget != nil {
		return fmt.Errorf("failed to set preferable backend or target")
	}

	s.net = net
	s.logger.Info("Detection network initialized successfully (%d labels)", len(s.labels))
	return nil
}

// Ready reports whether the network was loaded.
func (s *DetectorService) Ready() bool {
	return !s.net.Empty()
}

// Detect runs the DNN on a JPEG frame and returns every detection above the
// detector floor. Per-class thresholds are applied later by the filter.
func (s *DetectorService) Detect(frame []byte) ([]model.RawDetection, error) {
	if s.net.Empty() {
		return nil, fmt.Errorf("detection network not initialized")
	}

	mat, err := gocv.IMDecode(frame, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	if mat.Empty() {
		return nil, fmt.Errorf("decoded image is empty")
	}

	blob := gocv.BlobFromImage(mat, 1.0/127.5, image.Pt(300, 300), gocv.NewScalar(127.5, 127.5, 127.5, 0), true, false)
	defer blob.Close()

	s.netMutex.Lock()
	s.net.SetInput(blob, "")
	output := s.net.Forward("")
	s.netMutex.Unlock()
	defer output.Close()

	// Rows: [ batch_id, class_id, confidence, x1, y1, x2, y2 ], coordinates normalized.
	rows := output.Reshape(1, output.Total()/7)
	defer rows.Close()

	width, height := mat.Cols(), mat.Rows()
	var results []model.RawDetection
	for i := 0; i < rows.Rows(); i++ {
		confidence := float64(rows.GetFloatAt(i, 2))
		if confidence < s.minConfidence {
			continue
		}

		box := model.Box{
			X1: clamp(int(rows.GetFloatAt(i, 3)*float32(width)), 0, width),
			Y1: clamp(int(rows.GetFloatAt(i, 4)*float32(height)), 0, height),
			X2: clamp(int(rows.GetFloatAt(i, 5)*float32(width)), 0, width),
			Y2: clamp(int(rows.GetFloatAt(i, 6)*float32(height)), 0, height),
		}
		if box.Width() <= 0 || box.Height() <= 0 {
			continue
		}

		results = append(results, model.RawDetection{
			Label:      s.ClassLabel(int(rows.GetFloatAt(i, 1))),
			Confidence: confidence,
			Box:        box,
		})
	}

	return results, nil
}

// ClassLabel maps a model class ID to its label.
func (s *DetectorService) ClassLabel(classID int) string {
	if label, exists := s.labels[classID]; exists {
		return label
	}
	return fmt.Sprintf("unknown%d", classID)
}

// DrawObjects draws confirmed objects on the image in green and returns a
// re-encoded JPEG buffer. Labels read "display_name (conf) [Nf]".
func (s *DetectorService) DrawObjects(objects []model.ConfirmedObject, img []byte) ([]byte, error) {
	boxes := make([]labelledBox, 0, len(objects))
	for _, obj := range objects {
		boxes = append(boxes, labelledBox{
			box:   obj.Box,
			label: fmt.Sprintf("%s (%.2f) [%df]", obj.DisplayName, obj.Confidence, obj.FramesSeen),
		})
	}
	return s.draw(boxes, img, color.RGBA{R: 0, G: 255, B: 0, A: 0})
}

// DrawDetections draws unconfirmed preview detections in yellow.
func (s *DetectorService) DrawDetections(detections []model.FilteredDetection, img []byte) ([]byte, error) {
	boxes := make([]labelledBox, 0, len(detections))
	for _, d := range detections {
		boxes = append(boxes, labelledBox{
			box:   d.Box,
			label: fmt.Sprintf("%s (%.2f)", d.Label, d.Confidence),
		})
	}
	return s.draw(boxes, img, color.RGBA{R: 255, G: 255, B: 0, A: 0})
}

var black = color.RGBA{R: 0, G: 0, B: 0, A: 0}

type labelledBox struct {
	box   model.Box
	label string
}

func (s *DetectorService) draw(boxes []labelledBox, img []byte, c color.RGBA) ([]byte, error) {
	mat, err := gocv.IMDecode(img, gocv.IMReadColor)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	defer mat.Close()

	for _, b := range boxes {
		rect := image.Rect(b.box.X1, b.box.Y1, b.box.X2, b.box.Y2)
		if err := gocv.Rectangle(&mat, rect, c, 2); err != nil {
			return nil, fmt.Errorf("failed to draw rectangle: %w", err)
		}

		// Filled label background, black text on top.
		size := gocv.GetTextSize(b.label, gocv.FontHersheySimplex, 0.5, 1)
		top := max(b.box.Y1, 20)
		background := image.Rect(b.box.X1, top-20, b.box.X1+size.X, top)
		if err := gocv.Rectangle(&mat, background, c, -1); err != nil {
			return nil, fmt.Errorf("failed to draw label background: %w", err)
		}
		pt := image.Pt(b.box.X1, top-5)
		if err := gocv.PutText(&mat, b.label, pt, gocv.FontHersheySimplex, 0.5, black, 1); err != nil {
			return nil, fmt.Errorf("failed to draw text: %w", err)
		}
	}

	buf, err := gocv.IMEncode(".jpg", mat)
	if err != nil {
		s.logger.Error("Failed to encode image: %v", err)
		return nil, err
	}
	defer buf.Close()
	finalImage := make([]byte, len(buf.GetBytes()))
	copy(finalImage, buf.GetBytes())

	return finalImage, nil
}

// Close releases the network.
func (s *DetectorService) Close() error {
	s.netMutex.Lock()
	defer s.netMutex.Unlock()
	if s.net.Empty() {
		return nil
	}
	return s.net.Close()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
