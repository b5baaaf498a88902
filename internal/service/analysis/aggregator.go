package analysis

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"sceneguard/internal/config"
	"sceneguard/internal/logger"
	"sceneguard/internal/model"
	"sceneguard/internal/perception"
	"sceneguard/internal/reasoning"
)

// ErrNoFrames is returned when Analyze is called with an empty burst.
var ErrNoFrames = errors.New("no frames to analyze")

// Aggregator runs one multi-frame pass: detect, filter, cluster, confirm,
// select, relate, evaluate and explain.
type Aggregator struct {
	detector  perception.Detector
	filter    *perception.Filter
	clusterer *perception.Clusterer
	confirmer *perception.Confirmer
	selector  *perception.Selector
	spatial   *reasoning.SpatialEngine
	rules     *reasoning.RuleEngine
	renderer  *reasoning.Renderer
	logger    *logger.Logger
}

// NewAggregator wires the pipeline stages from the reference tables and the
// grouping, confirmation and proximity settings of config.
func NewAggregator(detector perception.Detector, tables config.Tables, config *config.Config, logger *logger.Logger) *Aggregator {
	return &Aggregator{
		detector:  detector,
		filter:    perception.NewFilter(tables),
		clusterer: perception.NewClusterer(config.GroupingDistance),
		confirmer: perception.NewConfirmer(config.ConfirmationFrames),
		selector:  perception.NewSelector(tables),
		spatial:   reasoning.NewSpatialEngine(config.NearThreshold),
		rules:     reasoning.NewRuleEngine(),
		renderer:  reasoning.NewRenderer(tables),
		logger:    logger,
	}
}

// Analyze aggregates a burst of frames ordered oldest to newest. The last
// frame is the reference frame. A frame the detector fails on contributes no
// detections and is counted in FramesFailed.
func (a *Aggregator) Analyze(camera string, frames []model.Frame) (*model.Report, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	referenceFrame := len(frames) - 1

	report := &model.Report{
		ID:             uuid.NewString(),
		Camera:         camera,
		CapturedAt:     frames[referenceFrame].Timestamp,
		FramesAnalyzed: len(frames),
	}
	if report.CapturedAt.IsZero() {
		report.CapturedAt = time.Now()
	}

	var detections []model.FilteredDetection
	var detectErr error
	for i, frame := range frames {
		raw, err := a.detector.Detect(frame.Data)
		if err != nil {
			detectErr = multierr.Append(detectErr, fmt.Errorf("frame %d: %w", i, err))
			report.FramesFailed++
			continue
		}
		detections = append(detections, a.filter.Apply(raw, i)...)
	}
	if detectErr != nil {
		a.logger.Warning("Camera %s: detector failed on %d/%d frames: %v", camera, report.FramesFailed, len(frames), detectErr)
	}

	clusters := a.clusterer.Cluster(detections)
	for _, cluster := range clusters {
		report.Candidates = append(report.Candidates, model.CandidateStatus{
			Class:      cluster.Class,
			FramesSeen: perception.DistinctFrames(cluster),
			Confirmed:  a.confirmer.IsConfirmed(cluster),
		})
	}

	confirmed, discarded := a.confirmer.Confirm(clusters)
	report.Discarded = discarded

	report.Objects = make([]model.ConfirmedObject, 0, len(confirmed))
	for _, cluster := range confirmed {
		report.Objects = append(report.Objects, a.selector.Promote(cluster, referenceFrame))
	}

	report.Relations = a.reason(report.Objects)

	a.logger.Info("Camera %s: %d detections, %d candidates, %d confirmed, %d findings",
		camera, len(detections), len(clusters), len(report.Objects), len(report.Findings()))
	return report, nil
}

// reason relates every pair of objects and attaches the finding and its
// explanation to near pairs matching a rule.
func (a *Aggregator) reason(objects []model.ConfirmedObject) []model.Relation {
	relations := a.spatial.RelateAll(objects)
	for i := range relations {
		rel := &relations[i]
		findings := a.rules.Evaluate(objects[rel.A], objects[rel.B], rel.Proximity)
		if len(findings) == 0 {
			continue
		}
		finding := findings[0]
		explanation := a.renderer.Explain(finding)
		rel.Finding = &finding
		rel.Explanation = &explanation
	}
	return relations
}

// Preview runs detection and filtering on a single frame. Nothing is
// clustered or confirmed.
func (a *Aggregator) Preview(frame []byte) ([]model.FilteredDetection, error) {
	raw, err := a.detector.Detect(frame)
	if err != nil {
		return nil, err
	}
	return a.filter.Apply(raw, 0), nil
}
