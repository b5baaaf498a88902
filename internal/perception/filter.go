package perception

import (
	"sceneguard/internal/config"
	"sceneguard/internal/model"
)

// Detector produces raw detections for one encoded frame.
type Detector interface {
	Detect(frame []byte) ([]model.RawDetection, error)
}

// Filter applies per-class confidence thresholds.
type Filter struct {
	tables config.Tables
}

// NewFilter creates a Filter over the given threshold table.
func NewFilter(tables config.Tables) *Filter {
	return &Filter{tables: tables}
}

// Apply keeps detections whose confidence reaches their class threshold,
// stamps them with frameIndex and computes their centers.
func (f *Filter) Apply(raw []model.RawDetection, frameIndex int) []model.FilteredDetection {
	out := make([]model.FilteredDetection, 0, len(raw))
	for _, d := range raw {
		if d.Confidence < f.tables.Threshold(d.Label) {
			continue
		}
		d.FrameIndex = frameIndex
		out = append(out, model.FilteredDetection{
			RawDetection: d,
			Center:       d.Box.Center(),
		})
	}
	return out
}
