package perception

import (
	"sceneguard/internal/config"
	"sceneguard/internal/model"
)

// Selector picks the detection that represents a confirmed cluster.
type Selector struct {
	tables config.Tables
}

// NewSelector creates a Selector using the display-name and category tables.
func NewSelector(tables config.Tables) *Selector {
	return &Selector{tables: tables}
}

// Select prefers the member from the reference (most recent) frame and
// otherwise falls back to the first member with the highest confidence.
func (s *Selector) Select(cluster model.Cluster, referenceFrame int) model.FilteredDetection {
	for _, m := range cluster.Members {
		if m.FrameIndex == referenceFrame {
			return m
		}
	}

	best := cluster.Members[0]
	for _, m := range cluster.Members[1:] {
		if m.Confidence > best.Confidence {
			best = m
		}
	}
	return best
}

// Promote builds the ConfirmedObject for a cluster. Name keeps the raw class
// label; DisplayName is for presentation only.
func (s *Selector) Promote(cluster model.Cluster, referenceFrame int) model.ConfirmedObject {
	rep := s.Select(cluster, referenceFrame)
	return model.ConfirmedObject{
		Name:        rep.Label,
		DisplayName: s.tables.DisplayName(rep.Label),
		Box:         rep.Box,
		Center:      rep.Center,
		Confidence:  rep.Confidence,
		FramesSeen:  DistinctFrames(cluster),
		Categories:  s.tables.Categories(rep.Label),
	}
}
