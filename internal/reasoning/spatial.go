package reasoning

import "sceneguard/internal/model"

const (
	// NearThresholdStatic suits full-resolution still images.
	NearThresholdStatic = 400.0
	// NearThresholdLive suits low-resolution live video.
	NearThresholdLive = 300.0
)

// SpatialEngine computes pairwise relations between confirmed objects.
type SpatialEngine struct {
	nearThreshold float64
}

// NewSpatialEngine creates a SpatialEngine with the near/far cut-off in pixels.
func NewSpatialEngine(nearThreshold float64) *SpatialEngine {
	return &SpatialEngine{nearThreshold: nearThreshold}
}

// Proximity classifies a center distance.
func (e *SpatialEngine) Proximity(distance float64) model.Proximity {
	if distance < e.nearThreshold {
		return model.Near
	}
	return model.Far
}

// HorizontalOrder places a relative to b by center x. Ties resolve to right.
func HorizontalOrder(a, b model.Point) model.Horizontal {
	if a.X < b.X {
		return model.LeftOf
	}
	return model.RightOf
}

// Overlaps applies the separating-axis test to two boxes.
func Overlaps(a, b model.Box) bool {
	noOverlap := a.X2 < b.X1 ||
		a.X1 > b.X2 ||
		a.Y2 < b.Y1 ||
		a.Y1 > b.Y2
	return !noOverlap
}

// Relate computes distance, proximity, horizontal order and overlap for objects i and j.
func (e *SpatialEngine) Relate(objects []model.ConfirmedObject, i, j int) model.Relation {
	a, b := objects[i], objects[j]
	distance := a.Center.Distance(b.Center)
	return model.Relation{
		A:          i,
		B:          j,
		Distance:   distance,
		Proximity:  e.Proximity(distance),
		Horizontal: HorizontalOrder(a.Center, b.Center),
		Overlap:    Overlaps(a.Box, b.Box),
	}
}

// RelateAll returns relations for every unordered pair i<j in object order.
func (e *SpatialEngine) RelateAll(objects []model.ConfirmedObject) []model.Relation {
	var relations []model.Relation
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			relations = append(relations, e.Relate(objects, i, j))
		}
	}
	return relations
}
