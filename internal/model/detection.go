package model

import "gonum.org/v1/gonum/floats"

// Point is a pixel coordinate.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Distance is the Euclidean distance to another point.
func (p Point) Distance(other Point) float64 {
	return floats.Distance(
		[]float64{float64(p.X), float64(p.Y)},
		[]float64{float64(other.X), float64(other.Y)},
		2,
	)
}

// Box is an axis-aligned bounding box in pixels, x1<x2 and y1<y2.
type Box struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Center returns the integer midpoint of the box.
func (b Box) Center() Point {
	return Point{X: (b.X1 + b.X2) / 2, Y: (b.Y1 + b.Y2) / 2}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() int {
	return b.X2 - b.X1
}

// Height returns the vertical extent of the box.
func (b Box) Height() int {
	return b.Y2 - b.Y1
}

// RawDetection is a single detector output for one frame.
type RawDetection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Box        Box     `json:"box"`
	FrameIndex int     `json:"frame_index"`
}

// FilteredDetection is a RawDetection that passed its class threshold.
type FilteredDetection struct {
	RawDetection
	Center Point `json:"center"`
}

// Cluster groups detections of one class around the first member's center.
type Cluster struct {
	Class   string
	Members []FilteredDetection
}

// Anchor returns the first-inserted member, used for all distance checks.
func (c *Cluster) Anchor() FilteredDetection {
	return c.Members[0]
}
