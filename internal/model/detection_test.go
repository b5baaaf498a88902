package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBox_Center(t *testing.T) {
	assert.Equal(t, Point{X: 5, Y: 5}, Box{X1: 0, Y1: 0, X2: 10, Y2: 10}.Center())
	assert.Equal(t, Point{X: 5, Y: 7}, Box{X1: 0, Y1: 4, X2: 11, Y2: 11}.Center(), "midpoint is truncated")
}

func TestPoint_Distance(t *testing.T) {
	assert.InDelta(t, 5.0, Point{X: 0, Y: 0}.Distance(Point{X: 3, Y: 4}), 1e-9)
	assert.InDelta(t, 20.0, Point{X: 100, Y: 100}.Distance(Point{X: 120, Y: 100}), 1e-9)
	assert.Zero(t, Point{X: 7, Y: 7}.Distance(Point{X: 7, Y: 7}))
}

func TestConfirmedObject_HasCategory(t *testing.T) {
	obj := ConfirmedObject{Categories: []string{"electronics", "flammable"}}
	assert.True(t, obj.HasCategory("flammable"))
	assert.False(t, obj.HasCategory("liquid"))
	assert.False(t, ConfirmedObject{}.HasCategory("liquid"))
}

func TestReport_Findings(t *testing.T) {
	finding := &RiskFinding{Type: SpillRisk}
	r := Report{Relations: []Relation{{A: 0, B: 1}, {A: 0, B: 2, Finding: finding}, {A: 1, B: 2}}}

	found := r.Findings()
	if assert.Len(t, found, 1) {
		assert.Equal(t, 2, found[0].B)
	}
}
