package model

// ConfirmedObject is a cluster accepted as a real object after temporal confirmation.
type ConfirmedObject struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Box         Box      `json:"box"`
	Center      Point    `json:"center"`
	Confidence  float64  `json:"confidence"`
	FramesSeen  int      `json:"frames_seen"`
	Categories  []string `json:"categories"`
}

// HasCategory reports whether the object carries the given tag.
func (o ConfirmedObject) HasCategory(tag string) bool {
	for _, c := range o.Categories {
		if c == tag {
			return true
		}
	}
	return false
}

// Proximity is the near/far classification of a pair.
type Proximity string

const (
	Near Proximity = "near"
	Far  Proximity = "far"
)

// Horizontal is the left/right ordering of a pair by center x.
type Horizontal string

const (
	LeftOf  Horizontal = "left"
	RightOf Horizontal = "right"
)

// RiskType names a hazard template.
type RiskType string

const (
	SpillRisk   RiskType = "spill_risk"
	DamageRisk  RiskType = "damage_risk"
	FireRisk    RiskType = "fire_risk"
	SharpRisk   RiskType = "sharp_risk"
	DefaultRisk RiskType = "default"
)

// RiskFinding pairs two confirmed objects with a hazard. Source is the
// liquid-carrying object when the rule involves a liquid.
type RiskFinding struct {
	Type   RiskType        `json:"type"`
	Source ConfirmedObject `json:"source"`
	Target ConfirmedObject `json:"target"`
}

// Explanation holds the Observation, Principle, Consequence and Suggestion lines.
type Explanation [4]string

// Observation returns the first line.
func (e Explanation) Observation() string { return e[0] }

// Suggestion returns the last line.
func (e Explanation) Suggestion() string { return e[3] }

// Relation describes one unordered pair of confirmed objects.
type Relation struct {
	A           int          `json:"a"`
	B           int          `json:"b"`
	Distance    float64      `json:"distance"`
	Proximity   Proximity    `json:"proximity"`
	Horizontal  Horizontal   `json:"horizontal"`
	Overlap     bool         `json:"overlap"`
	Finding     *RiskFinding `json:"finding,omitempty"`
	Explanation *Explanation `json:"explanation,omitempty"`
}
