package model

import "time"

// Frame is one encoded camera image held by the frame buffer.
type Frame struct {
	Camera    string
	Timestamp time.Time
	Data      []byte
}

// CandidateStatus records the confirmation verdict for one cluster.
type CandidateStatus struct {
	Class      string `json:"class"`
	FramesSeen int    `json:"frames_seen"`
	Confirmed  bool   `json:"confirmed"`
}

// Report is the result of one aggregation pass.
type Report struct {
	ID             string            `json:"id"`
	Camera         string            `json:"camera"`
	CapturedAt     time.Time         `json:"captured_at"`
	FramesAnalyzed int               `json:"frames_analyzed"`
	FramesFailed   int               `json:"frames_failed"`
	Candidates     []CandidateStatus `json:"candidates"`
	Discarded      int               `json:"discarded"`
	Objects        []ConfirmedObject `json:"objects"`
	Relations      []Relation        `json:"relations"`
	SnapshotFile   string            `json:"snapshot_file,omitempty"`
}

// Findings returns the relations that produced a risk finding, in pair order.
func (r *Report) Findings() []Relation {
	var out []Relation
	for _, rel := range r.Relations {
		if rel.Finding != nil {
			out = append(out, rel)
		}
	}
	return out
}
