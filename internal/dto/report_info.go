package dto

import (
	"encoding/json"
	"time"
)

// ReportInfo summarizes one archived report for listing.
type ReportInfo struct {
	ID        string    `json:"id"`
	Camera    string    `json:"camera"`
	Date      time.Time `json:"date"`
	TimeOfDay time.Time `json:"timeOfDay"`
	Objects   []string  `json:"objects"`
	Risks     []string  `json:"risks"`
	Snapshot  string    `json:"snapshot,omitempty"`
}

// MarshalJSON customizes JSON output for ReportInfo to format date and time-of-day.
func (p ReportInfo) MarshalJSON() ([]byte, error) {
	type Alias ReportInfo
	return json.Marshal(&struct {
		Date      string `json:"date"`
		TimeOfDay string `json:"timeOfDay"`
		Alias
	}{
		Date:      p.Date.Format("02-01-2006"),
		TimeOfDay: p.TimeOfDay.Format("15:04:05"),
		Alias:     (Alias)(p),
	})
}
