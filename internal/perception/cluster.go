package perception

import "sceneguard/internal/model"

// Clusterer groups filtered detections from all buffered frames by class and
// proximity to each cluster's first member.
//
// Assignment is greedy and first-match-wins: a detection joins the earliest
// created cluster whose anchor matches, even when a later cluster's anchor is
// closer. Results therefore depend on input order.
type Clusterer struct {
	groupingDistance float64
}

// NewClusterer creates a Clusterer with the anchor distance limit in pixels.
func NewClusterer(groupingDistance float64) *Clusterer {
	return &Clusterer{groupingDistance: groupingDistance}
}

// Cluster assigns detections in the order given (frame index, then detector order).
func (c *Clusterer) Cluster(detections []model.FilteredDetection) []model.Cluster {
	var clusters []model.Cluster

	for _, det := range detections {
		matched := false
		for i := range clusters {
			anchor := clusters[i].Anchor()
			if anchor.Label != det.Label {
				continue
			}
			if anchor.Center.Distance(det.Center) < c.groupingDistance {
				clusters[i].Members = append(clusters[i].Members, det)
				matched = true
				break
			}
		}

		if !matched {
			clusters = append(clusters, model.Cluster{
				Class:   det.Label,
				Members: []model.FilteredDetection{det},
			})
		}
	}

	return clusters
}
