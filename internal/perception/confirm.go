package perception

import "sceneguard/internal/model"

// Confirmer accepts clusters seen in enough distinct frames.
type Confirmer struct {
	minFrames int
}

// NewConfirmer creates a Confirmer requiring minFrames distinct frames.
func NewConfirmer(minFrames int) *Confirmer {
	return &Confirmer{minFrames: minFrames}
}

// DistinctFrames counts the unique frame indices among a cluster's members.
func DistinctFrames(cluster model.Cluster) int {
	seen := make(map[int]struct{}, len(cluster.Members))
	for _, m := range cluster.Members {
		seen[m.FrameIndex] = struct{}{}
	}
	return len(seen)
}

// IsConfirmed reports whether a cluster crosses the confirmation threshold.
func (c *Confirmer) IsConfirmed(cluster model.Cluster) bool {
	return DistinctFrames(cluster) >= c.minFrames
}

// Confirm splits clusters into confirmed ones (order preserved) and a discarded count.
func (c *Confirmer) Confirm(clusters []model.Cluster) ([]model.Cluster, int) {
	confirmed := make([]model.Cluster, 0, len(clusters))
	discarded := 0
	for _, cluster := range clusters {
		if c.IsConfirmed(cluster) {
			confirmed = append(confirmed, cluster)
		} else {
			discarded++
		}
	}
	return confirmed, discarded
}
