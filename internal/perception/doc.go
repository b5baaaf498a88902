// Package perception turns a burst of per-frame detector output into
// confirmed objects.
//
// Stages, in order: Filter (class-aware confidence thresholds), Clusterer
// (anchor-based grouping across frames), Confirmer (distinct-frame
// counting) and Selector (one representative detection per cluster).
// Every stage is a pure function of its inputs and the reference tables
// it was constructed with.
package perception
