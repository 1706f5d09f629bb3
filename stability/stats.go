package stability

import (
	"cmp"
	"math"
	"slices"
)

// Stats holds the mean and sample standard deviation of a series.
// Nil means the statistic is undefined for the given values.
type Stats struct {
	Mean *float64
	Std  *float64
}

// ComputeStats returns the arithmetic mean of the valid entries of values and
// their Bessel-corrected standard deviation. Mean is nil without valid entries,
// Std is nil with fewer than two.
func ComputeStats(values []*float64) Stats {
	var (
		n   int
		sum float64
	)
	for _, v := range values {
		if valid(v) {
			n++
			sum += *v
		}
	}
	if n == 0 {
		return Stats{}
	}
	mean := sum / float64(n)
	stats := Stats{Mean: &mean}
	if n < 2 {
		return stats
	}
	var sumSq float64
	for _, v := range values {
		if valid(v) {
			d := *v - mean
			sumSq += d * d
		}
	}
	std := math.Sqrt(sumSq / float64(n-1))
	stats.Std = &std
	return stats
}

// GroupStats is the per-group outcome of RankGroups.
type GroupStats struct {
	Label     string   `json:"label"`
	Mean      *float64 `json:"mean"`
	Std       *float64 `json:"std"`
	Stability *float64 `json:"stability"`
}

// RankGroups computes mean, std and stability (mean/std) for every group.
// stats follows the input order. ranked keeps only groups with a finite
// stability, highest first; equal stabilities keep their input order.
func RankGroups(groups []Group) (stats, ranked []GroupStats) {
	stats = make([]GroupStats, 0, len(groups))
	for _, g := range groups {
		s := ComputeStats(g.Data)
		gs := GroupStats{Label: g.Label, Mean: s.Mean, Std: s.Std}
		if s.Mean != nil && s.Std != nil && *s.Std != 0 {
			gs.Stability = Float(*s.Mean / *s.Std)
		}
		stats = append(stats, gs)
	}

	ranked = make([]GroupStats, 0, len(stats))
	for _, gs := range stats {
		if valid(gs.Stability) {
			ranked = append(ranked, gs)
		}
	}
	slices.SortStableFunc(ranked, func(a, b GroupStats) int {
		return cmp.Compare(*b.Stability, *a.Stability)
	})
	return stats, ranked
}
