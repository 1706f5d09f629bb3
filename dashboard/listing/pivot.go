package listing

import (
	"math"
	"slices"

	"github.com/anton-kapralov/graduate-pulse/stability"
)

type point struct {
	year  uint16
	label string
	value *float64
}

// pivot turns (year, label, value) rows into a series set with one group per
// label, sorted by label, and a nil value for every year a label is missing.
func pivot(points []point) stability.TimeSeriesSet {
	var (
		years  []int
		labels []string
	)
	for _, p := range points {
		years = append(years, int(p.year))
		labels = append(labels, p.label)
	}
	slices.Sort(years)
	years = slices.Compact(years)
	slices.Sort(labels)
	labels = slices.Compact(labels)

	yearIndex := make(map[int]int, len(years))
	for i, y := range years {
		yearIndex[y] = i
	}
	groupIndex := make(map[string]int, len(labels))
	groups := make([]stability.Group, len(labels))
	for i, l := range labels {
		groupIndex[l] = i
		groups[i] = stability.Group{Label: l, Data: make([]*float64, len(years))}
	}
	for _, p := range points {
		if p.value == nil || math.IsNaN(*p.value) {
			continue
		}
		v := *p.value
		groups[groupIndex[p.label]].Data[yearIndex[int(p.year)]] = &v
	}
	return stability.TimeSeriesSet{Years: years, Groups: groups}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
