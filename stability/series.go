// Package stability ranks named yearly series by how consistent they are over
// a selected year range and publishes the derived chart views to injected sinks.
package stability

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrDataNotFound is returned when a series set carries no years or no groups.
	ErrDataNotFound = errors.New("data not found")
	// ErrInvalidSeries is returned when a series set breaks its shape invariants.
	ErrInvalidSeries = errors.New("invalid series")
)

// Group is a named series aligned positionally with TimeSeriesSet.Years.
// A nil entry is a missing value.
type Group struct {
	Label string     `json:"label"`
	Data  []*float64 `json:"data"`
}

// TimeSeriesSet is loaded once and never mutated afterwards.
type TimeSeriesSet struct {
	Years  []int   `json:"years"`
	Groups []Group `json:"groups"`
}

// Validate checks that years are strictly ascending and every group has one
// value per year.
func (s TimeSeriesSet) Validate() error {
	if len(s.Years) == 0 || len(s.Groups) == 0 {
		return ErrDataNotFound
	}
	for i := 1; i < len(s.Years); i++ {
		if s.Years[i] <= s.Years[i-1] {
			return fmt.Errorf("%w: year %d follows %d", ErrInvalidSeries, s.Years[i], s.Years[i-1])
		}
	}
	for _, g := range s.Groups {
		if len(g.Data) != len(s.Years) {
			return fmt.Errorf("%w: group %q has %d values for %d years",
				ErrInvalidSeries, g.Label, len(g.Data), len(s.Years))
		}
	}
	return nil
}

// Range is an inclusive pair of positions into TimeSeriesSet.Years.
type Range struct {
	From int
	To   int
}

// Len returns the number of years covered by the range.
func (r Range) Len() int {
	return r.To - r.From + 1
}

// SliceByYearRange locates fromYear and toYear in years. Both must be present
// and fromYear must not come after toYear; there is no nearest-match fallback.
func SliceByYearRange(years []int, fromYear, toYear int) (Range, bool) {
	from := slices.Index(years, fromYear)
	to := slices.Index(years, toYear)
	if from < 0 || to < 0 || from > to {
		return Range{}, false
	}
	return Range{From: from, To: to}, true
}

// Slice returns a copy of the set restricted to r. Invalid values (NaN, ±Inf)
// become nil so that downstream views see them as gaps.
func (s TimeSeriesSet) Slice(r Range) TimeSeriesSet {
	out := TimeSeriesSet{
		Years:  slices.Clone(s.Years[r.From : r.To+1]),
		Groups: make([]Group, len(s.Groups)),
	}
	for i, g := range s.Groups {
		data := make([]*float64, 0, r.Len())
		for _, v := range g.Data[r.From : r.To+1] {
			if valid(v) {
				data = append(data, Float(*v))
			} else {
				data = append(data, nil)
			}
		}
		out.Groups[i] = Group{Label: g.Label, Data: data}
	}
	return out
}

// Float returns a pointer to a copy of v.
func Float(v float64) *float64 {
	return &v
}

func valid(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}
