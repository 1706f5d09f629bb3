package stability

import (
	"errors"
	"fmt"
)

// ErrMissingSink is returned when a Recomputer is built without one of its
// required sinks.
var ErrMissingSink = errors.New("bar, scatter and line sinks are required")

// State is either unfiltered (full year span) or filtered to [From, To].
type State struct {
	Filtered bool `json:"filtered"`
	From     int  `json:"from,omitempty"`
	To       int  `json:"to,omitempty"`
}

func (s State) String() string {
	if !s.Filtered {
		return "unfiltered"
	}
	return fmt.Sprintf("filtered(%d,%d)", s.From, s.To)
}

// Recomputer owns a TimeSeriesSet and its sinks. Every accepted range change
// recomputes the group statistics and republishes all views.
type Recomputer struct {
	set    TimeSeriesSet
	sinks  Sinks
	state  State
	closed bool
}

// NewRecomputer validates set, takes ownership of sinks and publishes the
// unfiltered views.
func NewRecomputer(set TimeSeriesSet, sinks Sinks) (*Recomputer, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}
	if sinks.Bar == nil || sinks.Scatter == nil || sinks.Line == nil {
		return nil, ErrMissingSink
	}
	r := &Recomputer{set: set, sinks: sinks}
	r.ResetRange()
	return r, nil
}

// ApplyRange narrows the views to [fromYear, toYear]. An invalid selection
// leaves state and sinks untouched and returns false.
func (r *Recomputer) ApplyRange(fromYear, toYear int) bool {
	if r.closed {
		return false
	}
	rng, ok := SliceByYearRange(r.set.Years, fromYear, toYear)
	if !ok {
		return false
	}
	r.publish(r.set.Slice(rng))
	r.state = State{Filtered: true, From: fromYear, To: toYear}
	return true
}

// ResetRange republishes the views over the full year span.
func (r *Recomputer) ResetRange() {
	years := r.set.Years
	if r.ApplyRange(years[0], years[len(years)-1]) {
		r.state = State{}
	}
}

// State returns the current filter state.
func (r *Recomputer) State() State {
	return r.state
}

// Years returns the full year axis.
func (r *Recomputer) Years() []int {
	return r.set.Years
}

// Close destroys every sink. Further range changes are ignored.
func (r *Recomputer) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.sinks.Bar.Destroy()
	r.sinks.Scatter.Destroy()
	r.sinks.Line.Destroy()
	if r.sinks.Table != nil {
		r.sinks.Table.Destroy()
	}
}

func (r *Recomputer) publish(sliced TimeSeriesSet) {
	stats, ranked := RankGroups(sliced.Groups)
	r.sinks.Bar.Update(newBarView(ranked))
	r.sinks.Scatter.Update(newScatterView(stats))
	r.sinks.Line.Update(LineView{Years: sliced.Years, Lines: sliced.Groups})
	if r.sinks.Table != nil {
		r.sinks.Table.Update(TableView{Rows: stats})
	}
}
