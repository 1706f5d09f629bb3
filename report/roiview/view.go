// Package roiview renders ROI results for a year range into a table and a bar
// chart. Responses that arrive after a newer one has been rendered are dropped.
package roiview

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

// ErrStale is returned by Apply when a later request was rendered first.
var ErrStale = errors.New("stale ROI response")

type Fetcher interface {
	ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error)
}

type View struct {
	fetcher Fetcher
	table   stability.Sink[[]survey.ROIRow]
	bar     stability.Sink[stability.BarView]

	issued atomic.Uint64

	mu       sync.Mutex
	rendered uint64
}

func New(fetcher Fetcher, table stability.Sink[[]survey.ROIRow], bar stability.Sink[stability.BarView]) *View {
	return &View{fetcher: fetcher, table: table, bar: bar}
}

// Apply fetches ROI rows for [startYear, endYear] and renders them. On failure
// the previous rendering is left untouched.
func (v *View) Apply(ctx context.Context, startYear, endYear int) error {
	ticket := v.issued.Add(1)
	rows, err := v.fetcher.ROI(ctx, startYear, endYear)
	if err != nil {
		log.Printf("Failed to load ROI for %d-%d: %s", startYear, endYear, err)
		return fmt.Errorf("failed to load ROI: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if ticket <= v.rendered {
		log.Printf("Dropping ROI for %d-%d, a newer selection is on screen", startYear, endYear)
		return ErrStale
	}
	v.rendered = ticket
	v.table.Update(rows)
	v.bar.Update(barView(rows))
	return nil
}

func barView(rows []survey.ROIRow) stability.BarView {
	points := make([]stability.BarPoint, len(rows))
	for i, r := range rows {
		points[i] = stability.BarPoint{Label: r.University, Value: r.ROIScore}
	}
	return stability.BarView{Points: points}
}
