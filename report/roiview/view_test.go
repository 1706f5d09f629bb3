package roiview

import (
	"context"
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type gatedFetcher struct {
	started map[int]chan struct{}
	release map[int]chan struct{}
	err     error
}

func (f *gatedFetcher) ROI(_ context.Context, startYear, endYear int) ([]survey.ROIRow, error) {
	if ch, ok := f.started[startYear]; ok {
		close(ch)
	}
	if ch, ok := f.release[startYear]; ok {
		<-ch
	}
	if f.err != nil {
		return nil, f.err
	}
	return []survey.ROIRow{{University: "NUS", ROIScore: float64(startYear*10000 + endYear)}}, nil
}

func newView(f Fetcher) (*View, *stability.Latest[[]survey.ROIRow], *stability.Latest[stability.BarView]) {
	var (
		table stability.Latest[[]survey.ROIRow]
		bar   stability.Latest[stability.BarView]
	)
	return New(f, &table, &bar), &table, &bar
}

func TestView_Apply(t *testing.T) {
	v, table, bar := newView(&gatedFetcher{})

	assert.Nil(t, v.Apply(context.Background(), 2019, 2021))
	rows, ok := table.View()
	assert.True(t, ok)
	assert.Equal(t, 1, len(rows))
	view, _ := bar.View()
	assert.Equal(t, []stability.BarPoint{{Label: "NUS", Value: 20192021}}, view.Points)
}

func TestView_FailureKeepsPreviousRendering(t *testing.T) {
	f := &gatedFetcher{}
	v, table, _ := newView(f)
	assert.Nil(t, v.Apply(context.Background(), 2019, 2021))

	f.err = errors.New("connection reset")
	err := v.Apply(context.Background(), 2020, 2021)
	assert.True(t, errors.Is(err, f.err))
	assert.Equal(t, 1, table.Updates())
	rows, _ := table.View()
	assert.Equal(t, 20192021.0, rows[0].ROIScore)
}

func TestView_DropsStaleResponse(t *testing.T) {
	f := &gatedFetcher{
		started: map[int]chan struct{}{2019: make(chan struct{})},
		release: map[int]chan struct{}{2019: make(chan struct{})},
	}
	v, table, _ := newView(f)

	slow := make(chan error, 1)
	go func() { slow <- v.Apply(context.Background(), 2019, 2020) }()
	<-f.started[2019]

	assert.Nil(t, v.Apply(context.Background(), 2021, 2022))
	close(f.release[2019])
	assert.Equal(t, ErrStale, <-slow)

	rows, _ := table.View()
	assert.Equal(t, 20212022.0, rows[0].ROIScore)
	assert.Equal(t, 1, table.Updates())
}
