package charts

import (
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anton-kapralov/graduate-pulse/stability"
)

// Scatter plots every group by mean (x) against standard deviation (y).
type Scatter struct {
	chart   *echarts.Scatter
	view    stability.ScatterView
	updated bool
}

func NewScatter(title string) *Scatter {
	c := echarts.NewScatter()
	c.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: defaultWidth, Height: defaultHeight}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "mean", Type: "value"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "std", Type: "value"}),
	)
	return &Scatter{chart: c}
}

func (s *Scatter) Update(view stability.ScatterView) {
	data := make([]opts.ScatterData, len(view.Points))
	for i, p := range view.Points {
		data[i] = opts.ScatterData{Name: p.Label, Value: []float64{p.Mean, p.Std}}
	}
	s.chart.MultiSeries = nil
	s.chart.AddSeries("groups", data)
	s.view = view
	s.updated = true
}

func (s *Scatter) Destroy() {
	s.chart.MultiSeries = nil
	s.view = stability.ScatterView{}
	s.updated = false
}

func (s *Scatter) View() stability.ScatterView {
	return s.view
}

func (s *Scatter) Render(w io.Writer) error {
	return s.chart.Render(w)
}
