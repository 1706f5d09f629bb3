// Package charts implements stability and ROI view sinks backed by go-echarts,
// plus HTML tables and a PNG export of the line view.
package charts

import (
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anton-kapralov/graduate-pulse/stability"
)

// Bar draws labelled values as a single bar series. It owns its chart handle:
// the handle is created once and mutated on every Update.
type Bar struct {
	chart   *echarts.Bar
	series  string
	view    stability.BarView
	updated bool
}

func NewBar(title, series string) *Bar {
	c := echarts.NewBar()
	c.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: defaultWidth, Height: defaultHeight}),
	)
	return &Bar{chart: c, series: series}
}

func (b *Bar) Update(view stability.BarView) {
	labels := make([]string, len(view.Points))
	data := make([]opts.BarData, len(view.Points))
	for i, p := range view.Points {
		labels[i] = p.Label
		data[i] = opts.BarData{Name: p.Label, Value: p.Value}
	}
	b.chart.MultiSeries = nil
	b.chart.SetXAxis(labels).AddSeries(b.series, data)
	b.view = view
	b.updated = true
}

func (b *Bar) Destroy() {
	b.chart.MultiSeries = nil
	b.view = stability.BarView{}
	b.updated = false
}

// View returns the last drawn view.
func (b *Bar) View() stability.BarView {
	return b.view
}

func (b *Bar) Render(w io.Writer) error {
	return b.chart.Render(w)
}
