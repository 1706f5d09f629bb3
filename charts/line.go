package charts

import (
	"io"
	"strconv"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anton-kapralov/graduate-pulse/stability"
)

// echarts treats "-" as an empty point and breaks the line there.
const gap = "-"

// Line draws one line per group over the year axis.
type Line struct {
	chart   *echarts.Line
	view    stability.LineView
	updated bool
}

func NewLine(title string) *Line {
	c := echarts.NewLine()
	c.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: defaultWidth, Height: defaultHeight}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "year"}),
	)
	return &Line{chart: c}
}

func (l *Line) Update(view stability.LineView) {
	years := make([]string, len(view.Years))
	for i, y := range view.Years {
		years[i] = strconv.Itoa(y)
	}
	l.chart.MultiSeries = nil
	l.chart.SetXAxis(years)
	for _, g := range view.Lines {
		data := make([]opts.LineData, len(g.Data))
		for i, v := range g.Data {
			if v == nil {
				data[i] = opts.LineData{Value: gap}
				continue
			}
			data[i] = opts.LineData{Value: *v}
		}
		l.chart.AddSeries(g.Label, data)
	}
	l.view = view
	l.updated = true
}

func (l *Line) Destroy() {
	l.chart.MultiSeries = nil
	l.view = stability.LineView{}
	l.updated = false
}

func (l *Line) View() stability.LineView {
	return l.view
}

func (l *Line) Render(w io.Writer) error {
	return l.chart.Render(w)
}
