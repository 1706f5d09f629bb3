package charts

import (
	"errors"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/anton-kapralov/graduate-pulse/stability"
)

// ErrNothingToPlot is returned when the plottable points of a line view do
// not span at least two years.
var ErrNothingToPlot = errors.New("nothing to plot")

// RenderLinePNG draws the line view as a PNG. Every run of consecutive values
// becomes its own series so missing years break the line.
func RenderLinePNG(w io.Writer, title string, view stability.LineView) error {
	var series []chart.Series
	xs := make(map[float64]struct{})
	for i, g := range view.Lines {
		style := chart.Style{
			StrokeColor: chart.GetDefaultColor(i),
			DotColor:    chart.GetDefaultColor(i),
			DotWidth:    2,
		}
		for _, run := range runs(view.Years, g.Data) {
			for _, x := range run.x {
				xs[x] = struct{}{}
			}
			series = append(series, chart.ContinuousSeries{
				Name:    g.Label,
				Style:   style,
				XValues: run.x,
				YValues: run.y,
			})
		}
	}
	// go-chart needs a non-empty x range.
	if len(xs) < 2 {
		return ErrNothingToPlot
	}

	graph := chart.Chart{
		Title:  title,
		Width:  960,
		Height: 480,
		XAxis: chart.XAxis{
			Name:           "year",
			ValueFormatter: chart.IntValueFormatter,
		},
		Series: series,
	}
	return graph.Render(chart.PNG, w)
}

type run struct {
	x, y []float64
}

func runs(years []int, data []*float64) []run {
	var (
		out []run
		cur run
	)
	for i, v := range data {
		if v == nil {
			if len(cur.x) > 0 {
				out = append(out, cur)
				cur = run{}
			}
			continue
		}
		cur.x = append(cur.x, float64(years[i]))
		cur.y = append(cur.y, *v)
	}
	if len(cur.x) > 0 {
		out = append(out, cur)
	}
	return out
}
