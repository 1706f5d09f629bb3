package charts

import (
	"io"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/anton-kapralov/graduate-pulse/survey"
)

// Graph draws average salary and employment rate side by side per label.
type Graph struct {
	chart   *echarts.Bar
	view    survey.GraphSeries
	updated bool
}

func NewGraph(title string) *Graph {
	c := echarts.NewBar()
	c.SetGlobalOptions(
		echarts.WithTitleOpts(opts.Title{Title: title}),
		echarts.WithInitializationOpts(opts.Initialization{Width: defaultWidth, Height: defaultHeight}),
	)
	return &Graph{chart: c}
}

func (g *Graph) Update(view survey.GraphSeries) {
	g.chart.MultiSeries = nil
	g.chart.SetXAxis(view.Labels).
		AddSeries("salary", barData(view.Salary)).
		AddSeries("employment", barData(view.Employment))
	g.view = view
	g.updated = true
}

func (g *Graph) Destroy() {
	g.chart.MultiSeries = nil
	g.view = survey.GraphSeries{}
	g.updated = false
}

func (g *Graph) View() survey.GraphSeries {
	return g.view
}

func (g *Graph) Render(w io.Writer) error {
	return g.chart.Render(w)
}

func barData(values []*float64) []opts.BarData {
	data := make([]opts.BarData, len(values))
	for i, v := range values {
		if v == nil {
			data[i] = opts.BarData{Value: gap}
			continue
		}
		data[i] = opts.BarData{Value: *v}
	}
	return data
}
