package charts

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

const (
	defaultWidth  = "960px"
	defaultHeight = "480px"
)

// Dashboard owns every chart and table of the page. Sections that never
// received a view are left out of the rendered page.
type Dashboard struct {
	title string

	stabilityBar *Bar
	scatter      *Scatter
	line         *Line
	statsTable   *StatsTable

	roiTable *ROITable
	roiBar   *Bar
	graph    *Graph
}

func NewDashboard(title string) *Dashboard {
	return &Dashboard{
		title:        title,
		stabilityBar: NewBar("Stability index (mean / std)", "stability"),
		scatter:      NewScatter("Mean vs standard deviation"),
		line:         NewLine("Yearly series"),
		statsTable:   NewStatsTable("Results"),
		roiTable:     NewROITable("Return on investment by university"),
		roiBar:       NewBar("ROI score", "roi_score"),
		graph:        NewGraph("Salary and employment"),
	}
}

// Sinks returns the stability sinks to hand to a stability.Recomputer.
func (d *Dashboard) Sinks() stability.Sinks {
	return stability.Sinks{
		Bar:     d.stabilityBar,
		Scatter: d.scatter,
		Line:    d.line,
		Table:   d.statsTable,
	}
}

func (d *Dashboard) ROITable() stability.Sink[[]survey.ROIRow] {
	return d.roiTable
}

func (d *Dashboard) ROIBar() stability.Sink[stability.BarView] {
	return d.roiBar
}

func (d *Dashboard) Graph() stability.Sink[survey.GraphSeries] {
	return d.graph
}

// Render writes one HTML document: the charts followed by the tables.
func (d *Dashboard) Render(w io.Writer) error {
	var tablesHTML bytes.Buffer
	if d.statsTable.updated {
		if err := d.statsTable.Render(&tablesHTML); err != nil {
			return fmt.Errorf("failed to render results table: %w", err)
		}
	}
	if d.roiTable.updated {
		if err := d.roiTable.Render(&tablesHTML); err != nil {
			return fmt.Errorf("failed to render ROI table: %w", err)
		}
	}

	page := components.NewPage()
	page.PageTitle = d.title
	var charted int
	if d.stabilityBar.updated {
		page.AddCharts(d.stabilityBar.chart)
		charted++
	}
	if d.scatter.updated {
		page.AddCharts(d.scatter.chart)
		charted++
	}
	if d.line.updated {
		page.AddCharts(d.line.chart)
		charted++
	}
	if d.roiBar.updated {
		page.AddCharts(d.roiBar.chart)
		charted++
	}
	if d.graph.updated {
		page.AddCharts(d.graph.chart)
		charted++
	}
	if charted == 0 {
		return renderDocument(w, d.title, tablesHTML.Bytes())
	}

	var doc bytes.Buffer
	if err := page.Render(&doc); err != nil {
		return fmt.Errorf("failed to render charts: %w", err)
	}
	return writeIntoBody(w, doc.Bytes(), tablesHTML.Bytes())
}

// writeIntoBody copies doc to w with extra inserted right before </body>.
func writeIntoBody(w io.Writer, doc, extra []byte) error {
	i := bytes.LastIndex(doc, []byte("</body>"))
	if i < 0 {
		return errors.New("chart page has no body")
	}
	for _, part := range [][]byte{doc[:i], extra, doc[i:]} {
		if _, err := w.Write(part); err != nil {
			return fmt.Errorf("failed to write page: %w", err)
		}
	}
	return nil
}
