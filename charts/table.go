package charts

import (
	"html/template"
	"io"
	"strconv"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

var tables = template.Must(template.New("tables").Funcs(template.FuncMap{
	"num": formatNumber,
}).Parse(`
{{define "stats"}}<section class="results">
<h2>{{.Title}}</h2>
<table>
<thead><tr><th>Group</th><th>Mean</th><th>Std</th><th>Stability</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Label}}</td><td>{{num .Mean}}</td><td>{{num .Std}}</td><td>{{num .Stability}}</td></tr>
{{end}}</tbody>
</table>
</section>{{end}}
{{define "page"}}<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
{{.Body}}
</body>
</html>
{{end}}
{{define "roi"}}<section class="roi">
<h2>{{.Title}}</h2>
<table>
<thead><tr><th>University</th><th>Avg FT employment rate</th><th>Avg median salary</th><th>ROI score</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.University}}</td><td>{{.AvgFTEmploymentRate}}</td><td>{{.AvgMedianSalary}}</td><td>{{.ROIScore}}</td></tr>
{{end}}</tbody>
</table>
</section>{{end}}
`))

// renderDocument wraps already rendered tables into a standalone page.
func renderDocument(w io.Writer, title string, body []byte) error {
	return tables.ExecuteTemplate(w, "page", struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body)})
}

func formatNumber(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// StatsTable is the results table of the stability views.
type StatsTable struct {
	title   string
	view    stability.TableView
	updated bool
}

func NewStatsTable(title string) *StatsTable {
	return &StatsTable{title: title}
}

func (t *StatsTable) Update(view stability.TableView) {
	t.view = view
	t.updated = true
}

func (t *StatsTable) Destroy() {
	t.view = stability.TableView{}
	t.updated = false
}

func (t *StatsTable) View() stability.TableView {
	return t.view
}

func (t *StatsTable) Render(w io.Writer) error {
	return tables.ExecuteTemplate(w, "stats", struct {
		Title string
		Rows  []stability.GroupStats
	}{t.title, t.view.Rows})
}

// ROITable lists the universities of an ROI page.
type ROITable struct {
	title   string
	rows    []survey.ROIRow
	updated bool
}

func NewROITable(title string) *ROITable {
	return &ROITable{title: title}
}

func (t *ROITable) Update(rows []survey.ROIRow) {
	t.rows = rows
	t.updated = true
}

func (t *ROITable) Destroy() {
	t.rows = nil
	t.updated = false
}

func (t *ROITable) Rows() []survey.ROIRow {
	return t.rows
}

func (t *ROITable) Render(w io.Writer) error {
	return tables.ExecuteTemplate(w, "roi", struct {
		Title string
		Rows  []survey.ROIRow
	}{t.title, t.rows})
}
