package stability

// Dataset is the page payload: the full series plus the default, unfiltered
// views. Field names follow the JSON contract consumed by the chart page.
type Dataset struct {
	YearsAll        []int          `json:"yearsAll"`
	LineDatasetsAll []Group        `json:"lineDatasetsAll"`
	Years           []int          `json:"years"`
	LineDatasets    []Group        `json:"lineDatasets"`
	BarLabels       []string       `json:"barLabels"`
	BarValues       []float64      `json:"barValues"`
	ScatterPoints   []ScatterPoint `json:"scatterPoints"`
}

// NewDataset renders the default view of set into a Dataset.
func NewDataset(set TimeSeriesSet) (Dataset, error) {
	var (
		bar     Latest[BarView]
		scatter Latest[ScatterView]
		line    Latest[LineView]
	)
	r, err := NewRecomputer(set, Sinks{Bar: &bar, Scatter: &scatter, Line: &line})
	if err != nil {
		return Dataset{}, err
	}
	defer r.Close()

	barView, _ := bar.View()
	scatterView, _ := scatter.View()
	lineView, _ := line.View()

	full := set.Slice(Range{From: 0, To: len(set.Years) - 1})
	ds := Dataset{
		YearsAll:        full.Years,
		LineDatasetsAll: full.Groups,
		Years:           lineView.Years,
		LineDatasets:    lineView.Lines,
		BarLabels:       make([]string, len(barView.Points)),
		BarValues:       make([]float64, len(barView.Points)),
		ScatterPoints:   scatterView.Points,
	}
	for i, p := range barView.Points {
		ds.BarLabels[i] = p.Label
		ds.BarValues[i] = p.Value
	}
	return ds, nil
}

// Series returns the full-range set carried by the dataset.
func (d Dataset) Series() (TimeSeriesSet, error) {
	set := TimeSeriesSet{Years: d.YearsAll, Groups: d.LineDatasetsAll}
	if err := set.Validate(); err != nil {
		return TimeSeriesSet{}, err
	}
	return set, nil
}
