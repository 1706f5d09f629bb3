package stability

import "math"

// BarPoint is one bar of the stability ranking.
type BarPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BarView lists ranked groups by stability, highest first.
type BarView struct {
	Points []BarPoint `json:"points"`
}

// ScatterPoint places a group by its mean (x) and standard deviation (y).
type ScatterPoint struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
}

// ScatterView holds every group with both a mean and a standard deviation.
type ScatterView struct {
	Points []ScatterPoint `json:"points"`
}

// LineView is the sliced year axis with every group's sliced series.
// Nil values are gaps and must be drawn as breaks in the line.
type LineView struct {
	Years []int   `json:"years"`
	Lines []Group `json:"lines"`
}

// TableView is the results table: every group in input order.
type TableView struct {
	Rows []GroupStats `json:"rows"`
}

func newBarView(ranked []GroupStats) BarView {
	points := make([]BarPoint, 0, len(ranked))
	for _, gs := range ranked {
		points = append(points, BarPoint{Label: gs.Label, Value: round3(*gs.Stability)})
	}
	return BarView{Points: points}
}

func newScatterView(stats []GroupStats) ScatterView {
	points := make([]ScatterPoint, 0, len(stats))
	for _, gs := range stats {
		if gs.Mean == nil || gs.Std == nil {
			continue
		}
		points = append(points, ScatterPoint{
			Label: gs.Label,
			Mean:  round3(*gs.Mean),
			Std:   round3(*gs.Std),
		})
	}
	return ScatterView{Points: points}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
