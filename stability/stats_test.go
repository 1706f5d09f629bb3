package stability

import (
	"errors"
	"math"
	"testing"

	"github.com/longbridgeapp/assert"
)

func floats(values ...any) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
		case int:
			out[i] = Float(float64(x))
		case float64:
			out[i] = Float(x)
		}
	}
	return out
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func TestSliceByYearRange(t *testing.T) {
	years := []int{2019, 2020, 2021, 2022}
	tests := []struct {
		name     string
		years    []int
		from, to int
		want     Range
		ok       bool
	}{
		{name: "full span", years: years, from: 2019, to: 2022, want: Range{From: 0, To: 3}, ok: true},
		{name: "inner", years: years, from: 2020, to: 2021, want: Range{From: 1, To: 2}, ok: true},
		{name: "single year", years: years, from: 2021, to: 2021, want: Range{From: 2, To: 2}, ok: true},
		{name: "only element", years: []int{2020}, from: 2020, to: 2020, want: Range{From: 0, To: 0}, ok: true},
		{name: "from missing", years: years, from: 2018, to: 2021},
		{name: "to missing", years: years, from: 2019, to: 2023},
		{name: "reversed", years: years, from: 2022, to: 2020},
		{name: "empty years", years: nil, from: 2020, to: 2020},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, ok := SliceByYearRange(test.years, test.from, test.to)
			assert.Equal(t, test.ok, ok)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestTimeSeriesSet_SliceLength(t *testing.T) {
	set := TimeSeriesSet{
		Years: []int{2018, 2019, 2020, 2021, 2022},
		Groups: []Group{
			{Label: "A", Data: floats(1, 2, 3, 4, 5)},
			{Label: "B", Data: floats(nil, 2, nil, 4, math.NaN())},
		},
	}
	for i, from := range set.Years {
		for _, to := range set.Years[i:] {
			rng, ok := SliceByYearRange(set.Years, from, to)
			assert.True(t, ok)
			sliced := set.Slice(rng)
			assert.Equal(t, rng.Len(), len(sliced.Years))
			for _, g := range sliced.Groups {
				assert.Equal(t, rng.To-rng.From+1, len(g.Data))
			}
		}
	}

	sliced := set.Slice(Range{From: 3, To: 4})
	assert.Equal(t, []int{2021, 2022}, sliced.Years)
	assert.Nil(t, sliced.Groups[1].Data[1])
}

func TestTimeSeriesSet_Validate(t *testing.T) {
	tests := []struct {
		name string
		set  TimeSeriesSet
		err  error
	}{
		{name: "no years", set: TimeSeriesSet{Groups: []Group{{Label: "A"}}}, err: ErrDataNotFound},
		{name: "no groups", set: TimeSeriesSet{Years: []int{2020}}, err: ErrDataNotFound},
		{name: "unsorted years", set: TimeSeriesSet{
			Years:  []int{2021, 2020},
			Groups: []Group{{Label: "A", Data: floats(1, 2)}},
		}, err: ErrInvalidSeries},
		{name: "duplicate years", set: TimeSeriesSet{
			Years:  []int{2020, 2020},
			Groups: []Group{{Label: "A", Data: floats(1, 2)}},
		}, err: ErrInvalidSeries},
		{name: "short group", set: TimeSeriesSet{
			Years:  []int{2020, 2021},
			Groups: []Group{{Label: "A", Data: floats(1)}},
		}, err: ErrInvalidSeries},
		{name: "valid", set: TimeSeriesSet{
			Years:  []int{2020, 2021},
			Groups: []Group{{Label: "A", Data: floats(1, nil)}},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.set.Validate()
			if test.err == nil {
				assert.Nil(t, err)
				return
			}
			assert.True(t, errors.Is(err, test.err))
		})
	}
}

func TestComputeStats(t *testing.T) {
	t.Run("complete series", func(t *testing.T) {
		s := ComputeStats(floats(90, 92, 94))
		assert.Equal(t, 92.0, *s.Mean)
		assert.Equal(t, 2.0, *s.Std)
	})

	t.Run("missing entries are skipped", func(t *testing.T) {
		s := ComputeStats(floats(80, nil, 85))
		assert.Equal(t, 82.5, *s.Mean)
		assert.True(t, near(*s.Std, 3.536))
	})

	t.Run("NaN and infinities are skipped", func(t *testing.T) {
		s := ComputeStats(floats(math.NaN(), 4, math.Inf(1), 6))
		assert.Equal(t, 5.0, *s.Mean)
		assert.True(t, near(*s.Std, math.Sqrt2))
	})

	t.Run("no valid entries", func(t *testing.T) {
		s := ComputeStats(floats(nil, math.NaN()))
		assert.Nil(t, s.Mean)
		assert.Nil(t, s.Std)
	})

	t.Run("single valid entry", func(t *testing.T) {
		s := ComputeStats(floats(nil, 7))
		assert.Equal(t, 7.0, *s.Mean)
		assert.Nil(t, s.Std)
	})
}

func TestRankGroups(t *testing.T) {
	groups := []Group{
		{Label: "empty", Data: floats(nil, nil, nil)},
		{Label: "low", Data: floats(10, 20, 30)},
		{Label: "flat", Data: floats(5, 5, 5)},
		{Label: "single", Data: floats(nil, 3, nil)},
		{Label: "high", Data: floats(90, 92, 94)},
		{Label: "low-twin", Data: floats(20, 40, 60)},
	}

	stats, ranked := RankGroups(groups)

	assert.Equal(t, len(groups), len(stats))
	for i, gs := range stats {
		assert.Equal(t, groups[i].Label, gs.Label)
	}

	assert.Nil(t, stats[0].Mean)
	assert.Nil(t, stats[0].Std)
	assert.Nil(t, stats[0].Stability)

	assert.Equal(t, 0.0, *stats[2].Std)
	assert.Nil(t, stats[2].Stability)

	assert.Equal(t, 3.0, *stats[3].Mean)
	assert.Nil(t, stats[3].Std)
	assert.Nil(t, stats[3].Stability)

	labels := make([]string, len(ranked))
	for i, gs := range ranked {
		labels[i] = gs.Label
	}
	// low and low-twin share stability 2; input order decides.
	assert.Equal(t, []string{"high", "low", "low-twin"}, labels)

	for i := 1; i < len(ranked); i++ {
		assert.True(t, *ranked[i-1].Stability >= *ranked[i].Stability)
	}
}

func TestRankGroups_Empty(t *testing.T) {
	stats, ranked := RankGroups(nil)
	assert.Equal(t, 0, len(stats))
	assert.Equal(t, 0, len(ranked))
}
