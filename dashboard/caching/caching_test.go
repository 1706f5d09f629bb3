package caching

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/longbridgeapp/assert"

	"github.com/anton-kapralov/graduate-pulse/dashboard/listing"
	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type mapBackend struct {
	items  map[string][]byte
	ttls   map[string]time.Duration
	getErr error
}

func newMapBackend() *mapBackend {
	return &mapBackend{items: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (b *mapBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if b.getErr != nil {
		return nil, false, b.getErr
	}
	v, ok := b.items[key]
	return v, ok, nil
}

func (b *mapBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	b.items[key] = value
	b.ttls[key] = ttl
	return nil
}

type countingService struct {
	calls map[string]int
	err   error
}

func (s *countingService) Graph(_ context.Context, key listing.GroupKey) (survey.GraphSeries, error) {
	s.calls["graph"]++
	salary := 4200.5
	return survey.GraphSeries{
		Labels:     []string{string(key)},
		Salary:     []*float64{&salary},
		Employment: []*float64{nil},
	}, s.err
}

func (s *countingService) ROI(_ context.Context, startYear, _ int) ([]survey.ROIRow, error) {
	s.calls["roi"]++
	return []survey.ROIRow{{University: "NUS", ROIScore: float64(startYear)}}, s.err
}

func (s *countingService) Series(context.Context, listing.Metric) (stability.TimeSeriesSet, error) {
	s.calls["series"]++
	return stability.TimeSeriesSet{
		Years:  []int{2020, 2021},
		Groups: []stability.Group{{Label: "NUS", Data: []*float64{stability.Float(1), nil}}},
	}, s.err
}

func TestService_CachesEveryOperation(t *testing.T) {
	for _, codecName := range []string{"msgpack", "json"} {
		t.Run(codecName, func(t *testing.T) {
			codec, err := NewCodec(codecName)
			assert.Nil(t, err)
			next := &countingService{calls: map[string]int{}}
			backend := newMapBackend()
			svc := NewService(next, backend, codec, time.Minute)
			ctx := context.Background()

			for i := 0; i < 2; i++ {
				g, err := svc.Graph(ctx, listing.GroupBySchool)
				assert.Nil(t, err)
				assert.Equal(t, []string{"school"}, g.Labels)
				assert.Equal(t, 4200.5, *g.Salary[0])
				assert.Nil(t, g.Employment[0])

				rows, err := svc.ROI(ctx, 2019, 2021)
				assert.Nil(t, err)
				assert.Equal(t, []survey.ROIRow{{University: "NUS", ROIScore: 2019}}, rows)

				set, err := svc.Series(ctx, listing.MetricSalary)
				assert.Nil(t, err)
				assert.Equal(t, []int{2020, 2021}, set.Years)
				assert.Nil(t, set.Groups[0].Data[1])
			}

			assert.Equal(t, map[string]int{"graph": 1, "roi": 1, "series": 1}, next.calls)
			assert.Equal(t, 3, len(backend.items))
			for key, ttl := range backend.ttls {
				assert.True(t, strings.HasPrefix(key, keyPrefix+":"))
				assert.Equal(t, time.Minute, ttl)
			}
		})
	}
}

func TestService_DistinctKeysPerArguments(t *testing.T) {
	codec, _ := NewCodec("json")
	next := &countingService{calls: map[string]int{}}
	svc := NewService(next, newMapBackend(), codec, time.Minute)

	_, _ = svc.ROI(context.Background(), 2019, 2021)
	_, _ = svc.ROI(context.Background(), 2020, 2021)
	assert.Equal(t, 2, next.calls["roi"])
}

func TestService_ErrorsAreNotCached(t *testing.T) {
	codec, _ := NewCodec("msgpack")
	boom := errors.New("boom")
	next := &countingService{calls: map[string]int{}, err: boom}
	backend := newMapBackend()
	svc := NewService(next, backend, codec, time.Minute)

	_, err := svc.Graph(context.Background(), listing.GroupByYear)
	assert.Equal(t, boom, err)
	assert.Equal(t, 0, len(backend.items))
}

func TestService_BackendFailureFallsThrough(t *testing.T) {
	codec, _ := NewCodec("json")
	next := &countingService{calls: map[string]int{}}
	backend := newMapBackend()
	backend.getErr = errors.New("connection refused")
	svc := NewService(next, backend, codec, time.Minute)

	rows, err := svc.ROI(context.Background(), 2019, 2019)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(rows))
}

func TestService_UndecodableEntryIsReloaded(t *testing.T) {
	codec, _ := NewCodec("json")
	next := &countingService{calls: map[string]int{}}
	backend := newMapBackend()
	backend.items[cacheKey("graph", "year")] = []byte("not json")
	svc := NewService(next, backend, codec, time.Minute)

	g, err := svc.Graph(context.Background(), listing.GroupByYear)
	assert.Nil(t, err)
	assert.Equal(t, []string{"year"}, g.Labels)
	assert.Equal(t, 1, next.calls["graph"])
}

func TestNewCodec_Unknown(t *testing.T) {
	_, err := NewCodec("xml")
	assert.True(t, errors.Is(err, ErrUnknownCodec))
}
