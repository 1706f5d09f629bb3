package caching

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/anton-kapralov/graduate-pulse/dashboard/listing"
	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

const keyPrefix = "graduate-pulse"

type service struct {
	next    listing.Service
	backend Backend
	codec   Codec
	ttl     time.Duration
}

// NewService caches listing results for ttl. Cache failures are logged and
// the call falls through to next.
func NewService(next listing.Service, backend Backend, codec Codec, ttl time.Duration) listing.Service {
	return &service{
		next:    next,
		backend: backend,
		codec:   codec,
		ttl:     ttl,
	}
}

func (s *service) Graph(ctx context.Context, key listing.GroupKey) (survey.GraphSeries, error) {
	return cached(ctx, s, cacheKey("graph", string(key)), func() (survey.GraphSeries, error) {
		return s.next.Graph(ctx, key)
	})
}

func (s *service) ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error) {
	res, err := cached(ctx, s, cacheKey("roi", strconv.Itoa(startYear), strconv.Itoa(endYear)), func() ([]survey.ROIRow, error) {
		return s.next.ROI(ctx, startYear, endYear)
	})
	if res == nil && err == nil {
		res = []survey.ROIRow{}
	}
	return res, err
}

func (s *service) Series(ctx context.Context, metric listing.Metric) (stability.TimeSeriesSet, error) {
	return cached(ctx, s, cacheKey("series", string(metric)), func() (stability.TimeSeriesSet, error) {
		return s.next.Series(ctx, metric)
	})
}

// cached returns the value stored under key, or calls load and stores its
// result. Failed loads are not cached.
func cached[T any](ctx context.Context, s *service, key string, load func() (T, error)) (T, error) {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		log.Println(err)
	}
	if ok {
		var v T
		err := s.codec.Unmarshal(data, &v)
		if err == nil {
			return v, nil
		}
		log.Printf("Dropping undecodable cache entry %s: %s", key, err)
	}

	v, err := load()
	if err != nil {
		return v, err
	}
	data, err = s.codec.Marshal(v)
	if err != nil {
		log.Printf("Failed to encode %s: %s", key, err)
		return v, nil
	}
	if err := s.backend.Set(ctx, key, data, s.ttl); err != nil {
		log.Println(err)
	}
	return v, nil
}

func cacheKey(op string, parts ...string) string {
	return fmt.Sprintf("%s:%s:%016x", keyPrefix, op, xxhash.Sum64String(strings.Join(parts, "|")))
}
