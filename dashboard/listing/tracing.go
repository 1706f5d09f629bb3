package listing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

type tracingService struct {
	next   Service
	tracer trace.Tracer
}

// NewTracingService wraps every listing call in a span.
func NewTracingService(next Service, tracer trace.Tracer) Service {
	return &tracingService{next: next, tracer: tracer}
}

func (s *tracingService) Graph(ctx context.Context, key GroupKey) (survey.GraphSeries, error) {
	ctx, span := s.tracer.Start(ctx, "listing.Graph",
		trace.WithAttributes(attribute.String("group_by", string(key))))
	defer span.End()

	res, err := s.next.Graph(ctx, key)
	record(span, err)
	span.SetAttributes(attribute.Int("labels", len(res.Labels)))
	return res, err
}

func (s *tracingService) ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error) {
	ctx, span := s.tracer.Start(ctx, "listing.ROI",
		trace.WithAttributes(
			attribute.Int("start_year", startYear),
			attribute.Int("end_year", endYear),
		))
	defer span.End()

	res, err := s.next.ROI(ctx, startYear, endYear)
	record(span, err)
	span.SetAttributes(attribute.Int("results", len(res)))
	return res, err
}

func (s *tracingService) Series(ctx context.Context, metric Metric) (stability.TimeSeriesSet, error) {
	ctx, span := s.tracer.Start(ctx, "listing.Series",
		trace.WithAttributes(attribute.String("metric", string(metric))))
	defer span.End()

	res, err := s.next.Series(ctx, metric)
	record(span, err)
	span.SetAttributes(
		attribute.Int("years", len(res.Years)),
		attribute.Int("groups", len(res.Groups)),
	)
	return res, err
}

func record(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
