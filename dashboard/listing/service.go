package listing

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/anton-kapralov/graduate-pulse/stability"
	"github.com/anton-kapralov/graduate-pulse/survey"
)

var (
	ErrUnknownGroupKey = errors.New("unknown group key")
	ErrUnknownMetric   = errors.New("unknown metric")
)

// GroupKey is a survey column the salary/employment graph can be grouped by.
type GroupKey string

const (
	GroupByUniversity GroupKey = "university"
	GroupBySchool     GroupKey = "school"
	GroupByDegree     GroupKey = "degree"
	GroupByYear       GroupKey = "year"
)

func ParseGroupKey(s string) (GroupKey, error) {
	switch k := GroupKey(s); k {
	case GroupByUniversity, GroupBySchool, GroupByDegree, GroupByYear:
		return k, nil
	case "":
		return GroupByUniversity, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGroupKey, s)
}

// Metric is the survey value tracked per university and year for stability.
type Metric string

const (
	MetricEmployment Metric = "employment"
	MetricSalary     Metric = "salary"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricEmployment, MetricSalary:
		return m, nil
	case "":
		return MetricEmployment, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMetric, s)
}

func (m Metric) column() string {
	if m == MetricSalary {
		return "gross_monthly_median"
	}
	return "employment_rate_ft_perm"
}

type Service interface {
	Graph(ctx context.Context, key GroupKey) (survey.GraphSeries, error)
	ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error)
	Series(ctx context.Context, metric Metric) (stability.TimeSeriesSet, error)
}

type service struct {
	db driver.Conn
}

func NewService(db driver.Conn) Service {
	return &service{
		db: db,
	}
}

func (s *service) Graph(ctx context.Context, key GroupKey) (survey.GraphSeries, error) {
	query := fmt.Sprintf(`
SELECT
	toString(s.%s) AS label,
	avg(s.gross_monthly_median),
	avg(s.employment_rate_ft_perm)
FROM ges.survey s
GROUP BY label
ORDER BY label
`, key)
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return survey.GraphSeries{}, fmt.Errorf("failed to fetch graph from DB: %w", err)
	}
	defer rows.Close()

	res := survey.GraphSeries{Labels: []string{}, Salary: []*float64{}, Employment: []*float64{}}
	for rows.Next() {
		var (
			label              string
			salary, employment *float64
		)
		if err := rows.Scan(&label, &salary, &employment); err != nil {
			return survey.GraphSeries{}, fmt.Errorf("failed to scan graph row: %w", err)
		}
		res.Labels = append(res.Labels, label)
		res.Salary = append(res.Salary, salary)
		res.Employment = append(res.Employment, employment)
	}
	return res, rows.Err()
}

func (s *service) ROI(ctx context.Context, startYear, endYear int) ([]survey.ROIRow, error) {
	query := `
SELECT
	s.university,
	avg(s.employment_rate_ft_perm),
	avg(s.gross_monthly_median)
FROM ges.survey s
WHERE
	s.year>=? AND
	s.year<=?
GROUP BY s.university
ORDER BY s.university
`
	rows, err := s.db.Query(ctx, query, startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ROI from DB: %w", err)
	}
	defer rows.Close()

	res := []survey.ROIRow{}
	for rows.Next() {
		var (
			university   string
			rate, salary *float64
		)
		if err := rows.Scan(&university, &rate, &salary); err != nil {
			return nil, fmt.Errorf("failed to scan ROI row: %w", err)
		}
		if rate == nil || salary == nil {
			continue
		}
		res = append(res, survey.ROIRow{
			University:          university,
			AvgFTEmploymentRate: round2(*rate),
			AvgMedianSalary:     round2(*salary),
			ROIScore:            survey.ROIScore(*rate, *salary),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rankROI(res)
	return res, nil
}

func (s *service) Series(ctx context.Context, metric Metric) (stability.TimeSeriesSet, error) {
	query := fmt.Sprintf(`
SELECT
	s.year,
	s.university,
	avg(s.%s)
FROM ges.survey s
GROUP BY s.year, s.university
ORDER BY s.year, s.university
`, metric.column())
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return stability.TimeSeriesSet{}, fmt.Errorf("failed to fetch series from DB: %w", err)
	}
	defer rows.Close()

	var points []point
	for rows.Next() {
		var p point
		if err := rows.Scan(&p.year, &p.label, &p.value); err != nil {
			return stability.TimeSeriesSet{}, fmt.Errorf("failed to scan series row: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return stability.TimeSeriesSet{}, err
	}
	if len(points) == 0 {
		return stability.TimeSeriesSet{}, stability.ErrDataNotFound
	}
	return pivot(points), nil
}

// rankROI orders rows by ROI score, highest first, then by university.
func rankROI(rows []survey.ROIRow) {
	slices.SortStableFunc(rows, func(a, b survey.ROIRow) int {
		if c := cmp.Compare(b.ROIScore, a.ROIScore); c != 0 {
			return c
		}
		return cmp.Compare(a.University, b.University)
	})
}
