package importing

import (
	"context"
	"fmt"

	"github.com/ClickHouse/ch-go"
	chproto "github.com/ClickHouse/ch-go/proto"

	"github.com/anton-kapralov/graduate-pulse/survey"
)

type clickhouseStore struct {
	db    *ch.Client
	table string
}

// NewClickhouseStore writes records into table with native columnar inserts.
func NewClickhouseStore(db *ch.Client, table string) Store {
	return &clickhouseStore{db: db, table: table}
}

func (s *clickhouseStore) SaveRecords(ctx context.Context, records []survey.Record) error {
	input := recordsInput(records)
	q := ch.Query{
		Body:  input.Into(s.table),
		Input: input,
	}
	if err := s.db.Do(ctx, q); err != nil {
		return fmt.Errorf("failed to save %d survey records in the DB: %w", len(records), err)
	}
	return nil
}

func recordsInput(records []survey.Record) chproto.Input {
	var (
		year                  chproto.ColUInt16
		university            = new(chproto.ColStr).LowCardinality()
		school                = new(chproto.ColStr).LowCardinality()
		degree                chproto.ColStr
		employmentRateOverall = new(chproto.ColFloat64).Nullable()
		employmentRateFTPerm  = new(chproto.ColFloat64).Nullable()
		basicMonthlyMean      = new(chproto.ColFloat64).Nullable()
		grossMonthlyMedian    = new(chproto.ColFloat64).Nullable()
	)

	for _, r := range records {
		year.Append(uint16(r.Year))
		university.Append(r.University)
		school.Append(r.School)
		degree.Append(r.Degree)
		employmentRateOverall.Append(nullable(r.EmploymentRateOverall))
		employmentRateFTPerm.Append(nullable(r.EmploymentRateFTPerm))
		basicMonthlyMean.Append(nullable(r.BasicMonthlyMean))
		grossMonthlyMedian.Append(nullable(r.GrossMonthlyMedian))
	}

	return chproto.Input{
		{Name: "year", Data: &year},
		{Name: "university", Data: university},
		{Name: "school", Data: school},
		{Name: "degree", Data: &degree},
		{Name: "employment_rate_overall", Data: employmentRateOverall},
		{Name: "employment_rate_ft_perm", Data: employmentRateFTPerm},
		{Name: "basic_monthly_mean", Data: basicMonthlyMean},
		{Name: "gross_monthly_median", Data: grossMonthlyMedian},
	}
}

func nullable(v *float64) chproto.Nullable[float64] {
	if v == nil {
		return chproto.Null[float64]()
	}
	return chproto.NewNullable(*v)
}
