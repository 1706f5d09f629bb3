// Package survey holds the graduate employment survey model shared by the
// collector, importer, dashboard and report services.
package survey

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidRecord is returned when a survey record fails validation.
var ErrInvalidRecord = errors.New("invalid survey record")

// Record is one survey row: a degree programme of a university in a given year.
// Rates are percentages, salaries are monthly amounts. Blank survey cells are nil.
type Record struct {
	Year                  int      `json:"year"`
	University            string   `json:"university"`
	School                string   `json:"school"`
	Degree                string   `json:"degree"`
	EmploymentRateOverall *float64 `json:"employment_rate_overall"`
	EmploymentRateFTPerm  *float64 `json:"employment_rate_ft_perm"`
	BasicMonthlyMean      *float64 `json:"basic_monthly_mean"`
	GrossMonthlyMedian    *float64 `json:"gross_monthly_median"`
}

func (r Record) Validate() error {
	if r.Year < 1900 || r.Year > 2100 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidRecord, r.Year)
	}
	if strings.TrimSpace(r.University) == "" {
		return fmt.Errorf("%w: university is required", ErrInvalidRecord)
	}
	for name, rate := range map[string]*float64{
		"employment_rate_overall": r.EmploymentRateOverall,
		"employment_rate_ft_perm": r.EmploymentRateFTPerm,
	} {
		if rate == nil {
			continue
		}
		if !finite(*rate) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidRecord, name)
		}
		if *rate < 0 || *rate > 100 {
			return fmt.Errorf("%w: %s %.2f not a percentage", ErrInvalidRecord, name, *rate)
		}
	}
	for name, amount := range map[string]*float64{
		"basic_monthly_mean":   r.BasicMonthlyMean,
		"gross_monthly_median": r.GrossMonthlyMedian,
	} {
		if amount == nil {
			continue
		}
		if !finite(*amount) {
			return fmt.Errorf("%w: %s is not a number", ErrInvalidRecord, name)
		}
		if *amount < 0 {
			return fmt.Errorf("%w: %s is negative", ErrInvalidRecord, name)
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
