package survey

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadCSV parses survey rows from r. The first row is a header naming the
// columns after the JSON field names of Record; unknown columns are ignored.
// Blank cells and "na" are read as missing values.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV", ErrInvalidRecord)
		}
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"year", "university"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrInvalidRecord, required)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}
		rec, err := parseRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(columns map[string]int, row []string) (Record, error) {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	year, err := strconv.Atoi(cell("year"))
	if err != nil {
		return Record{}, fmt.Errorf("%w: bad year %q", ErrInvalidRecord, cell("year"))
	}
	r := Record{
		Year:       year,
		University: cell("university"),
		School:     cell("school"),
		Degree:     cell("degree"),
	}
	for name, dst := range map[string]**float64{
		"employment_rate_overall": &r.EmploymentRateOverall,
		"employment_rate_ft_perm": &r.EmploymentRateFTPerm,
		"basic_monthly_mean":      &r.BasicMonthlyMean,
		"gross_monthly_median":    &r.GrossMonthlyMedian,
	} {
		v, err := parseNumber(cell(name))
		if err != nil {
			return Record{}, fmt.Errorf("%w: bad %s: %s", ErrInvalidRecord, name, err)
		}
		*dst = v
	}
	return r, r.Validate()
}

func parseNumber(s string) (*float64, error) {
	if s == "" || strings.EqualFold(s, "na") {
		return nil, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
