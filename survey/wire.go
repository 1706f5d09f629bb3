package survey

import "math"

// GraphSeries is the /function2graph payload: average median salary and
// full-time employment rate per label of the chosen grouping.
type GraphSeries struct {
	Labels     []string   `json:"labels"`
	Salary     []*float64 `json:"salary"`
	Employment []*float64 `json:"employment"`
}

// ROIRow is one university of the /api/roi/university payload.
type ROIRow struct {
	University          string  `json:"university"`
	AvgFTEmploymentRate float64 `json:"avg_ft_employment_rate"`
	AvgMedianSalary     float64 `json:"avg_median_salary"`
	ROIScore            float64 `json:"roi_score"`
}

type ROIPage struct {
	Results []ROIRow `json:"results"`
}

// ROIScore is the expected monthly salary of a graduate: the full-time
// employment rate applied to the median salary, rounded to cents.
func ROIScore(ftEmploymentRate, medianSalary float64) float64 {
	return math.Round(ftEmploymentRate/100*medianSalary*100) / 100
}
