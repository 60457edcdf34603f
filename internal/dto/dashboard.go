package dto

// Metrics is the dashboard headline block.
type Metrics struct {
	ActiveCustomers int     `json:"activeCustomers"`
	ActiveLoans     int     `json:"activeLoans"`
	TotalLent       float64 `json:"totalLent"`
	ConversionRate  float64 `json:"conversionRate"` // percent of customers closed-won
}

// Performance is approved-loan volume bucketed over a rolling period. Bucket
// granularity follows the period: up to 7 days by day, up to 30 by week,
// otherwise by month.
type Performance struct {
	Labels   []string  `json:"labels"`
	Values   []float64 `json:"values"`
	Goal     float64   `json:"goal"`
	Progress float64   `json:"progress"`
}

type PerformanceRequest struct {
	PeriodDays int `json:"periodDays"`
}
