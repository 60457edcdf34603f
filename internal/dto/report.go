package dto

// Report is a tabular export: one header row plus data rows, formatting left
// to the frontend.
type Report struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

type RecalcResult struct {
	CustomersUpdated int `json:"customersUpdated"`
	Batches          int `json:"batches"`
	Skipped          int `json:"skipped"`
}
