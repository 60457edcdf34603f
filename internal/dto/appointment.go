package dto

type CreateAppointmentRequest struct {
	CustomerID  string `json:"customerId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	ScheduledAt string `json:"scheduledAt"` // RFC 3339
}

type CreateAppointmentResponse struct {
	ID string `json:"id"`
}

type AppointmentFilters struct {
	CustomerID  string `json:"customerId"`
	IncludeDone bool   `json:"includeDone"`
}
