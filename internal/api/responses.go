package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong"`
}

type MessageResponse struct {
	Message string `json:"message" example:"ok"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// RejectionResponse is returned when a booking request was evaluated and
// turned down by policy. Distinct from ErrorResponse: the service worked,
// the answer was no.
type RejectionResponse struct {
	Rejected bool   `json:"rejected" example:"true"`
	Reason   string `json:"reason" example:"capacity_exceeded"`
}
