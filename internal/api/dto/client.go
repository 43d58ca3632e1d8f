package dto

// ClientResponse is the canonical client shape returned by every endpoint
// that returns a client.
type ClientResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       int    `json:"age"`
	StateCode string `json:"state_code"`
}

// DeleteResponse acknowledges a delete
type DeleteResponse struct {
	Success bool  `json:"success"`
	ID      int64 `json:"id"`
}

// ErrorResponse is the body of every failed request. Details is only set for
// validation failures and maps each rejected field to its reason.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time,omitempty"`
}
