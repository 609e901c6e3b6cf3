package dto

// QuestionResponse represents one persisted question in the API response
type QuestionResponse struct {
	ID            string            `json:"id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
	QuestionOrder int               `json:"question_order"`
}

// DomainInfo lists one known quiz domain and its display title
type DomainInfo struct {
	Domain string `json:"domain"`
	Title  string `json:"title"`
}

// DomainsResponse is the payload of the domain listing endpoint
type DomainsResponse struct {
	Domains []DomainInfo `json:"domains"`
}

// HealthResponse reports per-dependency liveness
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Cache  string `json:"cache"`
}

// ErrorResponse represents an error in the API response.
// Error carries failure detail and is omitted in production.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
