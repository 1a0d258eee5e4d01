// models/api_models.go
package models

// SearchResponse is the body returned by GET /api/movies/search and /api/movies/top.
type SearchResponse struct {
	Query   string        `json:"query,omitempty"`
	Count   int           `json:"count"`
	Results []MovieRecord `json:"results"`
}

// BestMatchResponse is the body returned by GET /api/movies/best.
type BestMatchResponse struct {
	Movie MovieRecord `json:"movie"`
}

// HealthResponse is the body returned by GET /api/health.
type HealthResponse struct {
	Status string `json:"status"`
	Source string `json:"source,omitempty"`
	Movies int    `json:"movies"`
}

// ErrorResponse carries a user-facing message. Input echoes the offending text for
// invalid input errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Input string `json:"input,omitempty"`
}
