package models

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// InfoResponse is the response for GET /.
type InfoResponse struct {
	Message string      `json:"message"`
	Status  string      `json:"status"`
	Usage   string      `json:"usage"`
	Example InfoExample `json:"example"`
}

// InfoExample shows a valid request body.
type InfoExample struct {
	URL string `json:"url"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status         string `json:"status"`
	Uptime         string `json:"uptime"`
	Version        string `json:"version"`
	BrowserEnabled bool   `json:"browser_enabled"`
}
