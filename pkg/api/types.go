package api

// ErrorResponse is the JSON error envelope for all API failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code"`
}

// DatasetsResponse lists datasets known to the server.
type DatasetsResponse struct {
	Samples  []string `json:"samples"`
	Analyzed []string `json:"analyzed"`
}
