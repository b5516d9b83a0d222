// Package dto defines the request and response shapes of the HTTP API.
package dto

// ErrorResponse is the uniform error body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
