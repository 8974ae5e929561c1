package models

import json "github.com/goccy/go-json"

// ApiResponse is the envelope every check-in API response is wrapped in.
// Data is kept raw so it can be cached before decoding.
type ApiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ApiError       `json:"error,omitempty"`
}

type ApiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
