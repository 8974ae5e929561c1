package controllers

import (
	"checkinboard/internal/api"
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
)

const maxRequestBodySize = 1 << 16 // 64 KB

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

// writeUpstreamError maps a check-in API failure onto a response. A 4xx from
// the API is passed through, everything else is a bad gateway.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		status := http.StatusBadGateway
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			status = apiErr.Status
		}
		code := apiErr.Code
		if code == "" {
			code = "UPSTREAM_ERROR"
		}
		writeError(w, status, code, apiErr.Error())
		return
	}
	if errors.Is(err, api.ErrUnreachable) {
		writeError(w, http.StatusBadGateway, "UPSTREAM_UNREACHABLE", err.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "UPSTREAM_ERROR", err.Error())
}
