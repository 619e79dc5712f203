package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorsResponse is the body of every failed request.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// WriteJSON writes v as the JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The header is already sent so the best we can do is to log it.
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteErrors writes msgs as an ErrorsResponse with the given status.
func WriteErrors(w http.ResponseWriter, status int, msgs ...string) {
	if msgs == nil {
		msgs = []string{}
	}

	WriteJSON(w, status, ErrorsResponse{Errors: msgs})
}

// Healthz answers 200 for as long as the process is able to serve requests.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
