package http

import (
	"encoding/json"
	"net/http"
)

// Response helpers. Errors and the banner go out as plain text; the route
// list and the health probe are JSON.

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		respondText(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

// respondText sends a plain-text response
func respondText(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	_, _ = w.Write([]byte(message))
}

// respondEmpty sends a status with no body
func respondEmpty(w http.ResponseWriter, statusCode int) {
	w.WriteHeader(statusCode)
}
