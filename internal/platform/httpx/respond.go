// Package httpx provides the JSON response envelope shared by all API handlers.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Envelope is the success wrapper every endpoint returns. Data is always
// emitted so an empty result serialises as data:[] rather than vanishing.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

// ErrorEnvelope is the failure wrapper; it carries a message and no data.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// JSON sends an arbitrary payload with the given status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK wraps data in a success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Fail sends a failure envelope with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorEnvelope{Success: false, Message: message})
}

// DecodeJSON decodes a JSON request body into the target struct.
func DecodeJSON(r *http.Request, target any) error {
	return json.NewDecoder(r.Body).Decode(target)
}
