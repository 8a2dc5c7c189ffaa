package utils

import (
	"encoding/json"
	"log"
	"net/http"

	"rental-backend/internal/apperr"
)

// Envelope is the shape of every JSON response body
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("[HTTP] Failed to encode response: %v", err)
	}
}

// Success writes {success:true, data}
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Success: true, Data: data})
}

// SuccessMessage writes {success:true, message, data}
func SuccessMessage(w http.ResponseWriter, status int, message string, data any) {
	JSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

// Fail writes {success:false, message} with an explicit status
func Fail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Message: message})
}

// Error maps err to a status via apperr and writes the failure envelope.
// Unexpected errors are logged here and reach the client as a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	Fail(w, status, msg)
}
