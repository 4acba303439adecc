package util

import (
	"encoding/json"
	"net/http"

	"ride-entitlement/internal/shared/apperrors"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ResponseInJson(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Envelope{Success: true, Message: message, Data: data})
}

func ErrResponseInJson(w http.ResponseWriter, err error) {
	statusCode := apperrors.StatusCode(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(Envelope{Success: false, Message: err.Error()})
}
