package httpapi

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Data any `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Errors  any    `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeData answers {"data":{key:v}}.
func writeData(w http.ResponseWriter, status int, key string, v any) {
	writeJSON(w, status, envelope{Data: map[string]any{key: v}})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// writeInvalid answers 400 with per-field messages.
func writeInvalid(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Message: "Validation failed", Errors: fields})
}
