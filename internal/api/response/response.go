package response

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes v with the given status. Payload types carry their own
// `success` field, so there is no extra envelope around them.
func JSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

func OK(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusOK, v)
}

func Accepted(w http.ResponseWriter, v any) {
	writeJSON(w, http.StatusAccepted, v)
}

// Error writes {"success": false, "error": message}.
func Error(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
