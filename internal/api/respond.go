package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// errorBody is the error shape of the read API.
type errorBody struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
}

// writeJSON encodes data before touching the response, so an encode failure
// still surfaces as a clean 500 instead of a half-written body.
func writeJSON(w http.ResponseWriter, log zerolog.Logger, statusCode int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("cannot encode response body")
		writeError(w, http.StatusInternalServerError, "response encoding failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	// errorBody always marshals
	body, _ := json.Marshal(errorBody{
		Error:   http.StatusText(statusCode),
		Code:    statusCode,
		Message: message,
	})

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(body)
}
