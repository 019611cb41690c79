package render

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type messageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, messageResponse{Message: msg})
}

// InternalError logs err and answers with a generic 500 body.
func InternalError(w http.ResponseWriter, r *http.Request, err error) {
	InternalErrorMessage(w, r, err, "Internal server error")
}

// InternalErrorMessage is InternalError with a custom client-facing message.
func InternalErrorMessage(w http.ResponseWriter, r *http.Request, err error, msg string) {
	slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	Message(w, http.StatusInternalServerError, msg)
}

// Decode reads a JSON body into v, answering 400 on malformed input.
// It reports whether the handler should continue.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Message(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	return true
}
