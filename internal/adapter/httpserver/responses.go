// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the chat and job-fit endpoints and maps domain errors to
// status codes and client-safe messages.
package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fairyhunter13/ai-portfolio-assistant/internal/domain"
)

// Client-visible messages for 500-class failures.
const (
	MsgUpstreamUnavailable = "AI service temporarily unavailable"
	MsgInternal            = "An error occurred processing your request"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and a sanitized message. Validation
// failures keep their precise text; everything else is logged in full and
// answered generically.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	msg := MsgInternal
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		msg = "Invalid request"
		var ve ValidationError
		if errors.As(err, &ve) {
			msg = ve.Message
		}
	case errors.Is(err, domain.ErrMisconfigured), errors.Is(err, domain.ErrUpstreamUnavailable):
		msg = MsgUpstreamUnavailable
	}

	lg := LoggerFrom(r)
	if code >= http.StatusInternalServerError {
		lg.Error("request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	} else {
		lg.Info("request rejected", slog.String("path", r.URL.Path), slog.String("reason", msg))
	}
	writeJSON(w, code, errorBody{Error: msg})
}

// writeStatus answers with a fixed status and message that need no mapping.
func writeStatus(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}
