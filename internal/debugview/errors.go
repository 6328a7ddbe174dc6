// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package debugview

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ManuGH/sampleplayer/internal/domain/playback/session"
	"github.com/ManuGH/sampleplayer/internal/log"
)

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Detail    string `json:"detail,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.L().Error().Err(err).Int("status", code).Msg("failed to encode JSON response")
	}
}

func writeProblem(w http.ResponseWriter, r *http.Request, status int, code, title string, detail ...string) {
	p := Problem{
		Type:      "error/" + strings.ToLower(code),
		Title:     title,
		Status:    status,
		Code:      code,
		RequestID: log.CorrelationIDFromContext(r.Context()),
	}
	if len(detail) > 0 {
		p.Detail = detail[0]
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(p)
}

// writeSessionError maps session errors onto HTTP statuses. Anything not
// recognised is reported with fallback.
func writeSessionError(w http.ResponseWriter, r *http.Request, err error, fallback int) {
	switch {
	case errors.Is(err, session.ErrReleased):
		writeProblem(w, r, http.StatusGone, "SESSION_RELEASED", "Session released", err.Error())
	case errors.Is(err, session.ErrInvalidState):
		writeProblem(w, r, http.StatusConflict, "INVALID_STATE", "Operation not allowed in the current state", err.Error())
	case fallback >= http.StatusInternalServerError:
		logger := log.WithComponentFromContext(r.Context(), "debugview")
		logger.Error().Err(err).
			Str(log.FieldPath, r.URL.Path).Msg("debug request failed")
		writeProblem(w, r, fallback, "INTERNAL", "Request failed")
	default:
		writeProblem(w, r, fallback, "BAD_REQUEST", "Request rejected", err.Error())
	}
}
