package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/templui/goaltracker/internal/pipeline"
	"github.com/templui/goaltracker/internal/validation"
)

const maxBodyBytes = 1 << 20 // 1MB

type errorResponse struct {
	Error  string   `json:"error"`
	Errors []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, errs ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Errors: errs})
}

// writeResult reports a rejected goal request with a status that matches the
// stage that stopped the chain.
func writeResult(w http.ResponseWriter, result pipeline.Result) {
	status := http.StatusBadRequest
	switch result.Stage {
	case pipeline.StageValidation:
		status = http.StatusUnprocessableEntity
	case pipeline.StageBusinessRule:
		status = http.StatusConflict
	case pipeline.StageAuthorization:
		status = http.StatusForbidden
	}
	writeJSON(w, status, result)
}

// decode reads a JSON body into dst and checks its struct tags. It writes the
// error response itself and reports whether the handler may continue.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		slog.Debug("failed to decode request body", "error", err, "path", r.URL.Path)
		msg := "invalid request payload"
		if errors.Is(err, io.EOF) {
			msg = "request body is required"
		}
		writeError(w, http.StatusBadRequest, msg)
		return false
	}

	if errs := validation.ValidateRequest(dst); len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid request payload", errs...)
		return false
	}

	return true
}
