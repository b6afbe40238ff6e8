package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ytget/yt-downloader-api/internal/download"
	"github.com/ytget/yt-downloader-api/internal/model"
)

// Error codes of the JSON error envelope
const (
	CodeBadRequest       = "BadRequest"
	CodeNotFound         = "NotFound"
	CodeExtractionFailed = "ExtractionFailed"
	CodeUnavailable      = "ServiceUnavailable"
	CodeInternal         = "InternalError"
)

// ErrorRsp is the JSON body of every error response
type ErrorRsp struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

// writeJSON encodes data as a JSON object and writes it back to the client
func writeJSON(w http.ResponseWriter, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("failed to write response", "error", err)
	}
}

// writeJSONError encodes an error message as a JSON object and writes it back to the client
func writeJSONError(w http.ResponseWriter, code, msg string, status int) {
	writeJSON(w, ErrorRsp{Code: code, Msg: msg}, status)
}

// writeError maps a domain error to its status code and error envelope
func writeError(w http.ResponseWriter, err error) {
	var extractErr *model.ExtractionError
	switch {
	case errors.Is(err, model.ErrInvalidRequest):
		writeJSONError(w, CodeBadRequest, err.Error(), http.StatusBadRequest)
	case errors.As(err, &extractErr):
		writeJSONError(w, CodeExtractionFailed, err.Error(), http.StatusBadGateway)
	case errors.Is(err, model.ErrJobNotFound), errors.Is(err, model.ErrFileNotFound):
		writeJSONError(w, CodeNotFound, err.Error(), http.StatusNotFound)
	case errors.Is(err, download.ErrServiceClosed):
		writeJSONError(w, CodeUnavailable, err.Error(), http.StatusServiceUnavailable)
	default:
		writeJSONError(w, CodeInternal, "internal error", http.StatusInternalServerError)
	}
}
