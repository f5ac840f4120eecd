package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yotome/rag-assistant/internal/adapter"
	"github.com/yotome/rag-assistant/internal/config"
	ragmodel "github.com/yotome/rag-assistant/internal/domain/ragModel"
)

func (h *Handler) writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		h.logger.Error("failed writing response body", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, httpCode int, errText string, detail string) {
	h.writeJsonResponse(w, httpCode, adapter.ErrorBody(httpCode, errText, detail))
}

// writeDomainError maps the error taxonomy onto status codes: caller
// mistakes get 400, everything else is a 500.
func (h *Handler) writeDomainError(w http.ResponseWriter, err error) {
	var vErr *ragmodel.ValidationError
	if errors.As(err, &vErr) {
		h.writeError(w, http.StatusBadRequest, "Bad Request", vErr.Msg)
		return
	}
	h.logger.Error("request failed", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal Server Error", "")
}

func (h *Handler) validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		h.logger.Warn("context error", "error", ctx.Err())
		return false
	}

	select {
	case <-ctx.Done():
		h.logger.Warn("context cancelled")
		return false
	default:
		return true
	}
}

func traceOf(ctx context.Context) string {
	if v, ok := ctx.Value(config.TRACE_ID_KEY).(string); ok {
		return v
	}
	return ""
}
