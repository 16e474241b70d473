package transport

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteEnvelope writes env with the status it carries.
func (h *BaseHandler) WriteEnvelope(w http.ResponseWriter, env envelope.Raw) {
	status := env.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.WriteJSON(w, status, env)
}

// WriteAppError renders a locally produced failure as an envelope.
func (h *BaseHandler) WriteAppError(w http.ResponseWriter, err *internal.AppError) {
	if err.StatusCode >= http.StatusInternalServerError {
		h.Logger.Error("http error", "status", err.StatusCode, "code", err.Code, "error", err)
	} else {
		h.Logger.Debug("request rejected", "status", err.StatusCode, "code", err.Code, "message", err.GetDetailedMessage())
	}
	h.WriteEnvelope(w, ErrorEnvelope(err))
}

// ErrorEnvelope converts an AppError into the failure variant.
func ErrorEnvelope(err *internal.AppError) envelope.Raw {
	return envelope.Fail[json.RawMessage](err.StatusCode, string(err.Code), err.GetDetailedMessage())
}

// WriteResult writes env, or appErr when the request was rejected before forwarding.
func (h *BaseHandler) WriteResult(w http.ResponseWriter, env envelope.Raw, appErr *internal.AppError) {
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, env)
}

// DecodeJSON reads a JSON body into dst. An empty body decodes to the zero value.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return internal.ErrInvalidBody.WithCause(err)
	}
	return nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// PathID reads a positive numeric id from the chi route.
func PathID(r *http.Request, name string) (int64, *internal.AppError) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.ErrInvalidID
	}
	return id, nil
}

// IsMultipart reports whether the request carries multipart form data.
func IsMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}
