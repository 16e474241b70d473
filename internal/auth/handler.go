package auth

import (
	"net/http"

	"github.com/bodega-ag/inventory-gateway/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Authenticate(r.Context(), dto)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) VerifyLevel(w http.ResponseWriter, r *http.Request) {
	env, appErr := h.Service.VerifyLevel(r.Context())
	h.WriteResult(w, env, appErr)
}
