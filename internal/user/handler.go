package user

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

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.WriteEnvelope(w, h.Service.List(r.Context()))
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Register(r.Context(), dto)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto UpdateDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Update(r.Context(), id, dto)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Activate(r.Context(), id))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Deactivate(r.Context(), id))
}
