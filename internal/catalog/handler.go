package catalog

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/bodega-ag/inventory-gateway/internal"
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

func (h *Handler) kind(w http.ResponseWriter, r *http.Request) (Kind, bool) {
	k, ok := Lookup(chi.URLParam(r, "kind"))
	if !ok {
		h.WriteAppError(w, internal.ErrUnknownCatalog)
	}
	return k, ok
}

func (h *Handler) ListActive(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	h.WriteEnvelope(w, h.Service.ListActive(r.Context(), k))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	var dto EntryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Create(r.Context(), k, dto)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto EntryDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Update(r.Context(), k, id, dto)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) Activate(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Activate(r.Context(), k, id))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	k, ok := h.kind(w, r)
	if !ok {
		return
	}
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Deactivate(r.Context(), k, id))
}
