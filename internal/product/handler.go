package product

import (
	"net/http"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service     *Service
	UploadLimit int64
}

func NewHandler(baseHandler *transport.BaseHandler, service *Service, uploadLimit int64) *Handler {
	if uploadLimit <= 0 {
		uploadLimit = internal.DefaultMaxUploadBytes
	}
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
		UploadLimit: uploadLimit,
	}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.WriteEnvelope(w, h.Service.List(r.Context(), r.URL.Query()))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Get(r.Context(), id))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, appErr := ReadForm(r, h.UploadLimit)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Create(r.Context(), form)
	h.WriteResult(w, env, appErr)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	form, appErr := ReadForm(r, h.UploadLimit)
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Update(r.Context(), id, form))
}

func (h *Handler) Retire(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	var dto BajaDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	env, appErr := h.Service.Retire(r.Context(), id, dto)
	h.WriteResult(w, env, appErr)
}
