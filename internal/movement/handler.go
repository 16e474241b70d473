package movement

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
	h.WriteEnvelope(w, h.Service.List(r.Context(), r.URL.RawQuery))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, appErr := transport.PathID(r, "id")
	if appErr != nil {
		h.WriteAppError(w, appErr)
		return
	}
	h.WriteEnvelope(w, h.Service.Get(r.Context(), id))
}
