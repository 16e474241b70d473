package product

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
)

type Service struct {
	upstream upstream.Forwarder
	logger   *slog.Logger
}

func NewService(fwd upstream.Forwarder, logger *slog.Logger) *Service {
	return &Service{
		upstream: fwd,
		logger:   logger,
	}
}

// List uses the paginated backend listing only when both page and size are given.
func (s *Service) List(ctx context.Context, query url.Values) envelope.Raw {
	req := upstream.Request{
		Route:  "productos.list",
		Method: http.MethodGet,
		Path:   "/productos",
		Messages: upstream.Messages{
			Success: "Productos obtenidos exitosamente",
			Failure: "Error al obtener productos del backend",
		},
	}
	if query.Has("page") && query.Has("size") {
		req.Path = "/productos/paginado"
		req.RawQuery = url.Values{
			"page": {query.Get("page")},
			"size": {query.Get("size")},
		}.Encode()
	}
	return s.upstream.Forward(ctx, req)
}

func (s *Service) Get(ctx context.Context, id int64) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "productos.get",
		Method: http.MethodGet,
		Path:   "/productos/" + strconv.FormatInt(id, 10),
		Messages: upstream.Messages{
			Success: "Producto obtenido exitosamente",
			Failure: "Error al obtener producto",
		},
	})
}

// Create rejects forms missing the inventory number or any catalog selector
// before contacting the backend.
func (s *Service) Create(ctx context.Context, form *Form) (envelope.Raw, *internal.AppError) {
	if missing := form.MissingRequired(); len(missing) > 0 {
		s.logger.Debug("product create rejected", "missing", strings.Join(missing, ","))
		return envelope.Raw{}, internal.ErrMissingFields.WithDetails(map[string][]string{"missing": missing})
	}
	return s.upstream.Forward(ctx, upstream.Request{
		Route:       "productos.create",
		Method:      http.MethodPost,
		Path:        "/productos",
		Body:        form.Payload,
		ContentType: form.ContentType,
		Messages: upstream.Messages{
			Success: "Producto creado exitosamente",
			Failure: "Error al crear producto",
		},
	}), nil
}

func (s *Service) Update(ctx context.Context, id int64, form *Form) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:       "productos.update",
		Method:      http.MethodPut,
		Path:        "/productos/" + strconv.FormatInt(id, 10),
		Body:        form.Payload,
		ContentType: form.ContentType,
		Messages: upstream.Messages{
			Success: "Producto actualizado exitosamente",
			Failure: "Error al actualizar producto",
		},
	})
}

// Retire ("baja") requires a non-blank motivo and deactivates the product upstream.
func (s *Service) Retire(ctx context.Context, id int64, dto BajaDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}
	req, err := upstream.JSON(http.MethodPatch, "/productos/"+strconv.FormatInt(id, 10)+"/desactivar", dto)
	if err != nil {
		return envelope.Raw{}, internal.NewInternalError("No se pudo preparar la solicitud", err)
	}
	req.Route = "productos.baja"
	req.Messages = upstream.Messages{
		Success: "Producto dado de baja exitosamente",
		Failure: "Error al dar de baja el producto",
	}
	return s.upstream.Forward(ctx, req), nil
}
