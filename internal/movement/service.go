package movement

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

// List relays the query string untouched; filters such as usuario and fecha
// are interpreted by the backend only.
func (s *Service) List(ctx context.Context, rawQuery string) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:    "movimientos.list",
		Method:   http.MethodGet,
		Path:     "/movimientos",
		RawQuery: rawQuery,
		Messages: upstream.Messages{
			Success: "Movimientos obtenidos exitosamente",
			Failure: "Error al obtener movimientos",
		},
	})
}

func (s *Service) Get(ctx context.Context, id int64) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "movimientos.get",
		Method: http.MethodGet,
		Path:   "/movimientos/" + strconv.FormatInt(id, 10),
		Messages: upstream.Messages{
			Success: "Movimiento obtenido exitosamente",
			Failure: "Error al obtener el movimiento",
		},
	})
}
