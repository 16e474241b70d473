package catalog

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

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

func (s *Service) ListActive(ctx context.Context, k Kind) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "catalog.list." + k.Slug,
		Method: http.MethodGet,
		Path:   k.ActivePath(),
		Messages: upstream.Messages{
			Success: k.ListSuccessMessage(),
			Failure: k.ListFailureMessage(),
		},
	})
}

func (s *Service) Create(ctx context.Context, k Kind, dto EntryDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}
	return s.send(ctx, "catalog.create."+k.Slug, http.MethodPost, k.CollectionPath(), dto.Body(k, 0), upstream.Messages{
		Success: k.SuccessMessage("cread"),
		Failure: k.FailureMessage("crear"),
	})
}

func (s *Service) Update(ctx context.Context, k Kind, id int64, dto EntryDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}
	return s.send(ctx, "catalog.update."+k.Slug, http.MethodPut, k.ItemPath(strconv.FormatInt(id, 10)), dto.Body(k, id), upstream.Messages{
		Success: k.SuccessMessage("actualizad"),
		Failure: k.FailureMessage("actualizar"),
	})
}

func (s *Service) Activate(ctx context.Context, k Kind, id int64) envelope.Raw {
	return s.toggle(ctx, k, id, "activar", "activad", "activate")
}

func (s *Service) Deactivate(ctx context.Context, k Kind, id int64) envelope.Raw {
	return s.toggle(ctx, k, id, "desactivar", "desactivad", "deactivate")
}

func (s *Service) toggle(ctx context.Context, k Kind, id int64, verb, stem, route string) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "catalog." + route + "." + k.Slug,
		Method: http.MethodPatch,
		Path:   k.ItemPath(strconv.FormatInt(id, 10)) + "/" + verb,
		Messages: upstream.Messages{
			Success: k.SuccessMessage(stem),
			Failure: k.FailureMessage(verb),
		},
	})
}

func (s *Service) send(ctx context.Context, route, method, path string, body interface{}, msgs upstream.Messages) (envelope.Raw, *internal.AppError) {
	req, err := upstream.JSON(method, path, body)
	if err != nil {
		s.logger.Error("catalog: failed to encode body", "route", route, "error", err)
		return envelope.Raw{}, internal.NewInternalError("No se pudo preparar la solicitud", err)
	}
	req.Route = route
	req.Messages = msgs
	return s.upstream.Forward(ctx, req), nil
}
