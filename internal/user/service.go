package user

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

// List is restricted to Total callers by the backend; its 403 comes back with
// the ACCESS_RESTRICTED code.
func (s *Service) List(ctx context.Context) envelope.Raw {
	env := s.upstream.Forward(ctx, upstream.Request{
		Route:  "usuarios.list",
		Method: http.MethodGet,
		Path:   "/usuarios",
		Messages: upstream.Messages{
			Success: "Usuarios obtenidos exitosamente",
			Failure: "Error al obtener los usuarios",
		},
	})
	if env.Forbidden() {
		s.logger.Info("user listing refused by backend")
	}
	return env
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}
	return s.send(ctx, "usuarios.registro", http.MethodPost, "/auth/registro", dto, upstream.Messages{
		Success: "Usuario creado exitosamente",
		Failure: "Error al crear el usuario",
	})
}

func (s *Service) Update(ctx context.Context, id int64, dto UpdateDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}
	return s.send(ctx, "usuarios.update", http.MethodPut, "/usuarios/"+strconv.FormatInt(id, 10), dto, upstream.Messages{
		Success: "Usuario actualizado exitosamente",
		Failure: "Error al actualizar el usuario",
	})
}

func (s *Service) Activate(ctx context.Context, id int64) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "usuarios.activate",
		Method: http.MethodPatch,
		Path:   "/usuarios/" + strconv.FormatInt(id, 10) + "/activar",
		Messages: upstream.Messages{
			Success: "Usuario activado exitosamente",
			Failure: "Error al activar el usuario",
		},
	})
}

func (s *Service) Deactivate(ctx context.Context, id int64) envelope.Raw {
	return s.upstream.Forward(ctx, upstream.Request{
		Route:  "usuarios.deactivate",
		Method: http.MethodPatch,
		Path:   "/usuarios/" + strconv.FormatInt(id, 10) + "/desactivar",
		Messages: upstream.Messages{
			Success: "Usuario desactivado exitosamente",
			Failure: "Error al desactivar el usuario",
		},
	})
}

func (s *Service) send(ctx context.Context, route, method, path string, body interface{}, msgs upstream.Messages) (envelope.Raw, *internal.AppError) {
	req, err := upstream.JSON(method, path, body)
	if err != nil {
		s.logger.Error("user: failed to encode body", "route", route, "error", err)
		return envelope.Raw{}, internal.NewInternalError("No se pudo preparar la solicitud", err)
	}
	req.Route = route
	req.Messages = msgs
	return s.upstream.Forward(ctx, req), nil
}
