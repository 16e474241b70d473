package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
)

var ErrInvalidLoginResponse = internal.NewUpstreamError(http.StatusBadGateway, "Respuesta de autenticación inválida", internal.ErrCodeUpstreamInvalid)

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

// Authenticate exchanges credentials for a token. It is the only relayed call
// made without a bearer credential.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (envelope.Raw, *internal.AppError) {
	if appErr := dto.Validate(); appErr != nil {
		return envelope.Raw{}, appErr
	}

	req, err := upstream.JSON(http.MethodPost, "/auth/login", dto)
	if err != nil {
		return envelope.Raw{}, internal.NewInternalError("No se pudo preparar la solicitud", err)
	}
	req.Route = "auth.login"
	req.Messages = upstream.Messages{
		Success: "Inicio de sesión exitoso",
		Failure: "Error de autenticación",
	}

	env := s.upstream.Forward(ctx, req)
	if env.Failed() {
		return env, nil
	}

	decoded, err := envelope.Decode[backendLogin](env)
	if err != nil || decoded.Data == nil || decoded.Data.Token == "" {
		s.logger.Error("login: backend answered without a token", "usuario", dto.Usuario, "error", err)
		return envelope.Raw{}, ErrInvalidLoginResponse
	}

	s.logger.Info("login succeeded", "usuario", dto.Usuario)
	return reencode(env.Status, decoded.Data.toResult(dto.Usuario), env.Message)
}

// VerifyLevel asks the backend who the presented token belongs to.
func (s *Service) VerifyLevel(ctx context.Context) (envelope.Raw, *internal.AppError) {
	env := s.upstream.Forward(ctx, upstream.Request{
		Route:  "auth.verify",
		Method: http.MethodGet,
		Path:   "/auth/verify",
		Messages: upstream.Messages{
			Success: "Nivel de acceso verificado",
			Failure: "Error al verificar el nivel de acceso",
		},
	})
	if env.Failed() {
		return env, nil
	}

	decoded, err := envelope.Decode[LevelInfo](env)
	if err != nil || decoded.Data == nil {
		return envelope.Raw{}, internal.NewUpstreamError(http.StatusBadGateway, "Error al verificar el nivel de acceso", internal.ErrCodeUpstreamInvalid)
	}
	return reencode(env.Status, *decoded.Data, env.Message)
}

func reencode(status int, v interface{}, message string) (envelope.Raw, *internal.AppError) {
	b, err := json.Marshal(v)
	if err != nil {
		return envelope.Raw{}, internal.NewInternalError("No se pudo preparar la respuesta", err)
	}
	return envelope.OK(status, json.RawMessage(b), message), nil
}
