// Package upstream relays gateway requests to the inventory REST backend and
// normalises whatever comes back into an envelope.
package upstream

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

// Observer is notified once per upstream call. Status 0 means the upstream was
// never reached.
type Observer interface {
	ObserveUpstream(route string, status int, elapsed time.Duration)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Observer   Observer
}

func NewClient(config Config, log *slog.Logger) *Client {
	httpClient := config.HTTPClient
	if httpClient == nil {
		// no timeout: an in-flight call runs to completion
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.LoggerWrapper()
	}
	return &Client{
		baseURL:    config.BaseURL,
		httpClient: httpClient,
		observer:   config.Observer,
		logger:     log,
	}
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Forward performs exactly one upstream call and never returns an error: every
// outcome, including transport failure, is expressed as an envelope. Without an
// explicit Authorization the header accepted by the token gate is relayed.
func (c *Client) Forward(ctx context.Context, req Request) envelope.Raw {
	start := time.Now()
	status, body, err := c.do(ctx, req)
	elapsed := time.Since(start)

	if c.observer != nil {
		c.observer.ObserveUpstream(req.routeLabel(), status, elapsed)
	}

	log := logger.From(ctx)
	if err != nil {
		log.Error("upstream unreachable",
			"route", req.routeLabel(),
			"method", req.method(),
			"path", req.Path,
			"error", err,
			"duration_ms", elapsed.Milliseconds())
		return Unreachable(req.Messages)
	}

	env := Normalize(status, body, req.Messages)
	if env.Failed() {
		log.Warn("upstream returned error",
			"route", req.routeLabel(),
			"status", status,
			"code", env.Code,
			"duration_ms", elapsed.Milliseconds())
	} else {
		log.Debug("upstream call completed",
			"route", req.routeLabel(),
			"status", status,
			"duration_ms", elapsed.Milliseconds())
	}
	return env
}

func (c *Client) do(ctx context.Context, req Request) (int, []byte, error) {
	// the client going away does not abort the backend call
	ctx = context.WithoutCancel(ctx)

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method(), req.url(c.baseURL), body)
	if err != nil {
		return 0, nil, err
	}
	if req.ContentType != "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	authorization := req.Authorization
	if authorization == "" {
		authorization = internal.AuthorizationFromContext(ctx)
	}
	if authorization != "" {
		httpReq.Header.Set("Authorization", authorization)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		httpReq.Header.Set("X-Request-Id", reqID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, payload, nil
}
