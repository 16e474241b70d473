package upstream

import (
	"context"

	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
)

// Forwarder is what feature services depend on; *Client implements it.
type Forwarder interface {
	Forward(ctx context.Context, req Request) envelope.Raw
}

var _ Forwarder = (*Client)(nil)
