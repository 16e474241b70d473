package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/transport"
	"github.com/bodega-ag/inventory-gateway/pkg/logger"
)

// RejectionCounter is told about every request stopped for lack of a credential.
type RejectionCounter interface {
	AuthMissing(method string)
}

// TokenGate requires "Authorization: Bearer <token>" with a non-empty token and
// stores the header, untouched, in the request context for forwarding. The
// token is never parsed here.
func TokenGate(counter RejectionCounter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if transport.ExtractTokenFromHeader(r) == "" {
				logger.From(r.Context()).Warn("token gate: missing bearer credential",
					"method", r.Method,
					"path", r.URL.Path)
				if counter != nil {
					counter.AuthMissing(r.Method)
				}
				writeAuthMissing(w)
				return
			}

			ctx := internal.ContextWithAuthorization(r.Context(), r.Header.Get("Authorization"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeAuthMissing(w http.ResponseWriter) {
	env := envelope.Fail[json.RawMessage](http.StatusUnauthorized, string(internal.ErrAuthMissing.Code), internal.ErrAuthMissing.Message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(env)
}
