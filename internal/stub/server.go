// Package stub is a development stand-in for the inventory REST backend. It
// serves the upstream paths the gateway relays to, backed by gorm.
package stub

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"gorm.io/gorm"

	"github.com/bodega-ag/inventory-gateway/internal"
	catalogPostgres "github.com/bodega-ag/inventory-gateway/internal/catalog/postgres"
	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
	"github.com/bodega-ag/inventory-gateway/internal/core/events"
	movementPostgres "github.com/bodega-ag/inventory-gateway/internal/movement/postgres"
	productPostgres "github.com/bodega-ag/inventory-gateway/internal/product/postgres"
	"github.com/bodega-ag/inventory-gateway/internal/user"
	userPostgres "github.com/bodega-ag/inventory-gateway/internal/user/postgres"
)

// APIPrefix is the path the backend serves under; gateway base URLs end with it.
const APIPrefix = "/api"

type Server struct {
	catalogs   *catalogPostgres.CatalogRepository
	products   *productPostgres.ProductRepository
	users      *userPostgres.UserRepository
	movements  *movementPostgres.MovementRepository
	tokens     *TokenIssuer
	bus        *events.EventBus
	bcryptCost int
	logger     *slog.Logger
}

func NewServer(db *gorm.DB, cfg internal.StubConfig, bus *events.EventBus, logger *slog.Logger) *Server {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = internal.DefaultStubTokenTTL
	}
	return &Server{
		catalogs:   catalogPostgres.NewCatalogRepository(db),
		products:   productPostgres.NewProductRepository(db),
		users:      userPostgres.NewUserRepository(db),
		movements:  movementPostgres.NewMovementRepository(db),
		tokens:     NewTokenIssuer(cfg.JWTSecret, ttl),
		bus:        bus,
		bcryptCost: cfg.BCryptCost,
		logger:     logger,
	}
}

// New wires a server whose record changes land in the movement history.
func New(db *gorm.DB, cfg internal.StubConfig, logger *slog.Logger) *Server {
	bus := events.NewEventBus(logger)
	NewAuditRecorder(movementPostgres.NewMovementRepository(db), logger).RegisterEventHandlers(bus)
	return NewServer(db, cfg, bus, logger)
}

// Router mounts every backend path under APIPrefix.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Route(APIPrefix, func(r chi.Router) {
		r.Post("/auth/login", s.login)

		r.Group(func(r chi.Router) {
			r.Use(s.authenticate)

			r.Get("/auth/verify", s.verify)

			s.catalogRoutes(r)

			r.Route("/productos", func(r chi.Router) {
				r.Get("/", s.listProducts)
				r.Get("/paginado", s.pageProducts)
				r.Post("/", s.createProduct)
				r.Get("/{id}", s.getProduct)
				r.Put("/{id}", s.updateProduct)
				r.Patch("/{id}/desactivar", s.retireProduct)
			})

			r.Get("/movimientos", s.listMovements)
			r.Get("/movimientos/{id}", s.getMovement)

			r.Group(func(r chi.Router) {
				r.Use(requireTotal)
				r.Post("/auth/registro", s.register)
				r.Get("/usuarios", s.listUsers)
				r.Put("/usuarios/{id}", s.updateUser)
				r.Patch("/usuarios/{id}/activar", s.setUserActive(true))
				r.Patch("/usuarios/{id}/desactivar", s.setUserActive(false))
			})
		})
	})
	return r
}

type ctxKey string

const actorKey ctxKey = "actor"

func actorFrom(ctx context.Context) *userDatamodel.Usuario {
	u, _ := ctx.Value(actorKey).(*userDatamodel.Usuario)
	return u
}

func actorID(ctx context.Context) int64 {
	if u := actorFrom(ctx); u != nil {
		return u.ID
	}
	return 0
}

// authenticate resolves the bearer token to an active user.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
			writeMessage(w, http.StatusUnauthorized, "Token requerido")
			return
		}
		claims, err := s.tokens.Parse(strings.TrimSpace(header[7:]))
		if err != nil {
			msg := "Token inválido"
			if errors.Is(err, ErrTokenExpired) {
				msg = "Token expirado"
			}
			writeMessage(w, http.StatusUnauthorized, msg)
			return
		}
		u, err := s.users.GetByID(claims.UserID)
		if err != nil {
			s.internalError(w, "authenticate", err)
			return
		}
		if u == nil || !u.Activo {
			writeMessage(w, http.StatusUnauthorized, "Usuario inactivo")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), actorKey, u)))
	})
}

// requireTotal answers 403 to Partial users; the body uses the "error" key.
func requireTotal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := actorFrom(r.Context()); u == nil || user.AccessLevel(u.Nivel) != user.LevelTotal {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "Acceso denegado"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) record(ctx context.Context, eventType, table string, recordID int64, details string) {
	ev := events.NewRecordChangedEvent(eventType, table, recordID, actorID(ctx), details)
	if err := s.bus.PublishSync(ctx, ev); err != nil {
		s.logger.Error("audit record failed", "table", table, "record_id", recordID, "error", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, op string, err error) {
	s.logger.Error("stub: "+op+" failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Error interno")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(text))
}

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decode(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
