package stub_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal/auth"
	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/movement"
	"github.com/bodega-ag/inventory-gateway/internal/product"
	"github.com/bodega-ag/inventory-gateway/internal/stub"
	"github.com/bodega-ag/inventory-gateway/internal/transport"
	"github.com/bodega-ag/inventory-gateway/internal/transport/rest"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

type gatewayEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

var _ = Describe("Gateway in front of the stub backend", func() {
	var (
		backend *httptest.Server
		gateway *chi.Mux
	)

	BeforeEach(func() {
		db := openSeededDB()
		backend = httptest.NewServer(stub.New(db, testStubConfig(), discardLogger).Router())
		DeferCleanup(backend.Close)

		client := upstream.NewClient(upstream.Config{BaseURL: backend.URL + stub.APIPrefix}, discardLogger)
		base := transport.NewBaseHandler(discardLogger)
		gateway = chi.NewRouter()
		rest.RegisterAllRoutes(gateway, rest.Handlers{
			Auth:     auth.NewHandler(base, auth.NewService(client, discardLogger)),
			Catalog:  catalog.NewHandler(base, catalog.NewService(client, discardLogger)),
			Product:  product.NewHandler(base, product.NewService(client, discardLogger), 1<<20),
			Movement: movement.NewHandler(base, movement.NewService(client, discardLogger)),
			User:     user.NewHandler(base, user.NewService(client, discardLogger)),
		}, rest.Options{UpstreamURL: backend.URL}, discardLogger)
	})

	call := func(method, path, token, body string) (int, gatewayEnvelope) {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		gateway.ServeHTTP(w, req)

		var env gatewayEnvelope
		Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed(), w.Body.String())
		return w.Code, env
	}

	login := func(usuario, contrasena string) auth.LoginResult {
		status, env := call(http.MethodPost, "/login", "", `{"usuario":"`+usuario+`","contrasena":"`+contrasena+`"}`)
		Expect(status).To(Equal(http.StatusOK))
		var result auth.LoginResult
		Expect(json.Unmarshal(env.Data, &result)).To(Succeed())
		return result
	}

	It("logs in and reports the level", func() {
		result := login("operador", "operador123")
		Expect(result.Token).NotTo(BeEmpty())
		Expect(result.User).To(Equal(auth.SessionUser{Usuario: "operador", Nombre: "Operador de Almacén", Nivel: user.LevelPartial}))

		status, env := call(http.MethodGet, "/verify-level", result.Token, "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Data).To(MatchJSON(`{"nivel":2,"usuario":"operador","nombre":"Operador de Almacén"}`))
	})

	It("creates a catalog entry that shows up in the list and the history", func() {
		token := login("admin", "admin123").Token

		status, env := call(http.MethodPost, "/catalogues/area/create", token, `{"nombre":"Laboratorio"}`)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(env.Message).To(Equal("Área creada exitosamente"))

		_, env = call(http.MethodGet, "/catalogues/area", token, "")
		var areas []catalog.Entry
		Expect(json.Unmarshal(env.Data, &areas)).To(Succeed())
		Expect(areas).To(ContainElement(HaveField("Nombre", "Laboratorio")))

		_, env = call(http.MethodGet, "/movimientos?usuario=admin", token, "")
		var history []movement.Record
		Expect(json.Unmarshal(env.Data, &history)).To(Succeed())
		Expect(history).To(HaveLen(1))
		Expect(history[0].Accion).To(Equal(movement.ActionInsert))
		Expect(history[0].TablaAfectada).To(Equal("areas"))
	})

	It("turns the backend's 204 and text bodies into envelopes", func() {
		token := login("admin", "admin123").Token

		status, env := call(http.MethodPatch, "/usuarios/2/deactivate", token, "")
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Success).To(BeTrue())
		Expect(env.Data).To(MatchJSON(`{"message":"Usuario desactivado exitosamente"}`))
	})

	It("restricts the user list for Partial operators", func() {
		token := login("operador", "operador123").Token

		status, env := call(http.MethodGet, "/usuarios", token, "")
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(env.Code).To(Equal("ACCESS_RESTRICTED"))
		Expect(env.Message).To(Equal("Acceso denegado"))
	})

	It("retires a product created through the gateway", func() {
		token := login("operador", "operador123").Token

		status, env := call(http.MethodPost, "/productos/create", token,
			`{"noInv":"INV-77","noSerie":null,"idArea":1,"idCategoria":1,"idMarca":2,"idEstado":1}`)
		Expect(status).To(Equal(http.StatusCreated), env.Message)
		var created product.Product
		Expect(json.Unmarshal(env.Data, &created)).To(Succeed())
		Expect(created.NoSerie.String()).To(Equal("N/A"))
		Expect(created.Marca.Nombre).To(Equal("HP"))

		status, env = call(http.MethodPatch, "/productos/1/baja", token, `{"motivo":"Obsoleto"}`)
		Expect(status).To(Equal(http.StatusOK))
		Expect(env.Message).To(Equal("Producto dado de baja exitosamente"))

		_, env = call(http.MethodGet, "/productos", token, "")
		Expect(env.Data).To(MatchJSON(`[]`))
	})

	It("relays the backend's invalid-token answer", func() {
		status, env := call(http.MethodGet, "/productos", "not-a-jwt", "")
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(env.Code).To(Equal("UPSTREAM_UNAUTHORIZED"))
		Expect(env.Message).To(Equal("Token inválido"))
	})
})
