package console_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/console"
	"github.com/bodega-ag/inventory-gateway/internal/product"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

var _ = Describe("Client", func() {
	var (
		gateway  *httptest.Server
		store    *console.MemoryStore
		client   *console.Client
		lastAuth string
		lastReq  *http.Request
		lastBody string
		handler  http.HandlerFunc
	)

	writeEnvelope := func(w http.ResponseWriter, status int, body string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}

	BeforeEach(func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":[]}`)
		}
		gateway = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastAuth = r.Header.Get("Authorization")
			lastReq = r
			b, _ := io.ReadAll(r.Body)
			lastBody = string(b)
			handler(w, r)
		}))
		store = console.NewMemoryStore()
		client = console.NewClient(gateway.URL+"/", store, nil)
	})

	AfterEach(func() {
		gateway.Close()
	})

	It("stores the session after login without sending a token", func() {
		Expect(store.Save(console.Session{Token: "old"})).To(Succeed())
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"token":"jwt","user":{"usuario":"ana","nombre":"Ana","nivel":1}}}`)
		}

		session, err := client.Login(context.Background(), "ana", "secreta")

		Expect(err).NotTo(HaveOccurred())
		Expect(lastAuth).To(BeEmpty())
		Expect(lastReq.URL.Path).To(Equal("/login"))
		Expect(session).To(Equal(console.Session{Token: "jwt", Username: "ana", DisplayName: "Ana", AccessLevel: user.LevelTotal}))
		stored, _ := store.Load()
		Expect(stored).To(Equal(session))
	})

	It("leaves the session untouched when login fails", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusUnauthorized, `{"success":false,"message":"Usuario o contraseña incorrectos","code":"UPSTREAM_UNAUTHORIZED"}`)
		}

		_, err := client.Login(context.Background(), "ana", "mala")

		var remote *console.RemoteError
		Expect(errors.As(err, &remote)).To(BeTrue())
		Expect(remote.Status).To(Equal(http.StatusUnauthorized))
		Expect(err).To(MatchError("Usuario o contraseña incorrectos"))
		stored, _ := store.Load()
		Expect(stored.Empty()).To(BeTrue())
	})

	It("sends the stored token as a bearer credential", func() {
		Expect(store.Save(console.Session{Token: "tok"})).To(Succeed())
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":[{"idArea":1,"nombre":"Dirección","activo":true}]}`)
		}

		entries, err := client.ListCatalog(context.Background(), catalog.Area)

		Expect(err).NotTo(HaveOccurred())
		Expect(lastAuth).To(Equal("Bearer tok"))
		Expect(lastReq.URL.Path).To(Equal("/catalogues/area"))
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].ID).To(Equal(int64(1)))
		Expect(entries[0].Nombre).To(Equal("Dirección"))
	})

	It("turns a 403 into ErrAccessRestricted", func() {
		Expect(store.Save(console.Session{Token: "tok"})).To(Succeed())
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusForbidden, `{"success":false,"message":"No tiene permisos para acceder a este recurso","code":"ACCESS_RESTRICTED"}`)
		}

		_, err := client.ListUsers(context.Background())

		Expect(errors.Is(err, console.ErrAccessRestricted)).To(BeTrue())
	})

	It("does not confuse other failures with access restriction", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusBadGateway, `{"success":false,"message":"Error al obtener movimientos","code":"UPSTREAM_UNREACHABLE"}`)
		}

		_, err := client.ListMovements(context.Background(), console.MovementFilter{Usuario: "ana", Fecha: "2026-10-01"})

		Expect(err).To(MatchError("Error al obtener movimientos"))
		Expect(errors.Is(err, console.ErrAccessRestricted)).To(BeFalse())
		Expect(lastReq.URL.Query().Get("usuario")).To(Equal("ana"))
		Expect(lastReq.URL.Query().Get("fecha")).To(Equal("2026-10-01"))
	})

	It("sends the baja reason as JSON", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, `{"success":true,"data":{"message":"Producto dado de baja exitosamente"},"message":"Producto dado de baja exitosamente"}`)
		}

		msg, err := client.RetireProduct(context.Background(), 7, "Obsoleto")

		Expect(err).NotTo(HaveOccurred())
		Expect(msg).To(Equal("Producto dado de baja exitosamente"))
		Expect(lastReq.Method).To(Equal(http.MethodPatch))
		Expect(lastReq.URL.Path).To(Equal("/productos/7/baja"))
		Expect(lastBody).To(MatchJSON(`{"motivo":"Obsoleto"}`))
	})

	It("posts products as multipart with empty optional fields", func() {
		var fields map[string][]string
		handler = func(w http.ResponseWriter, r *http.Request) {
			defer GinkgoRecover()
			lastReq.Body = io.NopCloser(strings.NewReader(lastBody))
			if err := lastReq.ParseMultipartForm(1 << 20); err == nil {
				fields = lastReq.MultipartForm.Value
			}
			writeEnvelope(w, http.StatusCreated, `{"success":true,"data":{"idProducto":9}}`)
		}

		_, err := client.CreateProduct(context.Background(), console.ProductInput{
			NoInv:       "INV-9",
			NoSerie:     product.NotApplicable(),
			Modelo:      product.Some("Optiplex"),
			IDArea:      1,
			IDCategoria: 2,
			IDMarca:     3,
			IDEstado:    4,
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(strings.HasPrefix(lastReq.Header.Get("Content-Type"), "multipart/form-data")).To(BeTrue())
		Expect(fields).To(HaveKeyWithValue(product.FieldNoInv, []string{"INV-9"}))
		Expect(fields).To(HaveKeyWithValue(product.FieldNoSerie, []string{""}))
		Expect(fields).To(HaveKeyWithValue(product.FieldModelo, []string{"Optiplex"}))
		Expect(fields).To(HaveKeyWithValue(product.FieldIDMarca, []string{"3"}))
	})

	It("toggles users through activate and deactivate", func() {
		Expect(client.SetUserActive(context.Background(), 4, false)).To(Succeed())
		Expect(lastReq.URL.Path).To(Equal("/usuarios/4/deactivate"))

		Expect(client.SetUserActive(context.Background(), 4, true)).To(Succeed())
		Expect(lastReq.URL.Path).To(Equal("/usuarios/4/activate"))
	})

	It("reports an unreadable gateway answer", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("<html>"))
		}

		_, err := client.VerifyLevel(context.Background())
		Expect(err).To(MatchError(ContainSubstring("decode gateway response")))
	})

	It("logs out locally", func() {
		Expect(store.Save(console.Session{Token: "tok"})).To(Succeed())
		Expect(client.Logout()).To(Succeed())
		stored, _ := store.Load()
		Expect(stored.Empty()).To(BeTrue())
	})
})
