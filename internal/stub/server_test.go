package stub_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/bodega-ag/inventory-gateway/internal/stub"
)

var _ = Describe("Stub server", func() {
	var (
		db     *gorm.DB
		router http.Handler
	)

	BeforeEach(func() {
		db = openSeededDB()
		router = stub.New(db, testStubConfig(), discardLogger).Router()
	})

	do := func(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, stub.APIPrefix+path, body)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	doJSON := func(method, path, token, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		return do(method, path, token, reader, "application/json")
	}

	login := func(usuario, contrasena string) string {
		w := doJSON(http.MethodPost, "/auth/login", "", `{"usuario":"`+usuario+`","contrasena":"`+contrasena+`"}`)
		Expect(w.Code).To(Equal(http.StatusOK), w.Body.String())
		var resp struct {
			Token string `json:"token"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		return resp.Token
	}

	decodeList := func(w *httptest.ResponseRecorder) []map[string]interface{} {
		var out []map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed(), w.Body.String())
		return out
	}

	Describe("authentication", func() {
		It("issues tokens to seeded users", func() {
			w := doJSON(http.MethodPost, "/auth/login", "", `{"usuario":"admin","contrasena":"admin123"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring(`"nivel":1`))
		})

		It("rejects bad credentials", func() {
			w := doJSON(http.MethodPost, "/auth/login", "", `{"usuario":"admin","contrasena":"nope"}`)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("Usuario o contraseña incorrectos"))
		})

		It("requires a valid token", func() {
			Expect(doJSON(http.MethodGet, "/auth/verify", "", "").Code).To(Equal(http.StatusUnauthorized))

			w := doJSON(http.MethodGet, "/auth/verify", "garbage", "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("Token inválido"))
		})

		It("reports expired tokens", func() {
			expired, err := stub.NewTokenIssuer(testSecret, -time.Minute).Issue(1, "admin", 1)
			Expect(err).NotTo(HaveOccurred())

			w := doJSON(http.MethodGet, "/auth/verify", expired, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("Token expirado"))
		})

		It("keeps user administration for Total users", func() {
			w := doJSON(http.MethodGet, "/usuarios", login("operador", "operador123"), "")

			Expect(w.Code).To(Equal(http.StatusForbidden))
			Expect(w.Body.String()).To(MatchJSON(`{"error":"Acceso denegado"}`))

			w = doJSON(http.MethodGet, "/usuarios", login("admin", "admin123"), "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeList(w)).To(HaveLen(2))
		})

		It("locks out deactivated users", func() {
			admin := login("admin", "admin123")
			operador := login("operador", "operador123")

			w := doJSON(http.MethodPatch, "/usuarios/2/desactivar", admin, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(HavePrefix("text/plain"))

			w = doJSON(http.MethodGet, "/auth/verify", operador, "")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(w.Body.String()).To(ContainSubstring("Usuario inactivo"))
		})
	})

	Describe("catalogs", func() {
		var token string

		BeforeEach(func() {
			token = login("admin", "admin123")
		})

		It("lists only active entries", func() {
			w := doJSON(http.MethodPatch, "/marcas/1/desactivar", token, "")
			Expect(w.Code).To(Equal(http.StatusOK))

			names := []interface{}{}
			for _, e := range decodeList(doJSON(http.MethodGet, "/marcas/activas", token, "")) {
				Expect(e).To(HaveKey("idMarca"))
				names = append(names, e["nombre"])
			}
			Expect(names).To(ConsistOf("Cisco", "HP"))
		})

		It("refuses duplicate names regardless of case", func() {
			w := doJSON(http.MethodPost, "/estados", token, `{"nombre":"bueno"}`)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})

		It("serves statuses under activos", func() {
			w := doJSON(http.MethodGet, "/estados/activos", token, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decodeList(w)).To(HaveLen(3))
		})
	})

	Describe("products", func() {
		var token string

		productForm := func(fields map[string]string) (io.Reader, string) {
			var buf bytes.Buffer
			mw := multipart.NewWriter(&buf)
			for k, v := range fields {
				Expect(mw.WriteField(k, v)).To(Succeed())
			}
			Expect(mw.Close()).To(Succeed())
			return &buf, mw.FormDataContentType()
		}

		create := func(noInv string) *httptest.ResponseRecorder {
			body, ct := productForm(map[string]string{
				"noInv": noInv, "modelo": "Optiplex",
				"idArea": "1", "idCategoria": "1", "idMarca": "1", "idEstado": "1",
			})
			return do(http.MethodPost, "/productos", token, body, ct)
		}

		BeforeEach(func() {
			token = login("operador", "operador123")
		})

		It("creates products with hydrated catalog references", func() {
			w := create("INV-100")

			Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
			var p map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &p)).To(Succeed())
			Expect(p).To(HaveKeyWithValue("noInv", "INV-100"))
			Expect(p).To(HaveKeyWithValue("noSerie", BeNil()))
			Expect(p["area"]).To(HaveKeyWithValue("nombre", "Laboratorio de Cómputo"))
		})

		It("rejects duplicate inventory numbers", func() {
			Expect(create("INV-200").Code).To(Equal(http.StatusCreated))
			Expect(create("INV-200").Code).To(Equal(http.StatusConflict))
		})

		It("rejects unknown catalog references", func() {
			body, ct := productForm(map[string]string{
				"noInv": "INV-300", "idArea": "99", "idCategoria": "1", "idMarca": "1", "idEstado": "1",
			})
			w := do(http.MethodPost, "/productos", token, body, ct)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("retires with 204 and hides the product from the active list", func() {
			Expect(create("INV-400").Code).To(Equal(http.StatusCreated))

			w := doJSON(http.MethodPatch, "/productos/1/desactivar", token, `{"motivo":"Equipo dañado"}`)
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Body.Len()).To(BeZero())

			Expect(decodeList(doJSON(http.MethodGet, "/productos", token, ""))).To(BeEmpty())
		})

		It("pages products", func() {
			Expect(stub.SeedProducts(db, 12, discardLogger)).To(Succeed())

			w := doJSON(http.MethodGet, "/productos/paginado?page=1&size=5", token, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			var page struct {
				Content       []json.RawMessage `json:"content"`
				TotalElements int64             `json:"totalElements"`
				TotalPages    int               `json:"totalPages"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &page)).To(Succeed())
			Expect(page.Content).To(HaveLen(5))
			Expect(page.TotalElements).To(Equal(int64(12)))
			Expect(page.TotalPages).To(Equal(3))
		})
	})

	Describe("movements", func() {
		It("records who changed what", func() {
			token := login("operador", "operador123")
			Expect(doJSON(http.MethodPost, "/areas", token, `{"nombre":"Bodega Norte"}`).Code).To(Equal(http.StatusCreated))

			list := decodeList(doJSON(http.MethodGet, "/movimientos?usuario=operador", token, ""))
			Expect(list).To(HaveLen(1))
			Expect(list[0]).To(HaveKeyWithValue("accion", "INSERT"))
			Expect(list[0]).To(HaveKeyWithValue("tablaAfectada", "areas"))
			Expect(list[0]["usuario"]).To(HaveKeyWithValue("usuario", "operador"))

			Expect(decodeList(doJSON(http.MethodGet, "/movimientos?usuario=admin", token, ""))).To(BeEmpty())
			Expect(decodeList(doJSON(http.MethodGet, "/movimientos?usuario=nadie", token, ""))).To(BeEmpty())

			today := time.Now().UTC().Format("2006-01-02")
			Expect(decodeList(doJSON(http.MethodGet, "/movimientos?fecha="+today, token, ""))).To(HaveLen(1))
			Expect(decodeList(doJSON(http.MethodGet, "/movimientos?fecha=1999-01-01", token, ""))).To(BeEmpty())
		})

		It("rejects malformed dates", func() {
			w := doJSON(http.MethodGet, "/movimientos?fecha=01/02/2026", login("admin", "admin123"), "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
