package auth_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/auth"
	"github.com/bodega-ag/inventory-gateway/internal/core/envelope"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type fakeForwarder struct {
	requests []upstream.Request
	reply    envelope.Raw
}

func (f *fakeForwarder) Forward(ctx context.Context, req upstream.Request) envelope.Raw {
	f.requests = append(f.requests, req)
	return f.reply
}

func okReply(body string) envelope.Raw {
	return envelope.OK(http.StatusOK, json.RawMessage(body), "ok")
}

var _ = Describe("Service", func() {
	var (
		fwd     *fakeForwarder
		service *auth.Service
	)

	BeforeEach(func() {
		fwd = &fakeForwarder{}
		service = auth.NewService(fwd, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	Describe("Authenticate", func() {
		It("rejects blank credentials without calling the backend", func() {
			_, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: "  ", Contrasena: ""})
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(fwd.requests).To(BeEmpty())
		})

		It("posts the credentials and reshapes the reply", func() {
			fwd.reply = okReply(`{"token":"abc","nombre":"Ana Pérez","nivel":1}`)

			env, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: " ana ", Contrasena: "secreto"})
			Expect(appErr).To(BeNil())
			Expect(fwd.requests).To(HaveLen(1))
			Expect(fwd.requests[0].Method).To(Equal(http.MethodPost))
			Expect(fwd.requests[0].Path).To(Equal("/auth/login"))
			Expect(fwd.requests[0].Authorization).To(BeEmpty())
			Expect(string(fwd.requests[0].Body)).To(MatchJSON(`{"usuario":"ana","contrasena":"secreto"}`))

			result, err := envelope.Decode[auth.LoginResult](env)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data.Token).To(Equal("abc"))
			Expect(result.Data.User).To(Equal(auth.SessionUser{Usuario: "ana", Nombre: "Ana Pérez", Nivel: user.LevelTotal}))
		})

		It("defaults the name to the username and the level to partial", func() {
			fwd.reply = okReply(`{"token":"abc"}`)

			env, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: "ana", Contrasena: "x"})
			Expect(appErr).To(BeNil())

			result, err := envelope.Decode[auth.LoginResult](env)
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Data.User.Nombre).To(Equal("ana"))
			Expect(result.Data.User.Nivel).To(Equal(user.LevelPartial))
		})

		It("treats a success without a token as an invalid upstream response", func() {
			fwd.reply = okReply(`{"message":"ok"}`)

			_, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: "ana", Contrasena: "x"})
			Expect(appErr).To(Equal(auth.ErrInvalidLoginResponse))
			Expect(appErr.Code).To(Equal(internal.ErrCodeUpstreamInvalid))
		})

		It("fails an empty or non-JSON success instead of using the fallback data", func() {
			for _, body := range []string{"", "<html>ok</html>"} {
				fwd.reply = upstream.Normalize(http.StatusOK, []byte(body), upstream.Messages{Success: "Inicio de sesión exitoso"})
				Expect(fwd.reply.Success).To(BeTrue())

				_, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: "ana", Contrasena: "x"})
				Expect(appErr).NotTo(BeNil())
				Expect(appErr.StatusCode).To(Equal(http.StatusBadGateway))
				Expect(appErr.Code).To(Equal(internal.ErrCodeUpstreamInvalid))
			}
		})

		It("passes failure envelopes through", func() {
			fwd.reply = envelope.Fail[json.RawMessage](http.StatusUnauthorized, string(internal.ErrCodeUpstreamUnauthorized), "Credenciales inválidas")

			env, appErr := service.Authenticate(context.Background(), auth.LoginDTO{Usuario: "ana", Contrasena: "x"})
			Expect(appErr).To(BeNil())
			Expect(env.Failed()).To(BeTrue())
			Expect(env.Message).To(Equal("Credenciales inválidas"))
		})
	})

	Describe("VerifyLevel", func() {
		It("reports the level of the presented token", func() {
			fwd.reply = okReply(`{"nivel":"2","usuario":"operador","nombre":"Operador"}`)

			env, appErr := service.VerifyLevel(context.Background())
			Expect(appErr).To(BeNil())
			Expect(fwd.requests[0].Path).To(Equal("/auth/verify"))

			info, err := envelope.Decode[auth.LevelInfo](env)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Data.Nivel).To(Equal(user.LevelPartial))
			Expect(info.Data.Usuario).To(Equal("operador"))
		})

		It("fails with 502 when the data cannot be decoded", func() {
			fwd.reply = okReply(`"nope"`)

			_, appErr := service.VerifyLevel(context.Background())
			Expect(appErr).NotTo(BeNil())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadGateway))
		})
	})
})
