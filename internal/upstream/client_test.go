package upstream_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/upstream"
)

type observation struct {
	route  string
	status int
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveUpstream(route string, status int, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{route: route, status: status})
}

var _ = Describe("Client", func() {
	var (
		server   *httptest.Server
		calls    int32
		lastReq  *http.Request
		lastBody []byte
		status   int
		body     string
		observer *recordingObserver
		client   *upstream.Client
	)

	BeforeEach(func() {
		atomic.StoreInt32(&calls, 0)
		status, body = http.StatusOK, `{"ok":true}`
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			lastReq = r.Clone(context.Background())
			lastBody, _ = io.ReadAll(r.Body)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, body)
		}))
		observer = &recordingObserver{}
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		client = upstream.NewClient(upstream.Config{BaseURL: server.URL + "/api", Observer: observer}, logger)
	})

	AfterEach(func() {
		server.Close()
	})

	It("calls the upstream path under the base URL exactly once", func() {
		env := client.Forward(context.Background(), upstream.Request{
			Route:    "catalog.list.area",
			Path:     "/areas/activas",
			RawQuery: "x=1",
			Messages: msgs,
		})

		Expect(env.Success).To(BeTrue())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
		Expect(lastReq.Method).To(Equal(http.MethodGet))
		Expect(lastReq.URL.Path).To(Equal("/api/areas/activas"))
		Expect(lastReq.URL.RawQuery).To(Equal("x=1"))
		Expect(observer.seen).To(Equal([]observation{{route: "catalog.list.area", status: http.StatusOK}}))
	})

	It("relays the authorization accepted by the token gate", func() {
		ctx := internal.ContextWithAuthorization(context.Background(), "Bearer abc.def")
		client.Forward(ctx, upstream.Request{Path: "/auth/verify"})

		Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer abc.def"))
	})

	It("prefers an explicit authorization", func() {
		ctx := internal.ContextWithAuthorization(context.Background(), "Bearer from-context")
		client.Forward(ctx, upstream.Request{Path: "/auth/verify", Authorization: "Bearer explicit"})

		Expect(lastReq.Header.Get("Authorization")).To(Equal("Bearer explicit"))
	})

	It("sends JSON bodies with their content type", func() {
		req, err := upstream.JSON(http.MethodPost, "/areas", map[string]string{"nombre": "Laboratorio"})
		Expect(err).NotTo(HaveOccurred())

		client.Forward(context.Background(), req)

		Expect(lastReq.Method).To(Equal(http.MethodPost))
		Expect(lastReq.Header.Get("Content-Type")).To(Equal("application/json"))
		Expect(string(lastBody)).To(MatchJSON(`{"nombre":"Laboratorio"}`))
	})

	It("does not retry failed calls", func() {
		status, body = http.StatusServiceUnavailable, "down"

		env := client.Forward(context.Background(), upstream.Request{Path: "/productos", Messages: msgs})

		Expect(env.Success).To(BeFalse())
		Expect(env.Status).To(Equal(http.StatusServiceUnavailable))
		Expect(env.Message).To(Equal("down"))
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("finishes the call when the caller's context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		env := client.Forward(ctx, upstream.Request{Path: "/productos", Messages: msgs})

		Expect(env.Success).To(BeTrue())
		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(1)))
	})

	It("answers 502 when the upstream is unreachable", func() {
		server.Close()

		env := client.Forward(context.Background(), upstream.Request{Route: "products.list", Path: "/productos", Messages: msgs})

		Expect(env.Success).To(BeFalse())
		Expect(env.Status).To(Equal(http.StatusBadGateway))
		Expect(env.Code).To(Equal("UPSTREAM_UNREACHABLE"))
		Expect(env.Message).To(Equal(msgs.Failure))
		Expect(observer.seen).To(Equal([]observation{{route: "products.list", status: 0}}))
	})
})
