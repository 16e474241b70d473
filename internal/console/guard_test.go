package console_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal/console"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

var _ = Describe("RouteGuard", func() {
	var (
		store *console.MemoryStore
		nav   *recordingNavigator
		guard *console.RouteGuard
		ran   bool
		page  console.Page
	)

	BeforeEach(func() {
		store = console.NewMemoryStore()
		nav = &recordingNavigator{}
		guard = console.NewRouteGuard(store, nav)
		ran = false
		page = func(ctx context.Context, s console.Session) error {
			ran = true
			return nil
		}
	})

	It("redirects to login without a session", func() {
		err := guard.Protect(page)(context.Background())

		Expect(err).To(MatchError(console.ErrLoginRequired))
		Expect(ran).To(BeFalse())
		Expect(nav.paths).To(Equal([]string{console.LoginPath}))
	})

	It("renders the page when a token is present", func() {
		Expect(store.Save(console.Session{Token: "t", AccessLevel: user.LevelPartial})).To(Succeed())

		Expect(guard.Protect(page)(context.Background())).To(Succeed())
		Expect(ran).To(BeTrue())
		Expect(nav.paths).To(BeEmpty())
	})

	Describe("access filtering", func() {
		total := console.Session{Token: "t", AccessLevel: user.LevelTotal}
		partial := console.Session{Token: "t", AccessLevel: user.LevelPartial}

		labels := func(entries []console.NavEntry) []string {
			var out []string
			for _, e := range entries {
				out = append(out, e.Label)
			}
			return out
		}

		It("shows the users entry to Total sessions only", func() {
			Expect(labels(console.NavEntries(total))).To(Equal([]string{"Inventario", "Catálogos", "Historial", "Usuarios", "Acerca de"}))
			Expect(labels(console.NavEntries(partial))).NotTo(ContainElement("Usuarios"))
			Expect(console.CanAdministerUsers(partial)).To(BeFalse())
		})

		It("blocks restricted pages for Partial sessions", func() {
			restricted := console.RequireTotal(page)

			err := restricted(context.Background(), partial)
			Expect(errors.Is(err, console.ErrAccessRestricted)).To(BeTrue())
			Expect(ran).To(BeFalse())

			Expect(restricted(context.Background(), total)).To(Succeed())
			Expect(ran).To(BeTrue())
		})
	})
})
