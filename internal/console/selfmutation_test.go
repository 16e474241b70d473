package console_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal/console"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

type recordingNavigator struct {
	paths []string
}

func (n *recordingNavigator) Redirect(path string) {
	n.paths = append(n.paths, path)
}

type scriptedConfirmer struct {
	answer   bool
	warnings []string
}

func (c *scriptedConfirmer) Confirm(warning string) bool {
	c.warnings = append(c.warnings, warning)
	return c.answer
}

type fakeUpdater struct {
	err     error
	updates []user.UpdateDTO
	toggles map[int64]bool
}

func (f *fakeUpdater) UpdateUser(ctx context.Context, id int64, dto user.UpdateDTO) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, dto)
	return nil
}

func (f *fakeUpdater) SetUserActive(ctx context.Context, id int64, active bool) error {
	if f.err != nil {
		return f.err
	}
	if f.toggles == nil {
		f.toggles = map[int64]bool{}
	}
	f.toggles[id] = active
	return nil
}

var _ = Describe("SelfMutationGuard", func() {
	var (
		store     *console.MemoryStore
		nav       *recordingNavigator
		confirmer *scriptedConfirmer
		updater   *fakeUpdater
		guard     *console.SelfMutationGuard
		ctx       context.Context

		me    user.User
		other user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		store = console.NewMemoryStore()
		Expect(store.Save(console.Session{
			Token:       "tok",
			Username:    "ana",
			DisplayName: "Ana",
			AccessLevel: user.LevelTotal,
		})).To(Succeed())
		nav = &recordingNavigator{}
		confirmer = &scriptedConfirmer{answer: true}
		updater = &fakeUpdater{}
		guard = console.NewSelfMutationGuard(store, nav, confirmer, updater)

		me = user.User{ID: 1, Usuario: "ana", Nombre: "Ana", Nivel: user.LevelTotal, Activo: true}
		other = user.User{ID: 2, Usuario: "luis", Nombre: "Luis", Nivel: user.LevelPartial, Activo: true}
	})

	session := func() console.Session {
		s, err := store.Load()
		Expect(err).NotTo(HaveOccurred())
		return s
	}

	Describe("Assess", func() {
		It("ignores other users", func() {
			a := console.Assess(session(), other, user.UpdateDTO{Usuario: "luis", Nivel: user.LevelTotal})
			Expect(a).To(Equal(console.Assessment{}))
			Expect(a.Warnings()).To(BeEmpty())
		})

		It("flags a level change on the own account", func() {
			a := console.Assess(session(), me, user.UpdateDTO{Usuario: "ana", Nivel: user.LevelPartial, Activo: user.Flag(true)})
			Expect(a.Self).To(BeTrue())
			Expect(a.LevelChange).To(BeTrue())
			Expect(a.Deactivates).To(BeFalse())
			Expect(a.Warnings()).To(ConsistOf(console.WarningOwnLevel))
		})

		It("flags deactivation of the own account", func() {
			a := console.Assess(session(), me, user.UpdateDTO{Usuario: "ana", Nivel: user.LevelTotal, Activo: user.Flag(false)})
			Expect(a.Deactivates).To(BeTrue())
			Expect(a.Warnings()).To(ConsistOf(console.WarningOwnDeactivation))
		})

		It("never treats an anonymous session as self", func() {
			a := console.Assess(console.Session{}, user.User{Usuario: ""}, user.UpdateDTO{})
			Expect(a.Self).To(BeFalse())
		})
	})

	Describe("Submit", func() {
		It("signs out after deactivating the own account", func() {
			outcome, err := guard.Submit(ctx, me, user.UpdateDTO{Usuario: "ana", Nombre: "Ana", Nivel: user.LevelTotal, Activo: user.Flag(false)})

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(console.OutcomeSignedOut))
			Expect(updater.updates).To(HaveLen(1))
			Expect(session().Empty()).To(BeTrue())
			Expect(nav.paths).To(Equal([]string{console.LoginPath}))
			Expect(confirmer.warnings).To(ConsistOf(console.WarningOwnDeactivation))
		})

		It("leaves the session alone when deactivating someone else", func() {
			outcome, err := guard.Submit(ctx, other, user.UpdateDTO{Usuario: "luis", Nombre: "Luis", Nivel: user.LevelPartial, Activo: user.Flag(false)})

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(console.OutcomeUpdated))
			Expect(session().Token).To(Equal("tok"))
			Expect(nav.paths).To(BeEmpty())
			Expect(confirmer.warnings).To(BeEmpty())
		})

		It("refreshes the session after a self-edit that keeps the account active", func() {
			outcome, err := guard.Submit(ctx, me, user.UpdateDTO{Usuario: "ana", Nombre: "Ana María", Nivel: user.LevelPartial, Activo: user.Flag(true)})

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(console.OutcomeSessionRefreshed))
			Expect(confirmer.warnings).To(ConsistOf(console.WarningOwnLevel))
			s := session()
			Expect(s.Token).To(Equal("tok"))
			Expect(s.DisplayName).To(Equal("Ana María"))
			Expect(s.AccessLevel).To(Equal(user.LevelPartial))
			Expect(nav.paths).To(BeEmpty())
		})

		It("keeps the session when the backend rejects the update", func() {
			updater.err = errors.New("Error al actualizar el usuario")

			outcome, err := guard.Submit(ctx, me, user.UpdateDTO{Usuario: "ana", Nombre: "Ana", Nivel: user.LevelTotal, Activo: user.Flag(false)})

			Expect(err).To(MatchError("Error al actualizar el usuario"))
			Expect(outcome).To(Equal(console.OutcomeUpdated))
			Expect(session().Token).To(Equal("tok"))
			Expect(nav.paths).To(BeEmpty())
		})

		It("does not submit when the warning is declined", func() {
			confirmer.answer = false

			_, err := guard.Submit(ctx, me, user.UpdateDTO{Usuario: "ana", Nombre: "Ana", Nivel: user.LevelPartial, Activo: user.Flag(true)})

			Expect(err).To(MatchError(console.ErrCancelled))
			Expect(updater.updates).To(BeEmpty())
			Expect(session().AccessLevel).To(Equal(user.LevelTotal))
		})
	})

	Describe("SetActive", func() {
		It("signs out after deactivating the own account", func() {
			outcome, err := guard.SetActive(ctx, me, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(console.OutcomeSignedOut))
			Expect(updater.toggles).To(HaveKeyWithValue(int64(1), false))
			Expect(session().Empty()).To(BeTrue())
			Expect(nav.paths).To(Equal([]string{console.LoginPath}))
		})

		It("toggles other accounts without touching the session", func() {
			outcome, err := guard.SetActive(ctx, other, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(console.OutcomeUpdated))
			Expect(session().Empty()).To(BeFalse())
			Expect(confirmer.warnings).To(BeEmpty())
		})

		It("keeps the session when the toggle fails", func() {
			updater.err = errors.New("boom")

			_, err := guard.SetActive(ctx, me, false)

			Expect(err).To(HaveOccurred())
			Expect(session().Empty()).To(BeFalse())
			Expect(nav.paths).To(BeEmpty())
		})
	})
})
