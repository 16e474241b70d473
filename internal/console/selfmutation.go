package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/bodega-ag/inventory-gateway/internal/user"
)

const (
	WarningOwnLevel        = "Está modificando su propio nivel de acceso. Si lo reduce, no podrá revertir este cambio a menos que otro usuario con acceso Total lo haga."
	WarningOwnDeactivation = "Está deshabilitando su propia cuenta. Su sesión se cerrará automáticamente y no podrá iniciar sesión hasta que otro usuario con acceso Total la reactive."
)

// ErrCancelled is returned when the operator declines a warning.
var ErrCancelled = errors.New("operación cancelada")

// Confirmer asks the operator to acknowledge a warning before submitting.
type Confirmer interface {
	Confirm(warning string) bool
}

type UserUpdater interface {
	UpdateUser(ctx context.Context, id int64, dto user.UpdateDTO) error
	SetUserActive(ctx context.Context, id int64, active bool) error
}

// Assessment describes what an edit does to the caller's own account.
type Assessment struct {
	Self        bool
	Deactivates bool
	LevelChange bool
}

func (a Assessment) Warnings() []string {
	var out []string
	if a.LevelChange {
		out = append(out, WarningOwnLevel)
	}
	if a.Deactivates {
		out = append(out, WarningOwnDeactivation)
	}
	return out
}

// Assess compares the stored record with the submitted one. Self means the
// record's username equals the session's.
func Assess(s Session, current user.User, submitted user.UpdateDTO) Assessment {
	if s.Username == "" || current.Usuario != s.Username {
		return Assessment{}
	}
	return Assessment{
		Self:        true,
		Deactivates: current.Activo && !submitted.Active(),
		LevelChange: submitted.Nivel != current.Nivel,
	}
}

type Outcome int

const (
	OutcomeUpdated Outcome = iota
	OutcomeSessionRefreshed
	OutcomeSignedOut
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSessionRefreshed:
		return "session_refreshed"
	case OutcomeSignedOut:
		return "signed_out"
	default:
		return "updated"
	}
}

// SelfMutationGuard submits user edits and protects the caller from keeping a
// session its own edit has invalidated.
type SelfMutationGuard struct {
	store   Store
	nav     Navigator
	confirm Confirmer
	users   UserUpdater
}

func NewSelfMutationGuard(store Store, nav Navigator, confirm Confirmer, users UserUpdater) *SelfMutationGuard {
	return &SelfMutationGuard{store: store, nav: nav, confirm: confirm, users: users}
}

// Submit warns about self-demotion or self-deactivation, sends the update and,
// only once the backend accepted it, tears the session down (deactivation) or
// refreshes it (any other self-edit). A failed update leaves the session alone.
func (g *SelfMutationGuard) Submit(ctx context.Context, current user.User, dto user.UpdateDTO) (Outcome, error) {
	session, err := g.store.Load()
	if err != nil {
		return OutcomeUpdated, err
	}
	assessment := Assess(session, current, dto)
	if !g.confirmed(assessment.Warnings()) {
		return OutcomeUpdated, ErrCancelled
	}

	if err := g.users.UpdateUser(ctx, current.ID, dto); err != nil {
		return OutcomeUpdated, err
	}

	switch {
	case assessment.Deactivates:
		return OutcomeSignedOut, g.signOut()
	case assessment.Self:
		session.Username = dto.Usuario
		session.DisplayName = dto.Nombre
		session.AccessLevel = dto.Nivel
		if err := g.store.Save(session); err != nil {
			return OutcomeUpdated, fmt.Errorf("refresh session: %w", err)
		}
		return OutcomeSessionRefreshed, nil
	}
	return OutcomeUpdated, nil
}

// SetActive toggles an account through the activate/deactivate routes with the
// same teardown rule as Submit.
func (g *SelfMutationGuard) SetActive(ctx context.Context, target user.User, active bool) (Outcome, error) {
	session, err := g.store.Load()
	if err != nil {
		return OutcomeUpdated, err
	}
	selfDeactivation := !active && target.Activo && session.Username != "" && target.Usuario == session.Username
	if selfDeactivation && !g.confirmed([]string{WarningOwnDeactivation}) {
		return OutcomeUpdated, ErrCancelled
	}

	if err := g.users.SetUserActive(ctx, target.ID, active); err != nil {
		return OutcomeUpdated, err
	}
	if selfDeactivation {
		return OutcomeSignedOut, g.signOut()
	}
	return OutcomeUpdated, nil
}

func (g *SelfMutationGuard) confirmed(warnings []string) bool {
	if g.confirm == nil {
		return true
	}
	for _, w := range warnings {
		if !g.confirm.Confirm(w) {
			return false
		}
	}
	return true
}

func (g *SelfMutationGuard) signOut() error {
	if err := g.store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	g.nav.Redirect(LoginPath)
	return nil
}
