package console

import (
	"context"
	"errors"
)

// LoginPath is the unauthenticated entry point.
const LoginPath = "/"

var ErrLoginRequired = errors.New("inicie sesión para continuar")

// Navigator moves the operator to another view.
type Navigator interface {
	Redirect(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Redirect(path string) { f(path) }

// Page renders a protected view for the given session.
type Page func(ctx context.Context, s Session) error

// RouteGuard only checks that a token is present. Whether it is still valid is
// for the backend to say on the next call.
type RouteGuard struct {
	store Store
	nav   Navigator
}

func NewRouteGuard(store Store, nav Navigator) *RouteGuard {
	return &RouteGuard{store: store, nav: nav}
}

// Protect wraps page so it only runs with a non-empty session.
func (g *RouteGuard) Protect(page Page) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		session, err := g.store.Load()
		if err != nil {
			return err
		}
		if session.Empty() {
			g.nav.Redirect(LoginPath)
			return ErrLoginRequired
		}
		return page(ctx, session)
	}
}
