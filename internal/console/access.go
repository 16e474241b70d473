package console

import (
	"context"
)

type NavEntry struct {
	Label string
	Path  string
}

var (
	navInventory  = NavEntry{Label: "Inventario", Path: "/Inventory"}
	navCatalogues = NavEntry{Label: "Catálogos", Path: "/Catalogues"}
	navHistory    = NavEntry{Label: "Historial", Path: "/History"}
	navUsers      = NavEntry{Label: "Usuarios", Path: "/Users"}
	navAbout      = NavEntry{Label: "Acerca de", Path: "/About"}
)

// CanAdministerUsers reports whether the user-administration feature is shown.
func CanAdministerUsers(s Session) bool {
	return s.IsTotal()
}

// NavEntries is the navigation for s. Partial sessions never get the users entry.
func NavEntries(s Session) []NavEntry {
	entries := []NavEntry{navInventory, navCatalogues, navHistory}
	if CanAdministerUsers(s) {
		entries = append(entries, navUsers)
	}
	return append(entries, navAbout)
}

// RequireTotal blocks page for non-Total sessions with ErrAccessRestricted.
// The backend's 403 on the users listing remains the real enforcement.
func RequireTotal(page Page) Page {
	return func(ctx context.Context, s Session) error {
		if !CanAdministerUsers(s) {
			return ErrAccessRestricted
		}
		return page(ctx, s)
	}
}
