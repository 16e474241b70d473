package auth

import (
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

// SessionUser is the user summary handed to the console at login.
type SessionUser struct {
	Usuario string           `json:"usuario"`
	Nombre  string           `json:"nombre"`
	Nivel   user.AccessLevel `json:"nivel"`
}

// LoginResult is the data of a successful login envelope.
type LoginResult struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

// LevelInfo is what /verify-level reports for the presented token.
type LevelInfo struct {
	Nivel   user.AccessLevel `json:"nivel"`
	Usuario string           `json:"usuario"`
	Nombre  string           `json:"nombre"`
}

// backendLogin is the backend's login response; only the token is mandatory.
type backendLogin struct {
	Token   string           `json:"token"`
	Usuario string           `json:"usuario"`
	Nombre  string           `json:"nombre"`
	Nivel   user.AccessLevel `json:"nivel"`
}

func (b backendLogin) toResult(usuario string) LoginResult {
	result := LoginResult{
		Token: b.Token,
		User: SessionUser{
			Usuario: usuario,
			Nombre:  b.Nombre,
			Nivel:   b.Nivel,
		},
	}
	if result.User.Nombre == "" {
		result.User.Nombre = usuario
	}
	if !result.User.Nivel.Valid() {
		result.User.Nivel = user.LevelPartial
	}
	return result
}
