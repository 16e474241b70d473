package user

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
)

// AccessLevel is the coarse permission tier the backend stores as "nivel".
type AccessLevel int

const (
	LevelTotal   AccessLevel = 1
	LevelPartial AccessLevel = 2
)

func (l AccessLevel) String() string {
	switch l {
	case LevelTotal:
		return "Total"
	case LevelPartial:
		return "Parcial"
	default:
		return fmt.Sprintf("Nivel(%d)", int(l))
	}
}

func (l AccessLevel) Valid() bool {
	return l == LevelTotal || l == LevelPartial
}

// ParseAccessLevel accepts the numeric form or the level name.
func ParseAccessLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "total":
		return LevelTotal, nil
	case "2", "parcial", "partial":
		return LevelPartial, nil
	}
	return 0, fmt.Errorf("nivel de acceso desconocido %q", s)
}

// UnmarshalJSON tolerates levels sent as strings ("1", "Total").
func (l *AccessLevel) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		*l = AccessLevel(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("nivel: %w", err)
	}
	if n, err := strconv.Atoi(s); err == nil {
		*l = AccessLevel(n)
		return nil
	}
	parsed, err := ParseAccessLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

type User struct {
	ID      int64       `json:"idUsuario"`
	Usuario string      `json:"usuario"`
	Nombre  string      `json:"nombre"`
	Correo  string      `json:"correo,omitempty"`
	Nivel   AccessLevel `json:"nivel"`
	Activo  bool        `json:"activo"`
}

func (u *User) IsTotal() bool {
	return u.Nivel == LevelTotal
}

func FromDataModel(u *userDatamodel.Usuario) *User {
	return &User{
		ID:      u.ID,
		Usuario: u.Usuario,
		Nombre:  u.Nombre,
		Correo:  u.Correo,
		Nivel:   AccessLevel(u.Nivel),
		Activo:  u.Activo,
	}
}
