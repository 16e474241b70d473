package user

import (
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/common/validation"
)

// RegisterDTO creates an account through /registro.
type RegisterDTO struct {
	Usuario    string      `json:"usuario"`
	Nombre     string      `json:"nombre"`
	Correo     string      `json:"correo,omitempty"`
	Contrasena string      `json:"contrasena"`
	Nivel      AccessLevel `json:"nivel"`
}

func (d *RegisterDTO) Validate() *internal.AppError {
	d.Usuario = strings.TrimSpace(d.Usuario)
	d.Nombre = strings.TrimSpace(d.Nombre)
	if d.Nivel == 0 {
		d.Nivel = LevelPartial
	}
	validator := validation.NewValidator()

	validator.Field("usuario", d.Usuario).Required(internal.ErrCodeMissingFields).MaxLength(50)
	validator.Field("nombre", d.Nombre).Required(internal.ErrCodeMissingFields).MaxLength(100)
	validator.Field("contrasena", d.Contrasena).Required(internal.ErrCodeMissingFields)
	validator.Field("nivel", int(d.Nivel)).OneOf(int(LevelTotal), int(LevelPartial))

	return validator.Validate()
}

// UpdateDTO is the full record submitted when editing an account. Activo is
// mandatory so an omitted flag never reaches the backend as false. Contrasena
// is only sent when it changes.
type UpdateDTO struct {
	Usuario    string      `json:"usuario"`
	Nombre     string      `json:"nombre"`
	Nivel      AccessLevel `json:"nivel"`
	Activo     *bool       `json:"activo"`
	Contrasena string      `json:"contrasena,omitempty"`
}

// Active reports the submitted state; an absent flag reads as active.
func (d UpdateDTO) Active() bool {
	return d.Activo == nil || *d.Activo
}

// Flag returns a pointer for UpdateDTO.Activo.
func Flag(v bool) *bool {
	return &v
}

func (d *UpdateDTO) Validate() *internal.AppError {
	d.Usuario = strings.TrimSpace(d.Usuario)
	d.Nombre = strings.TrimSpace(d.Nombre)
	validator := validation.NewValidator()

	validator.Field("usuario", d.Usuario).Required(internal.ErrCodeMissingFields).MaxLength(50)
	validator.Field("nombre", d.Nombre).Required(internal.ErrCodeMissingFields).MaxLength(100)
	validator.Field("nivel", int(d.Nivel)).Required(internal.ErrCodeMissingFields).OneOf(int(LevelTotal), int(LevelPartial))
	validator.Field("activo", d.Activo).Required(internal.ErrCodeMissingFields)

	return validator.Validate()
}
