package auth

import (
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/common/validation"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

func (d *LoginDTO) Validate() *internal.AppError {
	d.Usuario = strings.TrimSpace(d.Usuario)
	validator := validation.NewValidator()

	validator.Field("usuario", d.Usuario).Required(internal.ErrCodeMissingFields)
	validator.Field("contrasena", d.Contrasena).Required(internal.ErrCodeMissingFields)

	return validator.Validate()
}
