package catalog

import (
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/common/validation"
)

const maxNombreLength = 100

// EntryDTO is the body accepted on create and update.
type EntryDTO struct {
	Nombre string `json:"nombre"`
	Activo *bool  `json:"activo,omitempty"`
}

func (d *EntryDTO) Validate() *internal.AppError {
	d.Nombre = strings.TrimSpace(d.Nombre)
	validator := validation.NewValidator()
	validator.Field("nombre", d.Nombre).Required(internal.ErrCodeMissingFields).MaxLength(maxNombreLength)
	return validator.Validate()
}

// Body is the upstream payload. The id is included on update because the
// backend echoes the full record.
func (d EntryDTO) Body(k Kind, id int64) map[string]interface{} {
	body := map[string]interface{}{"nombre": d.Nombre}
	if d.Activo != nil {
		body["activo"] = *d.Activo
	}
	if id > 0 {
		body[k.IDField] = id
	}
	return body
}
