package product

import (
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/common/validation"
)

// BajaDTO carries the mandatory reason for retiring a product.
type BajaDTO struct {
	Motivo string `json:"motivo"`
}

func (d *BajaDTO) Validate() *internal.AppError {
	if appErr := validation.ValidateMotivo(d.Motivo); appErr != nil {
		return appErr
	}
	d.Motivo = strings.TrimSpace(d.Motivo)
	return nil
}
