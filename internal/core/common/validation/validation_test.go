package validation_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/bodega-ag/inventory-gateway/internal"
	"github.com/bodega-ag/inventory-gateway/internal/core/common/validation"
)

func TestValidation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Validation Suite")
}

var _ = Describe("ValidationBuilder", func() {
	It("passes when every field is valid", func() {
		active := true
		validator := validation.NewValidator()
		validator.Field("usuario", "ana").Required(internal.ErrCodeMissingFields).MaxLength(50)
		validator.Field("nivel", 1).Required(internal.ErrCodeMissingFields).OneOf(1, 2)
		validator.Field("activo", &active).Required(internal.ErrCodeMissingFields)

		Expect(validator.Validate()).To(BeNil())
	})

	It("returns the single failure as is", func() {
		var active *bool
		validator := validation.NewValidator()
		validator.Field("usuario", "ana").Required(internal.ErrCodeMissingFields)
		validator.Field("activo", active).Required(internal.ErrCodeMissingFields)

		appErr := validator.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Code).To(Equal(internal.ErrCodeMissingFields))
		Expect(appErr.GetDetailedMessage()).To(Equal("activo es obligatorio"))
	})

	It("joins one message per failing field", func() {
		validator := validation.NewValidator()
		validator.Field("usuario", "   ").Required(internal.ErrCodeMissingFields).MaxLength(3)
		validator.Field("nombre", "Nombre demasiado largo").MaxLength(5)
		validator.Field("nivel", 7).OneOf(1, 2)

		appErr := validator.Validate()
		Expect(appErr).NotTo(BeNil())
		Expect(appErr.Code).To(Equal(internal.ErrCodeValidationFailed))
		Expect(appErr.GetDetailedMessage()).To(Equal(
			"usuario es obligatorio; nombre no debe exceder 5 caracteres; nivel tiene un valor no permitido"))
	})

	It("requires a motivo with content", func() {
		Expect(validation.ValidateMotivo("  ")).To(Equal(internal.ErrMotivoRequired))
		Expect(validation.ValidateMotivo("Equipo dañado")).To(BeNil())
	})
})
