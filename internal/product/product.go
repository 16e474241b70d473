package product

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
	productDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/product"
)

// Optional holds a serial number or model that may be explicitly not
// applicable. On the wire null and "" both mean not applicable.
type Optional struct {
	value string
	set   bool
}

func Some(v string) Optional {
	v = strings.TrimSpace(v)
	if v == "" {
		return NotApplicable()
	}
	return Optional{value: v, set: true}
}

func NotApplicable() Optional {
	return Optional{}
}

func (o Optional) Get() (string, bool) {
	return o.value, o.set
}

// String is what the console prints.
func (o Optional) String() string {
	if !o.set {
		return "N/A"
	}
	return o.value
}

// FormValue is the multipart encoding, where not applicable is an empty field.
func (o Optional) FormValue() string {
	return o.value
}

func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*o = NotApplicable()
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*o = Some(s)
	return nil
}

func fromPtr(p *string) Optional {
	if p == nil {
		return NotApplicable()
	}
	return Some(*p)
}

type Product struct {
	ID        int64         `json:"idProducto"`
	NoInv     string        `json:"noInv"`
	NoSerie   Optional      `json:"noSerie"`
	Modelo    Optional      `json:"modelo"`
	Foto      *string       `json:"foto"`
	Area      catalog.Entry `json:"area"`
	Categoria catalog.Entry `json:"categoria"`
	Marca     catalog.Entry `json:"marca"`
	Estado    catalog.Entry `json:"estado"`
}

// Page is the backend's paginated listing.
type Page struct {
	Content       []Product `json:"content"`
	TotalElements int64     `json:"totalElements"`
	TotalPages    int       `json:"totalPages"`
	Number        int       `json:"number"`
	Size          int       `json:"size"`
}

// Selectors groups the four catalog references of a product row.
type Selectors struct {
	Area, Categoria, Marca, Estado *catalogDatamodel.Entry
}

func FromDataModel(p *productDatamodel.Producto, sel Selectors) *Product {
	out := &Product{
		ID:      p.ID,
		NoInv:   p.NoInv,
		NoSerie: fromPtr(p.NoSerie),
		Modelo:  fromPtr(p.Modelo),
		Foto:    p.Foto,
	}
	out.Area = entryOrID(sel.Area, p.IDArea)
	out.Categoria = entryOrID(sel.Categoria, p.IDCategoria)
	out.Marca = entryOrID(sel.Marca, p.IDMarca)
	out.Estado = entryOrID(sel.Estado, p.IDEstado)
	return out
}

func entryOrID(e *catalogDatamodel.Entry, id int64) catalog.Entry {
	if e == nil {
		return catalog.Entry{ID: id}
	}
	return *catalog.FromDataModel(e)
}
