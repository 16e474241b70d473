package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
)

// Kind describes one of the four reference catalogs. They share a shape and
// differ only in names.
type Kind struct {
	Slug       string
	Resource   string
	ActiveSeg  string
	IDField    string
	Singular   string
	Plural     string
	Article    string
	PluralArt  string
	Feminine   bool
	ForeignKey string
}

var (
	Area = Kind{
		Slug: "area", Resource: "areas", ActiveSeg: "activas", IDField: "idArea",
		Singular: "área", Plural: "áreas", Article: "el", PluralArt: "las", Feminine: true,
		ForeignKey: "id_area",
	}
	Category = Kind{
		Slug: "category", Resource: "categorias", ActiveSeg: "activas", IDField: "idCategoria",
		Singular: "categoría", Plural: "categorías", Article: "la", PluralArt: "las", Feminine: true,
		ForeignKey: "id_categoria",
	}
	Brand = Kind{
		Slug: "brand", Resource: "marcas", ActiveSeg: "activas", IDField: "idMarca",
		Singular: "marca", Plural: "marcas", Article: "la", PluralArt: "las", Feminine: true,
		ForeignKey: "id_marca",
	}
	Status = Kind{
		Slug: "status", Resource: "estados", ActiveSeg: "activos", IDField: "idEstado",
		Singular: "estado", Plural: "estados", Article: "el", PluralArt: "los",
		ForeignKey: "id_estado",
	}
)

var kinds = []Kind{Area, Category, Brand, Status}

// Kinds returns the catalogs in display order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// Lookup resolves a gateway slug ("area") or an upstream resource ("areas").
func Lookup(name string) (Kind, bool) {
	for _, k := range kinds {
		if k.Slug == name || k.Resource == name {
			return k, true
		}
	}
	return Kind{}, false
}

func (k Kind) CollectionPath() string { return "/" + k.Resource }

func (k Kind) ActivePath() string { return "/" + k.Resource + "/" + k.ActiveSeg }

func (k Kind) ItemPath(id string) string { return "/" + k.Resource + "/" + id }

// Table is the backing table name; it matches the upstream resource.
func (k Kind) Table() string { return k.Resource }

func (k Kind) participle(stem string) string {
	if k.Feminine {
		return stem + "a"
	}
	return stem + "o"
}

// SuccessMessage renders e.g. "Área creada exitosamente" for the stem "cread".
func (k Kind) SuccessMessage(stem string) string {
	return fmt.Sprintf("%s %s exitosamente", capitalize(k.Singular), k.participle(stem))
}

// FailureMessage renders e.g. "Error al crear el área".
func (k Kind) FailureMessage(verb string) string {
	return fmt.Sprintf("Error al %s %s %s", verb, k.Article, k.Singular)
}

func (k Kind) ListFailureMessage() string {
	return fmt.Sprintf("Error al obtener %s %s", k.PluralArt, k.Plural)
}

func (k Kind) ListSuccessMessage() string {
	suffix := "os"
	if k.Feminine {
		suffix = "as"
	}
	return fmt.Sprintf("%s obtenid%s exitosamente", capitalize(k.Plural), suffix)
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Entry is a catalog value. On the wire its id travels under the kind-specific
// key (idArea, idCategoria, ...); UnmarshalJSON accepts any of them.
type Entry struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}

func (e *Entry) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*e = Entry{}
	for key, raw := range fields {
		switch {
		case key == "nombre":
			if err := json.Unmarshal(raw, &e.Nombre); err != nil {
				return fmt.Errorf("nombre: %w", err)
			}
		case key == "activo":
			if err := json.Unmarshal(raw, &e.Activo); err != nil {
				return fmt.Errorf("activo: %w", err)
			}
		case key == "id" || isIDField(key):
			if err := json.Unmarshal(raw, &e.ID); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
	}
	return nil
}

func isIDField(key string) bool {
	for _, k := range kinds {
		if strings.EqualFold(k.IDField, key) {
			return true
		}
	}
	return false
}

// Encode renders e with the kind's id key, the way the backend serves it.
func (k Kind) Encode(e Entry) map[string]interface{} {
	return map[string]interface{}{
		k.IDField: e.ID,
		"nombre":  e.Nombre,
		"activo":  e.Activo,
	}
}

func FromDataModel(e *catalogDatamodel.Entry) *Entry {
	return &Entry{
		ID:     e.ID,
		Nombre: e.Nombre,
		Activo: e.Activo,
	}
}
