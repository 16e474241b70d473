package stub

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
	productDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/product"
	"github.com/bodega-ag/inventory-gateway/internal/core/events"
	"github.com/bodega-ag/inventory-gateway/internal/product"
)

const maxMultipartMemory = 32 << 20

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	rows, err := s.products.ListActive()
	if err != nil {
		s.internalError(w, "list products", err)
		return
	}
	out, err := s.hydrate(rows)
	if err != nil {
		s.internalError(w, "hydrate products", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) pageProducts(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size <= 0 {
		size = 10
	}
	rows, total, err := s.products.Page(page, size)
	if err != nil {
		s.internalError(w, "page products", err)
		return
	}
	content, err := s.hydrate(rows)
	if err != nil {
		s.internalError(w, "hydrate products", err)
		return
	}
	writeJSON(w, http.StatusOK, product.Page{
		Content:       content,
		TotalElements: total,
		TotalPages:    int((total + int64(size) - 1) / int64(size)),
		Number:        page,
		Size:          size,
	})
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	row, err := s.products.GetByID(id)
	if err != nil {
		s.internalError(w, "get product", err)
		return
	}
	if row == nil {
		writeMessage(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	out, err := s.hydrate([]*productDatamodel.Producto{row})
	if err != nil {
		s.internalError(w, "hydrate product", err)
		return
	}
	writeJSON(w, http.StatusOK, out[0])
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	row, msg := s.readProductForm(r)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	if s.noInvTaken(w, row.NoInv, 0) {
		return
	}
	row.Activo = true
	if err := s.products.Create(row); err != nil {
		s.internalError(w, "create product", err)
		return
	}
	s.record(r.Context(), events.EventTypeRecordInserted, row.TableName(), row.ID, "Producto "+row.NoInv)
	s.writeProduct(w, http.StatusCreated, row)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	existing, err := s.products.GetByID(id)
	if err != nil {
		s.internalError(w, "get product", err)
		return
	}
	if existing == nil {
		writeMessage(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	row, msg := s.readProductForm(r)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}
	if s.noInvTaken(w, row.NoInv, id) {
		return
	}
	row.ID = id
	if err := s.products.Update(row); err != nil {
		s.internalError(w, "update product", err)
		return
	}
	updated, err := s.products.GetByID(id)
	if err != nil || updated == nil {
		s.internalError(w, "get product", err)
		return
	}
	s.record(r.Context(), events.EventTypeRecordUpdated, row.TableName(), id, "Producto "+row.NoInv)
	s.writeProduct(w, http.StatusOK, updated)
}

type bajaRequest struct {
	Motivo string `json:"motivo"`
}

// retireProduct answers 204 with no body.
func (s *Server) retireProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var req bajaRequest
	if err := decode(r, &req); err != nil || strings.TrimSpace(req.Motivo) == "" {
		writeMessage(w, http.StatusBadRequest, "El motivo es obligatorio")
		return
	}
	found, err := s.products.Retire(id, strings.TrimSpace(req.Motivo))
	if err != nil {
		s.internalError(w, "retire product", err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "Producto no encontrado")
		return
	}
	s.record(r.Context(), events.EventTypeRecordRetired, productDatamodel.Producto{}.TableName(), id, strings.TrimSpace(req.Motivo))
	w.WriteHeader(http.StatusNoContent)
}

// readProductForm parses the multipart body into a row. The returned message
// is non-empty when the form is unusable.
func (s *Server) readProductForm(r *http.Request) (*productDatamodel.Producto, string) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		return nil, "Se esperaba un formulario multipart"
	}
	value := func(name string) string { return strings.TrimSpace(r.FormValue(name)) }

	row := &productDatamodel.Producto{NoInv: value(product.FieldNoInv)}
	if row.NoInv == "" {
		return nil, "El número de inventario es obligatorio"
	}
	if v := value(product.FieldNoSerie); v != "" {
		row.NoSerie = &v
	}
	if v := value(product.FieldModelo); v != "" {
		row.Modelo = &v
	}

	refs := []struct {
		kind  catalog.Kind
		field string
		dst   *int64
	}{
		{catalog.Area, product.FieldIDArea, &row.IDArea},
		{catalog.Category, product.FieldIDCategoria, &row.IDCategoria},
		{catalog.Brand, product.FieldIDMarca, &row.IDMarca},
		{catalog.Status, product.FieldIDEstado, &row.IDEstado},
	}
	for _, ref := range refs {
		id, err := strconv.ParseInt(value(ref.field), 10, 64)
		if err != nil || id <= 0 {
			return nil, "Campo " + ref.field + " inválido"
		}
		entry, err := s.catalogs.GetByID(ref.kind, id)
		if err != nil || entry == nil {
			return nil, "Referencia de " + ref.kind.Singular + " inválida"
		}
		*ref.dst = id
	}

	if _, header, err := r.FormFile(product.FieldFile); err == nil {
		// Only a reference is kept; the bytes are not stored.
		name := "uploads/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
		row.Foto = &name
	}
	return row, ""
}

func (s *Server) noInvTaken(w http.ResponseWriter, noInv string, exceptID int64) bool {
	taken, err := s.products.NoInvTaken(noInv, exceptID)
	if err != nil {
		s.internalError(w, "check noInv", err)
		return true
	}
	if taken {
		writeMessage(w, http.StatusConflict, "Ya existe un producto con ese número de inventario")
		return true
	}
	return false
}

func (s *Server) writeProduct(w http.ResponseWriter, status int, row *productDatamodel.Producto) {
	out, err := s.hydrate([]*productDatamodel.Producto{row})
	if err != nil {
		s.internalError(w, "hydrate product", err)
		return
	}
	writeJSON(w, status, out[0])
}

// hydrate resolves the catalog references of rows with one query per catalog.
func (s *Server) hydrate(rows []*productDatamodel.Producto) ([]product.Product, error) {
	ids := map[string][]int64{}
	for _, row := range rows {
		ids[catalog.Area.Slug] = append(ids[catalog.Area.Slug], row.IDArea)
		ids[catalog.Category.Slug] = append(ids[catalog.Category.Slug], row.IDCategoria)
		ids[catalog.Brand.Slug] = append(ids[catalog.Brand.Slug], row.IDMarca)
		ids[catalog.Status.Slug] = append(ids[catalog.Status.Slug], row.IDEstado)
	}
	entries := map[string]map[int64]*catalogDatamodel.Entry{}
	for _, k := range catalog.Kinds() {
		m, err := s.catalogs.GetMany(k, ids[k.Slug])
		if err != nil {
			return nil, err
		}
		entries[k.Slug] = m
	}

	out := make([]product.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, *product.FromDataModel(row, product.Selectors{
			Area:      entries[catalog.Area.Slug][row.IDArea],
			Categoria: entries[catalog.Category.Slug][row.IDCategoria],
			Marca:     entries[catalog.Brand.Slug][row.IDMarca],
			Estado:    entries[catalog.Status.Slug][row.IDEstado],
		}))
	}
	return out, nil
}
