package stub

import (
	"net/http"

	"github.com/go-chi/chi"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
	"github.com/bodega-ag/inventory-gateway/internal/core/events"
)

func (s *Server) catalogRoutes(r chi.Router) {
	for _, k := range catalog.Kinds() {
		k := k
		r.Route(k.CollectionPath(), func(r chi.Router) {
			r.Get("/"+k.ActiveSeg, s.listCatalog(k))
			r.Post("/", s.createCatalogEntry(k))
			r.Put("/{id}", s.updateCatalogEntry(k))
			r.Patch("/{id}/activar", s.setCatalogEntryActive(k, true))
			r.Patch("/{id}/desactivar", s.setCatalogEntryActive(k, false))
		})
	}
}

func (s *Server) listCatalog(k catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := s.catalogs.ListActive(k)
		if err != nil {
			s.internalError(w, "list "+k.Resource, err)
			return
		}
		out := make([]map[string]interface{}, 0, len(rows))
		for _, row := range rows {
			out = append(out, k.Encode(*catalog.FromDataModel(row)))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func (s *Server) createCatalogEntry(k catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var dto catalog.EntryDTO
		if err := decode(r, &dto); err != nil {
			writeMessage(w, http.StatusBadRequest, "Solicitud inválida")
			return
		}
		if appErr := dto.Validate(); appErr != nil {
			writeMessage(w, http.StatusBadRequest, appErr.GetDetailedMessage())
			return
		}
		if s.nameTaken(w, k, dto.Nombre, 0) {
			return
		}
		row := &catalogDatamodel.Entry{Nombre: dto.Nombre, Activo: true}
		if dto.Activo != nil {
			row.Activo = *dto.Activo
		}
		if err := s.catalogs.Create(k, row); err != nil {
			s.internalError(w, "create "+k.Singular, err)
			return
		}
		s.record(r.Context(), events.EventTypeRecordInserted, k.Table(), row.ID, k.Singular+" "+row.Nombre)
		writeJSON(w, http.StatusCreated, k.Encode(*catalog.FromDataModel(row)))
	}
}

func (s *Server) updateCatalogEntry(k catalog.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		var dto catalog.EntryDTO
		if err := decode(r, &dto); err != nil {
			writeMessage(w, http.StatusBadRequest, "Solicitud inválida")
			return
		}
		if appErr := dto.Validate(); appErr != nil {
			writeMessage(w, http.StatusBadRequest, appErr.GetDetailedMessage())
			return
		}
		row, err := s.catalogs.GetByID(k, id)
		if err != nil {
			s.internalError(w, "get "+k.Singular, err)
			return
		}
		if row == nil {
			writeMessage(w, http.StatusNotFound, "Registro no encontrado")
			return
		}
		if s.nameTaken(w, k, dto.Nombre, id) {
			return
		}
		row.Nombre = dto.Nombre
		if dto.Activo != nil {
			row.Activo = *dto.Activo
		}
		if err := s.catalogs.Update(k, row); err != nil {
			s.internalError(w, "update "+k.Singular, err)
			return
		}
		s.record(r.Context(), events.EventTypeRecordUpdated, k.Table(), row.ID, k.Singular+" "+row.Nombre)
		writeJSON(w, http.StatusOK, k.Encode(*catalog.FromDataModel(row)))
	}
}

func (s *Server) setCatalogEntryActive(k catalog.Kind, active bool) http.HandlerFunc {
	eventType := events.EventTypeRecordDeactivated
	if active {
		eventType = events.EventTypeRecordActivated
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		found, err := s.catalogs.SetActive(k, id, active)
		if err != nil {
			s.internalError(w, "toggle "+k.Singular, err)
			return
		}
		if !found {
			writeMessage(w, http.StatusNotFound, "Registro no encontrado")
			return
		}
		row, err := s.catalogs.GetByID(k, id)
		if err != nil || row == nil {
			s.internalError(w, "get "+k.Singular, err)
			return
		}
		s.record(r.Context(), eventType, k.Table(), id, k.Singular+" "+row.Nombre)
		writeJSON(w, http.StatusOK, k.Encode(*catalog.FromDataModel(row)))
	}
}

func (s *Server) nameTaken(w http.ResponseWriter, k catalog.Kind, nombre string, exceptID int64) bool {
	taken, err := s.catalogs.NameTaken(k, nombre, exceptID)
	if err != nil {
		s.internalError(w, "check "+k.Singular, err)
		return true
	}
	if taken {
		writeMessage(w, http.StatusConflict, "Ya existe un registro con ese nombre")
		return true
	}
	return false
}
