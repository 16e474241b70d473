package stub

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	movementDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/movement"
	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
	"github.com/bodega-ag/inventory-gateway/internal/movement"
	movementPostgres "github.com/bodega-ag/inventory-gateway/internal/movement/postgres"
)

const fechaLayout = "2006-01-02"

// listMovements filters by usuario (login name or id) and fecha (YYYY-MM-DD, UTC).
func (s *Server) listMovements(w http.ResponseWriter, r *http.Request) {
	var filter movementPostgres.Filter

	if who := strings.TrimSpace(r.URL.Query().Get("usuario")); who != "" {
		actor, err := s.resolveUser(who)
		if err != nil {
			s.internalError(w, "resolve usuario", err)
			return
		}
		if actor == nil {
			writeJSON(w, http.StatusOK, []movement.Record{})
			return
		}
		filter.ActorID = actor.ID
	}
	if fecha := strings.TrimSpace(r.URL.Query().Get("fecha")); fecha != "" {
		day, err := time.ParseInLocation(fechaLayout, fecha, time.UTC)
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Fecha inválida, use AAAA-MM-DD")
			return
		}
		filter.Day = day
	}

	rows, err := s.movements.List(filter)
	if err != nil {
		s.internalError(w, "list movements", err)
		return
	}
	out, err := s.withActors(rows)
	if err != nil {
		s.internalError(w, "load actors", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getMovement(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	row, err := s.movements.GetByID(id)
	if err != nil {
		s.internalError(w, "get movement", err)
		return
	}
	if row == nil {
		writeMessage(w, http.StatusNotFound, "Movimiento no encontrado")
		return
	}
	out, err := s.withActors([]*movementDatamodel.Movimiento{row})
	if err != nil {
		s.internalError(w, "load actors", err)
		return
	}
	writeJSON(w, http.StatusOK, out[0])
}

func (s *Server) resolveUser(who string) (*userDatamodel.Usuario, error) {
	if id, err := strconv.ParseInt(who, 10, 64); err == nil {
		return s.users.GetByID(id)
	}
	return s.users.GetByUsername(who)
}

func (s *Server) withActors(rows []*movementDatamodel.Movimiento) ([]movement.Record, error) {
	actors := map[int64]*userDatamodel.Usuario{}
	out := make([]movement.Record, 0, len(rows))
	for _, row := range rows {
		actor, seen := actors[row.IDUsuario]
		if !seen {
			var err error
			if actor, err = s.users.GetByID(row.IDUsuario); err != nil {
				return nil, err
			}
			actors[row.IDUsuario] = actor
		}
		out = append(out, *movement.FromDataModel(row, actor))
	}
	return out, nil
}
