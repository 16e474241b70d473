package movement

import (
	movementDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/movement"
	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
)

type Action string

const (
	ActionInsert     Action = "INSERT"
	ActionUpdate     Action = "UPDATE"
	ActionDelete     Action = "ELIMINAR"
	ActionRetire     Action = "BAJA"
	ActionActivate   Action = "ACTIVAR"
	ActionDeactivate Action = "DESACTIVAR"
	ActionInUse      Action = "EN USO"
)

// Label is the wording the history view shows for an action.
func (a Action) Label() string {
	switch a {
	case ActionInsert:
		return "Creación"
	case ActionUpdate:
		return "Actualización"
	case ActionDelete:
		return "Eliminación"
	case ActionRetire:
		return "Baja"
	case ActionActivate:
		return "Activación"
	case ActionDeactivate:
		return "Desactivación"
	case ActionInUse:
		return "En uso"
	default:
		return string(a)
	}
}

type Actor struct {
	ID       int64  `json:"idUsuario"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido,omitempty"`
	Correo   string `json:"correo,omitempty"`
	Usuario  string `json:"usuario,omitempty"`
}

// Record is one immutable audit entry produced by the backend.
type Record struct {
	ID                 int64  `json:"idMovimiento"`
	Fecha              string `json:"fecha"`
	Hora               string `json:"hora"`
	Accion             Action `json:"accion"`
	Detalles           string `json:"detalles"`
	TablaAfectada      string `json:"tablaAfectada"`
	IDRegistroAfectado int64  `json:"idRegistroAfectado"`
	Usuario            Actor  `json:"usuario"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

func FromDataModel(m *movementDatamodel.Movimiento, actor *userDatamodel.Usuario) *Record {
	r := &Record{
		ID:                 m.ID,
		Fecha:              m.OcurridoEn.Format(dateLayout),
		Hora:               m.OcurridoEn.Format(timeLayout),
		Accion:             Action(m.Accion),
		Detalles:           m.Detalles,
		TablaAfectada:      m.TablaAfectada,
		IDRegistroAfectado: m.IDRegistroAfectado,
		Usuario:            Actor{ID: m.IDUsuario},
	}
	if actor != nil {
		r.Usuario = Actor{
			ID:      actor.ID,
			Nombre:  actor.Nombre,
			Correo:  actor.Correo,
			Usuario: actor.Usuario,
		}
	}
	return r
}
