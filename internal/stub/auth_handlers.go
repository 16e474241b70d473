package stub

import (
	"net/http"
	"strings"

	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
	"github.com/bodega-ag/inventory-gateway/internal/core/events"
	"github.com/bodega-ag/inventory-gateway/internal/user"
)

type loginRequest struct {
	Usuario    string `json:"usuario"`
	Contrasena string `json:"contrasena"`
}

type loginResponse struct {
	Token   string `json:"token"`
	Usuario string `json:"usuario"`
	Nombre  string `json:"nombre"`
	Nivel   int    `json:"nivel"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	u, err := s.users.GetByUsername(strings.TrimSpace(req.Usuario))
	if err != nil {
		s.internalError(w, "login", err)
		return
	}
	if u == nil || !CheckPassword(u.PasswordHash, req.Contrasena) {
		writeMessage(w, http.StatusUnauthorized, "Usuario o contraseña incorrectos")
		return
	}
	if !u.Activo {
		writeMessage(w, http.StatusUnauthorized, "Usuario inactivo")
		return
	}
	token, err := s.tokens.Issue(u.ID, u.Usuario, u.Nivel)
	if err != nil {
		s.internalError(w, "issue token", err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, Usuario: u.Usuario, Nombre: u.Nombre, Nivel: u.Nivel})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	u := actorFrom(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"nivel":   u.Nivel,
		"usuario": u.Usuario,
		"nombre":  u.Nombre,
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var dto user.RegisterDTO
	if err := decode(r, &dto); err != nil {
		writeMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if appErr := dto.Validate(); appErr != nil {
		writeMessage(w, http.StatusBadRequest, appErr.GetDetailedMessage())
		return
	}
	existing, err := s.users.GetByUsername(dto.Usuario)
	if err != nil {
		s.internalError(w, "register", err)
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusConflict, "El usuario ya existe")
		return
	}
	hash, err := HashPassword(dto.Contrasena, s.bcryptCost)
	if err != nil {
		s.internalError(w, "hash password", err)
		return
	}
	row := &userDatamodel.Usuario{
		Usuario:      dto.Usuario,
		Nombre:       dto.Nombre,
		Correo:       dto.Correo,
		PasswordHash: hash,
		Nivel:        int(dto.Nivel),
		Activo:       true,
	}
	if err := s.users.Create(row); err != nil {
		s.internalError(w, "create user", err)
		return
	}
	s.record(r.Context(), events.EventTypeRecordInserted, "usuarios", row.ID, "Usuario "+row.Usuario+" registrado")
	writeJSON(w, http.StatusCreated, user.FromDataModel(row))
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := s.users.List()
	if err != nil {
		s.internalError(w, "list users", err)
		return
	}
	out := make([]*user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, user.FromDataModel(row))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Identificador inválido")
		return
	}
	var dto user.UpdateDTO
	if err := decode(r, &dto); err != nil {
		writeMessage(w, http.StatusBadRequest, "Solicitud inválida")
		return
	}
	if appErr := dto.Validate(); appErr != nil {
		writeMessage(w, http.StatusBadRequest, appErr.GetDetailedMessage())
		return
	}
	row, err := s.users.GetByID(id)
	if err != nil {
		s.internalError(w, "get user", err)
		return
	}
	if row == nil {
		writeMessage(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	if dto.Usuario != row.Usuario {
		clash, err := s.users.GetByUsername(dto.Usuario)
		if err != nil {
			s.internalError(w, "get user", err)
			return
		}
		if clash != nil {
			writeMessage(w, http.StatusConflict, "El usuario ya existe")
			return
		}
	}

	row.Usuario = dto.Usuario
	row.Nombre = dto.Nombre
	row.Nivel = int(dto.Nivel)
	row.Activo = dto.Active()
	row.PasswordHash = ""
	if dto.Contrasena != "" {
		hash, err := HashPassword(dto.Contrasena, s.bcryptCost)
		if err != nil {
			s.internalError(w, "hash password", err)
			return
		}
		row.PasswordHash = hash
	}
	if err := s.users.Update(row); err != nil {
		s.internalError(w, "update user", err)
		return
	}
	s.record(r.Context(), events.EventTypeRecordUpdated, "usuarios", row.ID, "Usuario "+row.Usuario+" actualizado")
	writeJSON(w, http.StatusOK, user.FromDataModel(row))
}

// setUserActive answers in plain text, as the backend does for these toggles.
func (s *Server) setUserActive(active bool) http.HandlerFunc {
	eventType, text := events.EventTypeRecordDeactivated, "Usuario desactivado"
	if active {
		eventType, text = events.EventTypeRecordActivated, "Usuario activado"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r)
		if !ok {
			writeMessage(w, http.StatusBadRequest, "Identificador inválido")
			return
		}
		found, err := s.users.SetActive(id, active)
		if err != nil {
			s.internalError(w, "set user active", err)
			return
		}
		if !found {
			writeMessage(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		s.record(r.Context(), eventType, "usuarios", id, text)
		writeText(w, http.StatusOK, text)
	}
}
