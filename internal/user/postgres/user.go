package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	userDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List() ([]*userDatamodel.Usuario, error) {
	var users []*userDatamodel.Usuario
	err := r.db.Order("usuario ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.Usuario, error) {
	return r.first("id_usuario = ?", id)
}

func (r *UserRepository) GetByUsername(usuario string) (*userDatamodel.Usuario, error) {
	return r.first("usuario = ?", usuario)
}

func (r *UserRepository) first(query string, arg interface{}) (*userDatamodel.Usuario, error) {
	var u userDatamodel.Usuario
	err := r.db.Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.Usuario) error {
	return r.db.Create(u).Error
}

// Update writes profile fields; the password hash only when non-empty.
func (r *UserRepository) Update(u *userDatamodel.Usuario) error {
	fields := map[string]interface{}{
		"usuario":    u.Usuario,
		"nombre":     u.Nombre,
		"nivel":      u.Nivel,
		"activo":     u.Activo,
		"updated_at": time.Now(),
	}
	if u.PasswordHash != "" {
		fields["password_hash"] = u.PasswordHash
	}
	return r.db.Model(&userDatamodel.Usuario{}).Where("id_usuario = ?", u.ID).Updates(fields).Error
}

func (r *UserRepository) SetActive(id int64, active bool) (bool, error) {
	res := r.db.Model(&userDatamodel.Usuario{}).Where("id_usuario = ?", id).Updates(map[string]interface{}{
		"activo":     active,
		"updated_at": time.Now(),
	})
	return res.RowsAffected > 0, res.Error
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&userDatamodel.Usuario{}).Count(&n).Error
	return n, err
}
