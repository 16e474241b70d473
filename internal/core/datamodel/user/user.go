package user

import "time"

type Usuario struct {
	ID           int64     `gorm:"column:id_usuario;primaryKey"`
	Usuario      string    `gorm:"column:usuario;uniqueIndex;not null"`
	Nombre       string    `gorm:"column:nombre;not null"`
	Correo       string    `gorm:"column:correo"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Nivel        int       `gorm:"column:nivel;not null;default:2"`
	Activo       bool      `gorm:"column:activo;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Usuario) TableName() string {
	return "usuarios"
}
