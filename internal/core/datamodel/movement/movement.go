package movement

import "time"

type Movimiento struct {
	ID                 int64     `gorm:"column:id_movimiento;primaryKey"`
	OcurridoEn         time.Time `gorm:"column:ocurrido_en;not null"`
	Accion             string    `gorm:"column:accion;not null"`
	Detalles           string    `gorm:"column:detalles"`
	TablaAfectada      string    `gorm:"column:tabla_afectada;not null"`
	IDRegistroAfectado int64     `gorm:"column:id_registro_afectado"`
	IDUsuario          int64     `gorm:"column:id_usuario;not null"`
}

func (Movimiento) TableName() string {
	return "movimientos"
}
