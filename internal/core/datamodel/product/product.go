package product

import "time"

type Producto struct {
	ID          int64     `gorm:"column:id_producto;primaryKey"`
	NoInv       string    `gorm:"column:no_inv;uniqueIndex;not null"`
	NoSerie     *string   `gorm:"column:no_serie"`
	Modelo      *string   `gorm:"column:modelo"`
	Foto        *string   `gorm:"column:foto"`
	IDArea      int64     `gorm:"column:id_area;not null"`
	IDCategoria int64     `gorm:"column:id_categoria;not null"`
	IDMarca     int64     `gorm:"column:id_marca;not null"`
	IDEstado    int64     `gorm:"column:id_estado;not null"`
	Activo      bool      `gorm:"column:activo;not null;default:true"`
	MotivoBaja  *string   `gorm:"column:motivo_baja"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Producto) TableName() string {
	return "productos"
}
