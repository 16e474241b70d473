package catalog

import "time"

// Entry is one row of any of the four catalog tables; the table is picked per
// query with gorm's Table().
type Entry struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	Nombre    string    `gorm:"column:nombre;not null"`
	Activo    bool      `gorm:"column:activo;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
