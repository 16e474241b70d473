package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	movementDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/movement"
)

type MovementRepository struct {
	db *gorm.DB
}

func NewMovementRepository(db *gorm.DB) *MovementRepository {
	return &MovementRepository{db: db}
}

// Filter narrows the history. ActorID zero and a zero Day mean no filter.
type Filter struct {
	ActorID int64
	Day     time.Time
}

func (r *MovementRepository) List(f Filter) ([]*movementDatamodel.Movimiento, error) {
	q := r.db.Model(&movementDatamodel.Movimiento{})
	if f.ActorID > 0 {
		q = q.Where("id_usuario = ?", f.ActorID)
	}
	if !f.Day.IsZero() {
		start := time.Date(f.Day.Year(), f.Day.Month(), f.Day.Day(), 0, 0, 0, 0, f.Day.Location())
		q = q.Where("ocurrido_en >= ? AND ocurrido_en < ?", start, start.AddDate(0, 0, 1))
	}
	var out []*movementDatamodel.Movimiento
	err := q.Order("ocurrido_en DESC, id_movimiento DESC").Find(&out).Error
	return out, err
}

func (r *MovementRepository) GetByID(id int64) (*movementDatamodel.Movimiento, error) {
	var m movementDatamodel.Movimiento
	err := r.db.Where("id_movimiento = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *MovementRepository) Create(m *movementDatamodel.Movimiento) error {
	return r.db.Create(m).Error
}
