package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/bodega-ag/inventory-gateway/internal/catalog"
	catalogDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/catalog"
)

// CatalogRepository serves all four catalog tables; the kind picks the table.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) ListActive(k catalog.Kind) ([]*catalogDatamodel.Entry, error) {
	var entries []*catalogDatamodel.Entry
	err := r.db.Table(k.Table()).Where("activo = ?", true).Order("nombre ASC").Find(&entries).Error
	return entries, err
}

func (r *CatalogRepository) GetByID(k catalog.Kind, id int64) (*catalogDatamodel.Entry, error) {
	var entry catalogDatamodel.Entry
	err := r.db.Table(k.Table()).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// GetMany loads entries by id; missing ids are simply absent from the map.
func (r *CatalogRepository) GetMany(k catalog.Kind, ids []int64) (map[int64]*catalogDatamodel.Entry, error) {
	out := make(map[int64]*catalogDatamodel.Entry, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var entries []*catalogDatamodel.Entry
	if err := r.db.Table(k.Table()).Where("id IN ?", ids).Find(&entries).Error; err != nil {
		return nil, err
	}
	for _, e := range entries {
		out[e.ID] = e
	}
	return out, nil
}

func (r *CatalogRepository) NameTaken(k catalog.Kind, nombre string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.Table(k.Table()).Where("LOWER(nombre) = LOWER(?) AND id <> ?", nombre, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *CatalogRepository) Create(k catalog.Kind, entry *catalogDatamodel.Entry) error {
	return r.db.Table(k.Table()).Create(entry).Error
}

func (r *CatalogRepository) Update(k catalog.Kind, entry *catalogDatamodel.Entry) error {
	return r.db.Table(k.Table()).Where("id = ?", entry.ID).Updates(map[string]interface{}{
		"nombre":     entry.Nombre,
		"activo":     entry.Activo,
		"updated_at": time.Now(),
	}).Error
}

// SetActive reports false when no row has the id.
func (r *CatalogRepository) SetActive(k catalog.Kind, id int64, active bool) (bool, error) {
	res := r.db.Table(k.Table()).Where("id = ?", id).Updates(map[string]interface{}{
		"activo":     active,
		"updated_at": time.Now(),
	})
	return res.RowsAffected > 0, res.Error
}
