package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	productDatamodel "github.com/bodega-ag/inventory-gateway/internal/core/datamodel/product"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListActive returns products not yet retired, newest first.
func (r *ProductRepository) ListActive() ([]*productDatamodel.Producto, error) {
	var products []*productDatamodel.Producto
	err := r.db.Where("activo = ?", true).Order("id_producto DESC").Find(&products).Error
	return products, err
}

// Page returns one zero-based page of active products and the total count.
func (r *ProductRepository) Page(page, size int) ([]*productDatamodel.Producto, int64, error) {
	var total int64
	base := r.db.Model(&productDatamodel.Producto{}).Where("activo = ?", true)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var products []*productDatamodel.Producto
	err := r.db.Where("activo = ?", true).
		Order("id_producto DESC").
		Offset(page * size).
		Limit(size).
		Find(&products).Error
	return products, total, err
}

func (r *ProductRepository) GetByID(id int64) (*productDatamodel.Producto, error) {
	var p productDatamodel.Producto
	err := r.db.Where("id_producto = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) NoInvTaken(noInv string, exceptID int64) (bool, error) {
	var count int64
	err := r.db.Model(&productDatamodel.Producto{}).Where("no_inv = ? AND id_producto <> ?", noInv, exceptID).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) Create(p *productDatamodel.Producto) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *productDatamodel.Producto) error {
	fields := map[string]interface{}{
		"no_inv":       p.NoInv,
		"no_serie":     p.NoSerie,
		"modelo":       p.Modelo,
		"id_area":      p.IDArea,
		"id_categoria": p.IDCategoria,
		"id_marca":     p.IDMarca,
		"id_estado":    p.IDEstado,
		"updated_at":   time.Now(),
	}
	if p.Foto != nil {
		fields["foto"] = p.Foto
	}
	return r.db.Model(&productDatamodel.Producto{}).Where("id_producto = ?", p.ID).Updates(fields).Error
}

// Retire marks an active product inactive with its reason. It reports false
// when there is no active product with the id.
func (r *ProductRepository) Retire(id int64, motivo string) (bool, error) {
	res := r.db.Model(&productDatamodel.Producto{}).
		Where("id_producto = ? AND activo = ?", id, true).
		Updates(map[string]interface{}{
			"activo":      false,
			"motivo_baja": motivo,
			"updated_at":  time.Now(),
		})
	return res.RowsAffected > 0, res.Error
}
