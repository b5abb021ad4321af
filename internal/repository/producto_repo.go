package repository

import (
	"context"
	"errors"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrInventarioInsuficiente is returned by conditional stock decrements when
// the guarded UPDATE matches no row (stock raced below the required amount).
var ErrInventarioInsuficiente = errors.New("inventario insuficiente")

// ProductoRepository defines the data access contract for products and their
// 1:1 inventory sub-record. Services depend on this interface, not on the
// concrete GORM implementation, enabling clean unit testing via stubs.
type ProductoRepository interface {
	CreateTx(tx *gorm.DB, p *model.Producto) error
	CreateInventarioTx(tx *gorm.DB, inv *model.Inventario) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	List(ctx context.Context, soloActivos bool) ([]model.Producto, error)
	UpdateTx(tx *gorm.DB, p *model.Producto) error
	UpdateInventarioTx(tx *gorm.DB, inv *model.Inventario) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	FindInventarioByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error)

	// Used inside transactions — callers must pass the tx instance.
	// The decrement is conditional (cantidad_disponible >= cantidad) so
	// concurrent orders cannot drive stock negative.
	DescontarInventarioTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) error
	AjustarInventarioTx(tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) error
	CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error

	ListMovimientos(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) CreateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Create(p).Error
}

func (r *productoRepo) CreateInventarioTx(tx *gorm.DB, inv *model.Inventario) error {
	return tx.Create(inv).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Preload("Inventario").Preload("Categoria").First(&p, id).Error
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, soloActivos bool) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Preload("Inventario").Preload("Categoria")
	if soloActivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) UpdateTx(tx *gorm.DB, p *model.Producto) error {
	return tx.Omit("Inventario", "Categoria").Save(p).Error
}

func (r *productoRepo) UpdateInventarioTx(tx *gorm.DB, inv *model.Inventario) error {
	return tx.Save(inv).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) FindInventarioByProductoID(ctx context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	var inv model.Inventario
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).First(&inv).Error
	return &inv, err
}

func (r *productoRepo) DescontarInventarioTx(tx *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) error {
	res := tx.Model(&model.Inventario{}).
		Where("producto_id = ? AND cantidad_disponible >= ?", productoID, cantidad).
		Update("cantidad_disponible", gorm.Expr("cantidad_disponible - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInventarioInsuficiente
	}
	return nil
}

func (r *productoRepo) AjustarInventarioTx(tx *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) error {
	res := tx.Model(&model.Inventario{}).
		Where("producto_id = ? AND cantidad_disponible + ? >= 0", productoID, delta).
		Update("cantidad_disponible", gorm.Expr("cantidad_disponible + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInventarioInsuficiente
	}
	return nil
}

func (r *productoRepo) CreateMovimientoTx(tx *gorm.DB, m *model.MovimientoInventario) error {
	return tx.Create(m).Error
}

func (r *productoRepo) ListMovimientos(ctx context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error) {
	var movs []model.MovimientoInventario
	err := r.db.WithContext(ctx).Where("producto_id = ?", productoID).Order("created_at DESC").Find(&movs).Error
	return movs, err
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
