package repository

import (
	"context"

	"fondapos/internal/dto"
	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	// CreateTx inserts the pedido together with its detalles in one shot;
	// callers must pass a live transaction.
	CreateTx(tx *gorm.DB, p *model.Pedido) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error)
	UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error
	CreatePago(ctx context.Context, pago *model.PedidoPago) error
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Mesa").
		Preload("Mesero").
		Preload("Detalles.Platillo").
		Preload("Pagos").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) List(ctx context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	q := r.db.WithContext(ctx).
		Preload("Mesa").
		Preload("Mesero").
		Preload("Detalles.Platillo").
		Preload("Pagos")
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	err := q.Order("created_at DESC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) UpdateEstado(ctx context.Context, id uuid.UUID, estado string) error {
	return r.db.WithContext(ctx).Model(&model.Pedido{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *pedidoRepo) CreatePago(ctx context.Context, pago *model.PedidoPago) error {
	return r.db.WithContext(ctx).Create(pago).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
