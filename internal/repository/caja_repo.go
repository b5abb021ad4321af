package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CajaRepository interface {
	Create(ctx context.Context, c *model.Caja) error
	// FindAbierta returns the caja with cerrada_en IS NULL, if any.
	FindAbierta(ctx context.Context) (*model.Caja, error)
	// FindUltimaCerrada returns the most recently closed caja (to carry
	// its monto_cierre into the next apertura).
	FindUltimaCerrada(ctx context.Context) (*model.Caja, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error)
	Update(ctx context.Context, c *model.Caja) error
	CreateTransaccion(ctx context.Context, t *model.TransaccionCaja) error
	List(ctx context.Context) ([]model.Caja, error)
}

type cajaRepo struct{ db *gorm.DB }

func NewCajaRepository(db *gorm.DB) CajaRepository { return &cajaRepo{db: db} }

func (r *cajaRepo) Create(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *cajaRepo) FindAbierta(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("Transacciones", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("cerrada_en IS NULL").
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindUltimaCerrada(ctx context.Context) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Where("cerrada_en IS NOT NULL").
		Order("cerrada_en DESC").
		First(&c).Error
	return &c, err
}

func (r *cajaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Caja, error) {
	var c model.Caja
	err := r.db.WithContext(ctx).
		Preload("Transacciones", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Supervisor").
		First(&c, id).Error
	return &c, err
}

func (r *cajaRepo) Update(ctx context.Context, c *model.Caja) error {
	return r.db.WithContext(ctx).Omit("Transacciones", "Supervisor").Save(c).Error
}

func (r *cajaRepo) CreateTransaccion(ctx context.Context, t *model.TransaccionCaja) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *cajaRepo) List(ctx context.Context) ([]model.Caja, error) {
	var cajas []model.Caja
	err := r.db.WithContext(ctx).
		Preload("Transacciones").
		Order("abierta_en DESC").
		Find(&cajas).Error
	return cajas, err
}
