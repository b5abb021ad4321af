package repository

import (
	"context"

	"fondapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlatilloRepository interface {
	CreateTx(tx *gorm.DB, p *model.Platillo) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Platillo, error)
	List(ctx context.Context) ([]model.Platillo, error)
	UpdateTx(tx *gorm.DB, p *model.Platillo) error
	// ReplaceIngredientesTx destructively replaces the whole recipe:
	// delete-all-then-reinsert, inside the caller's transaction.
	ReplaceIngredientesTx(tx *gorm.DB, platilloID uuid.UUID, ingredientes []model.PlatilloIngrediente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	DB() *gorm.DB
}

type platilloRepo struct{ db *gorm.DB }

func NewPlatilloRepository(db *gorm.DB) PlatilloRepository { return &platilloRepo{db: db} }

func (r *platilloRepo) CreateTx(tx *gorm.DB, p *model.Platillo) error {
	return tx.Create(p).Error
}

func (r *platilloRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Platillo, error) {
	var p model.Platillo
	err := r.db.WithContext(ctx).
		Preload("Ingredientes.Producto.Inventario").
		First(&p, id).Error
	return &p, err
}

func (r *platilloRepo) List(ctx context.Context) ([]model.Platillo, error) {
	var platillos []model.Platillo
	err := r.db.WithContext(ctx).
		Preload("Ingredientes.Producto.Inventario").
		Where("activo = true").
		Order("nombre ASC").
		Find(&platillos).Error
	return platillos, err
}

func (r *platilloRepo) UpdateTx(tx *gorm.DB, p *model.Platillo) error {
	return tx.Omit("Ingredientes", "Supervisor").Save(p).Error
}

func (r *platilloRepo) ReplaceIngredientesTx(tx *gorm.DB, platilloID uuid.UUID, ingredientes []model.PlatilloIngrediente) error {
	if err := tx.Where("platillo_id = ?", platilloID).Delete(&model.PlatilloIngrediente{}).Error; err != nil {
		return err
	}
	if len(ingredientes) == 0 {
		return nil
	}
	for i := range ingredientes {
		ingredientes[i].PlatilloID = platilloID
	}
	// Rows may carry the resolved Producto for in-memory derivations; only
	// the recipe columns are written here.
	return tx.Omit("Producto").Create(&ingredientes).Error
}

func (r *platilloRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Platillo{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *platilloRepo) DB() *gorm.DB { return r.db }
