package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Platillo is a menu dish composed of ingredient products in fixed ratios.
// Disponible is the stored flag set by supervisors; listings additionally
// derive availability from the preparable count (see PlatilloService).
type Platillo struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string          `gorm:"index;not null"`
	Descripcion  *string
	Precio       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Disponible   bool            `gorm:"not null;default:true"`
	ImagenURL    *string
	SupervisorID *uuid.UUID `gorm:"type:uuid"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Ingredientes []PlatilloIngrediente `gorm:"foreignKey:PlatilloID"`
	Supervisor   *Usuario              `gorm:"foreignKey:SupervisorID"`
}

func (Platillo) TableName() string { return "platillos" }

// PlatilloIngrediente is one recipe row: producing one unit of the dish
// consumes CantidadRequerida of the referenced product.
type PlatilloIngrediente struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlatilloID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductoID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	CantidadRequerida decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CreatedAt         time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (PlatilloIngrediente) TableName() string { return "platillo_ingredientes" }
