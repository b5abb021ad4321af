package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a raw ingredient/supply consumed by platillo recipes.
// Stock lives in the 1:1 Inventario record, never on the product itself.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	UnidadMedida string     `gorm:"not null;default:'unidad'"`
	CategoriaID  *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria  *Categoria  `gorm:"foreignKey:CategoriaID"`
	Inventario *Inventario `gorm:"foreignKey:ProductoID"`
}

func (Producto) TableName() string { return "productos" }

// Inventario is the 1:1 stock sub-record of a product.
// Quantities carry 3 decimal places (kg, litros). Invariant:
// CantidadDisponible >= 0, enforced here and by a DB CHECK constraint.
type Inventario struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID         uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	CantidadDisponible decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0"`
	StockMinimo        *decimal.Decimal `gorm:"type:decimal(12,3)"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (Inventario) TableName() string { return "inventarios" }
