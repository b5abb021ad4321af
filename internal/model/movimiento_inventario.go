package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovimientoInventario registra cada cambio de stock de un producto.
// Se crea automáticamente al consumir ingredientes de un pedido o al
// ajustar inventario manualmente. Immutable ledger.
type MovimientoInventario struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Tipo             string          `gorm:"not null"` // "pedido" | "ajuste_manual" | "anulacion"
	Cantidad         decimal.Decimal `gorm:"type:decimal(12,3);not null"` // positive = entrada, negative = salida
	CantidadAnterior decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	CantidadNueva    decimal.Decimal `gorm:"type:decimal(12,3);not null"`
	Motivo           string
	ReferenciaID     *uuid.UUID `gorm:"type:uuid"` // pedido_id si aplica
	CreatedAt        time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (MovimientoInventario) TableName() string { return "movimientos_inventario" }
