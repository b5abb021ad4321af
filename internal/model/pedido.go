package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estados válidos de un pedido.
const (
	EstadoPendiente  = "Pendiente"
	EstadoEnProceso  = "En_Proceso"
	EstadoConfirmada = "Confirmada"
	EstadoPagada     = "Pagada"
	EstadoAnulada    = "Anulada"
)

// Métodos de pago aceptados.
const (
	MetodoEfectivo = "Efectivo"
	MetodoTarjeta  = "Tarjeta"
)

var estadosPedido = []string{EstadoPendiente, EstadoEnProceso, EstadoConfirmada, EstadoPagada, EstadoAnulada}

// NormalizarEstado matches s case-insensitively against the status enum and
// returns the canonical spelling. ok=false when s is not a valid status.
func NormalizarEstado(s string) (string, bool) {
	for _, e := range estadosPedido {
		if strings.EqualFold(e, s) {
			return e, true
		}
	}
	return "", false
}

// NormalizarMetodoPago matches m case-insensitively against {Efectivo, Tarjeta}.
func NormalizarMetodoPago(m string) (string, bool) {
	for _, v := range []string{MetodoEfectivo, MetodoTarjeta} {
		if strings.EqualFold(v, m) {
			return v, true
		}
	}
	return "", false
}

// Pedido is an order placed from a table. Total equals the sum of detail
// subtotals at creation time; payments accumulate independently.
type Pedido struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MesaID    *uuid.UUID      `gorm:"type:uuid;index"`
	MeseroID  *uuid.UUID      `gorm:"type:uuid;index"`
	Estado    string          `gorm:"type:varchar(20);not null;default:'Pendiente'"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Mesa     *Mesa           `gorm:"foreignKey:MesaID"`
	Mesero   *Usuario        `gorm:"foreignKey:MeseroID"`
	Detalles []PedidoDetalle `gorm:"foreignKey:PedidoID"`
	Pagos    []PedidoPago    `gorm:"foreignKey:PedidoID"`
}

func (Pedido) TableName() string { return "pedidos" }

// PedidoDetalle is one aggregated order line. PrecioUnitario snapshots the
// dish price at order time so later catalog edits don't rewrite history.
type PedidoDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	PlatilloID     uuid.UUID       `gorm:"type:uuid;index;not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt      time.Time

	Platillo *Platillo `gorm:"foreignKey:PlatilloID"`
}

func (PedidoDetalle) TableName() string { return "pedido_detalles" }

// PedidoPago registers one payment against an order. Overpayment is allowed
// (tips / cash-over); the pending balance clamps at zero.
type PedidoPago struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PedidoID  uuid.UUID        `gorm:"type:uuid;index;not null"`
	Metodo    string           `gorm:"type:varchar(20);not null"`
	Monto     decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	Cambio    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt time.Time
}

func (PedidoPago) TableName() string { return "pedido_pagos" }
