package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemPedidoRequest struct {
	PlatilloID string `json:"platillo_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
}

type CrearPedidoRequest struct {
	MesaID   *string             `json:"mesa_id"   validate:"omitempty,uuid"`
	MeseroID *string             `json:"mesero_id" validate:"omitempty,uuid"`
	Estado   *string             `json:"estado"`
	Items    []ItemPedidoRequest `json:"items"     validate:"dive"`
}

type ActualizarEstadoRequest struct {
	Estado string `json:"estado" validate:"required"`
}

type RegistrarPagoRequest struct {
	Metodo string           `json:"metodo" validate:"required"`
	Monto  decimal.Decimal  `json:"monto"  validate:"required"`
	Cambio *decimal.Decimal `json:"cambio"`
}

type PedidoFilter struct {
	Estado string `form:"estado"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetallePedidoResponse struct {
	PlatilloID     string          `json:"platillo_id"`
	Platillo       string          `json:"platillo"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
}

type PagoPedidoResponse struct {
	ID        string           `json:"id"`
	Metodo    string           `json:"metodo"`
	Monto     decimal.Decimal  `json:"monto"`
	Cambio    *decimal.Decimal `json:"cambio"`
	CreatedAt string           `json:"created_at"`
}

type PedidoResponse struct {
	ID             string                  `json:"id"`
	MesaID         *string                 `json:"mesa_id"`
	Mesa           *string                 `json:"mesa"`
	MeseroID       *string                 `json:"mesero_id"`
	Mesero         *string                 `json:"mesero"`
	Estado         string                  `json:"estado"`
	Total          decimal.Decimal         `json:"total"`
	TotalPagado    decimal.Decimal         `json:"total_pagado"`
	SaldoPendiente decimal.Decimal         `json:"saldo_pendiente"`
	Detalles       []DetallePedidoResponse `json:"detalles"`
	Pagos          []PagoPedidoResponse    `json:"pagos"`
	CreatedAt      string                  `json:"created_at"`
}
