package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CerrarCajaRequest struct {
	MontoCierre decimal.Decimal `json:"monto_cierre" validate:"min=0"`
}

type TransaccionCajaRequest struct {
	Tipo        string          `json:"tipo"        validate:"required"`
	Monto       decimal.Decimal `json:"monto"       validate:"required"`
	Descripcion *string         `json:"descripcion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransaccionCajaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"`
	Monto       decimal.Decimal `json:"monto"`
	Descripcion *string         `json:"descripcion"`
	CreatedAt   string          `json:"created_at"`
}

type CajaResponse struct {
	ID            string           `json:"id"`
	SupervisorID  string           `json:"supervisor_id"`
	Supervisor    *string          `json:"supervisor"`
	MontoApertura decimal.Decimal  `json:"monto_apertura"`
	MontoCierre   *decimal.Decimal `json:"monto_cierre"`
	// Balance = apertura + ingresos - egresos, recomputed on every read.
	Balance       decimal.Decimal           `json:"balance"`
	TotalIngresos decimal.Decimal           `json:"total_ingresos"`
	TotalEgresos  decimal.Decimal           `json:"total_egresos"`
	Diferencia    *decimal.Decimal          `json:"diferencia"`
	Abierta       bool                      `json:"abierta"`
	AbiertaEn     string                    `json:"abierta_en"`
	CerradaEn     *string                   `json:"cerrada_en"`
	Transacciones []TransaccionCajaResponse `json:"transacciones"`
}
