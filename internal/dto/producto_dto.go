package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre          string           `json:"nombre"           validate:"required,min=2,max=120"`
	Descripcion     *string          `json:"descripcion"`
	UnidadMedida    string           `json:"unidad_medida"`
	CategoriaID     *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	CantidadInicial decimal.Decimal  `json:"cantidad_inicial" validate:"min=0"`
	StockMinimo     *decimal.Decimal `json:"stock_minimo"     validate:"omitempty,min=0"`
}

// ActualizarProductoRequest uses partial-update semantics: only supplied
// fields are written. At least one field must be present.
type ActualizarProductoRequest struct {
	Nombre             *string          `json:"nombre"              validate:"omitempty,min=2,max=120"`
	Descripcion        *string          `json:"descripcion"`
	UnidadMedida       *string          `json:"unidad_medida"`
	CategoriaID        *string          `json:"categoria_id"        validate:"omitempty,uuid"`
	CantidadDisponible *decimal.Decimal `json:"cantidad_disponible" validate:"omitempty,min=0"`
	StockMinimo        *decimal.Decimal `json:"stock_minimo"        validate:"omitempty,min=0"`
}

type AjusteInventarioRequest struct {
	Delta  decimal.Decimal `json:"delta"  validate:"required"`
	Motivo string          `json:"motivo" validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type InventarioResponse struct {
	CantidadDisponible decimal.Decimal  `json:"cantidad_disponible"`
	StockMinimo        *decimal.Decimal `json:"stock_minimo"`
}

type ProductoResponse struct {
	ID           string              `json:"id"`
	Nombre       string              `json:"nombre"`
	Descripcion  *string             `json:"descripcion"`
	UnidadMedida string              `json:"unidad_medida"`
	CategoriaID  *string             `json:"categoria_id"`
	Categoria    *string             `json:"categoria"`
	Activo       bool                `json:"activo"`
	Inventario   *InventarioResponse `json:"inventario"`
}

type MovimientoInventarioResponse struct {
	ID               string          `json:"id"`
	ProductoID       string          `json:"producto_id"`
	Tipo             string          `json:"tipo"`
	Cantidad         decimal.Decimal `json:"cantidad"`
	CantidadAnterior decimal.Decimal `json:"cantidad_anterior"`
	CantidadNueva    decimal.Decimal `json:"cantidad_nueva"`
	Motivo           string          `json:"motivo"`
	CreatedAt        string          `json:"created_at"`
}
