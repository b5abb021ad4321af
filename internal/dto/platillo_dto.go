package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type IngredienteRequest struct {
	ProductoID        string          `json:"producto_id"        validate:"required,uuid"`
	CantidadRequerida decimal.Decimal `json:"cantidad_requerida" validate:"required"`
}

type CrearPlatilloRequest struct {
	Nombre       string               `json:"nombre"       validate:"required,min=2,max=120"`
	Descripcion  *string              `json:"descripcion"`
	Precio       decimal.Decimal      `json:"precio"       validate:"required"`
	Disponible   *bool                `json:"disponible"`
	ImagenURL    *string              `json:"imagen_url"`
	SupervisorID *string              `json:"supervisor_id" validate:"omitempty,uuid"`
	Ingredientes []IngredienteRequest `json:"ingredientes"  validate:"dive"`
}

// ActualizarPlatilloRequest: partial updates. A supplied Ingredientes array
// replaces the whole recipe (delete-all-then-reinsert).
type ActualizarPlatilloRequest struct {
	Nombre       *string               `json:"nombre"       validate:"omitempty,min=2,max=120"`
	Descripcion  *string               `json:"descripcion"`
	Precio       *decimal.Decimal      `json:"precio"`
	Disponible   *bool                 `json:"disponible"`
	ImagenURL    *string               `json:"imagen_url"`
	Ingredientes *[]IngredienteRequest `json:"ingredientes" validate:"omitempty,dive"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type IngredienteResponse struct {
	ProductoID        string          `json:"producto_id"`
	Producto          string          `json:"producto"`
	UnidadMedida      string          `json:"unidad_medida"`
	CantidadRequerida decimal.Decimal `json:"cantidad_requerida"`
}

type PlatilloResponse struct {
	ID          string          `json:"id"`
	Nombre      string          `json:"nombre"`
	Descripcion *string         `json:"descripcion"`
	Precio      decimal.Decimal `json:"precio"`
	// Disponible in listings derives from CantidadPreparable > 0,
	// independent of the stored flag.
	Disponible         bool                  `json:"disponible"`
	CantidadPreparable int64                 `json:"cantidad_preparable"`
	ImagenURL          *string               `json:"imagen_url"`
	Ingredientes       []IngredienteResponse `json:"ingredientes"`
	CreatedAt          string                `json:"created_at"`
}
