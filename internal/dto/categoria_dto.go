package dto

type CrearCategoriaRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=80"`
}

type CategoriaResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Activo bool   `json:"activo"`
}
