package dto

type CrearMesaRequest struct {
	Etiqueta string `json:"etiqueta" validate:"required,min=1,max=40"`
}

type ActualizarMesaRequest struct {
	Etiqueta *string `json:"etiqueta" validate:"omitempty,min=1,max=40"`
	Activa   *bool   `json:"activa"`
}

type MesaResponse struct {
	ID       string `json:"id"`
	Etiqueta string `json:"etiqueta"`
	Activa   bool   `json:"activa"`
}
