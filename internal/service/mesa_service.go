package service

import (
	"context"
	"errors"
	"strings"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
)

type MesaService interface {
	Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	Listar(ctx context.Context, soloActivas bool) ([]dto.MesaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type mesaService struct {
	repo repository.MesaRepository
}

func NewMesaService(repo repository.MesaRepository) MesaService {
	return &mesaService{repo: repo}
}

func (s *mesaService) Crear(ctx context.Context, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	etiqueta := strings.TrimSpace(req.Etiqueta)
	if etiqueta == "" {
		return nil, errors.New("la etiqueta de la mesa es obligatoria")
	}
	mesa := &model.Mesa{Etiqueta: etiqueta, Activa: true}
	if err := s.repo.Create(ctx, mesa); err != nil {
		return nil, err
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) Listar(ctx context.Context, soloActivas bool) ([]dto.MesaResponse, error) {
	mesas, err := s.repo.List(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		resp = append(resp, *mesaToResponse(&mesas[i]))
	}
	return resp, nil
}

func (s *mesaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error) {
	if req.Etiqueta == nil && req.Activa == nil {
		return nil, errors.New("no se proporcionaron cambios")
	}
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("mesa no encontrada")
	}
	if req.Etiqueta != nil {
		etiqueta := strings.TrimSpace(*req.Etiqueta)
		if etiqueta == "" {
			return nil, errors.New("la etiqueta de la mesa es obligatoria")
		}
		mesa.Etiqueta = etiqueta
	}
	if req.Activa != nil {
		mesa.Activa = *req.Activa
	}
	if err := s.repo.Update(ctx, mesa); err != nil {
		return nil, err
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("mesa no encontrada")
	}
	mesa.Activa = false
	return s.repo.Update(ctx, mesa)
}

func mesaToResponse(m *model.Mesa) *dto.MesaResponse {
	return &dto.MesaResponse{
		ID:       m.ID.String(),
		Etiqueta: m.Etiqueta,
		Activa:   m.Activa,
	}
}
