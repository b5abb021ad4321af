package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PlatilloService interface {
	Crear(ctx context.Context, req dto.CrearPlatilloRequest) (*dto.PlatilloResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PlatilloResponse, error)
	Listar(ctx context.Context) ([]dto.PlatilloResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlatilloRequest) (*dto.PlatilloResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type platilloService struct {
	repo         repository.PlatilloRepository
	productoRepo repository.ProductoRepository
}

func NewPlatilloService(repo repository.PlatilloRepository, productoRepo repository.ProductoRepository) PlatilloService {
	return &platilloService{repo: repo, productoRepo: productoRepo}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func (s *platilloService) Crear(ctx context.Context, req dto.CrearPlatilloRequest) (*dto.PlatilloResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, errors.New("el nombre del platillo es obligatorio")
	}
	if !req.Precio.IsPositive() {
		return nil, errors.New("el precio debe ser mayor a cero")
	}

	supervisorID, err := parseOptionalUUID(req.SupervisorID, "supervisor_id")
	if err != nil {
		return nil, err
	}

	ingredientes, err := s.validarIngredientes(ctx, req.Ingredientes)
	if err != nil {
		return nil, err
	}

	disponible := true
	if req.Disponible != nil {
		disponible = *req.Disponible
	}

	platillo := &model.Platillo{
		Nombre:       strings.TrimSpace(req.Nombre),
		Descripcion:  req.Descripcion,
		Precio:       req.Precio.Round(2),
		Disponible:   disponible,
		ImagenURL:    req.ImagenURL,
		SupervisorID: supervisorID,
		Activo:       true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, platillo); err != nil {
			return err
		}
		return s.repo.ReplaceIngredientesTx(tx, platillo.ID, ingredientes)
	})
	if txErr != nil {
		return nil, txErr
	}

	completo, err := s.repo.FindByID(ctx, platillo.ID)
	if err != nil {
		return nil, err
	}
	return platilloToResponse(completo), nil
}

func (s *platilloService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PlatilloResponse, error) {
	platillo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("platillo no encontrado")
	}
	return platilloToResponse(platillo), nil
}

func (s *platilloService) Listar(ctx context.Context) ([]dto.PlatilloResponse, error) {
	platillos, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PlatilloResponse, 0, len(platillos))
	for i := range platillos {
		resp = append(resp, *platilloToResponse(&platillos[i]))
	}
	return resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// A supplied Ingredientes array replaces the whole recipe atomically with the
// field updates. Sending an empty array clears the recipe.

func (s *platilloService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarPlatilloRequest) (*dto.PlatilloResponse, error) {
	if req.Nombre == nil && req.Descripcion == nil && req.Precio == nil &&
		req.Disponible == nil && req.ImagenURL == nil && req.Ingredientes == nil {
		return nil, errors.New("no se proporcionaron cambios")
	}

	platillo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("platillo no encontrado")
	}

	if req.Nombre != nil {
		if strings.TrimSpace(*req.Nombre) == "" {
			return nil, errors.New("el nombre del platillo es obligatorio")
		}
		platillo.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		platillo.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		if !req.Precio.IsPositive() {
			return nil, errors.New("el precio debe ser mayor a cero")
		}
		platillo.Precio = req.Precio.Round(2)
	}
	if req.Disponible != nil {
		platillo.Disponible = *req.Disponible
	}
	if req.ImagenURL != nil {
		platillo.ImagenURL = req.ImagenURL
	}

	var ingredientes []model.PlatilloIngrediente
	if req.Ingredientes != nil {
		ingredientes, err = s.validarIngredientes(ctx, *req.Ingredientes)
		if err != nil {
			return nil, err
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, platillo); err != nil {
			return err
		}
		if req.Ingredientes != nil {
			return s.repo.ReplaceIngredientesTx(tx, id, ingredientes)
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	completo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return platilloToResponse(completo), nil
}

func (s *platilloService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("platillo no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// validarIngredientes resolves each recipe line against the product catalog,
// rejecting duplicates and non-positive quantities.
func (s *platilloService) validarIngredientes(ctx context.Context, items []dto.IngredienteRequest) ([]model.PlatilloIngrediente, error) {
	vistos := make(map[uuid.UUID]bool, len(items))
	ingredientes := make([]model.PlatilloIngrediente, 0, len(items))

	for _, item := range items {
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %s", item.ProductoID)
		}
		if vistos[productoID] {
			return nil, fmt.Errorf("producto repetido en la receta: %s", item.ProductoID)
		}
		vistos[productoID] = true

		if !item.CantidadRequerida.IsPositive() {
			return nil, fmt.Errorf("cantidad requerida inválida para el producto %s", item.ProductoID)
		}
		producto, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}

		// The resolved product (with its inventory) rides along on the row so
		// the preparable count can be derived without a reload.
		ingredientes = append(ingredientes, model.PlatilloIngrediente{
			ProductoID:        productoID,
			CantidadRequerida: item.CantidadRequerida.Round(3),
			Producto:          producto,
		})
	}
	return ingredientes, nil
}

// cantidadPreparable is the bottleneck over the recipe: the minimum of
// floor(disponible / requerida) across all ingredients. A dish with no
// recipe, or with an ingredient lacking inventory, yields 0.
func cantidadPreparable(p *model.Platillo) int64 {
	if len(p.Ingredientes) == 0 {
		return 0
	}
	var minimo int64 = -1
	for _, ing := range p.Ingredientes {
		if ing.Producto == nil || ing.Producto.Inventario == nil || !ing.CantidadRequerida.IsPositive() {
			return 0
		}
		porciones := ing.Producto.Inventario.CantidadDisponible.
			Div(ing.CantidadRequerida).
			Floor().
			IntPart()
		if porciones < 0 {
			porciones = 0
		}
		if minimo < 0 || porciones < minimo {
			minimo = porciones
		}
	}
	if minimo < 0 {
		return 0
	}
	return minimo
}

func platilloToResponse(p *model.Platillo) *dto.PlatilloResponse {
	preparable := cantidadPreparable(p)

	ingredientes := make([]dto.IngredienteResponse, 0, len(p.Ingredientes))
	for _, ing := range p.Ingredientes {
		ir := dto.IngredienteResponse{
			ProductoID:        ing.ProductoID.String(),
			CantidadRequerida: ing.CantidadRequerida,
		}
		if ing.Producto != nil {
			ir.Producto = ing.Producto.Nombre
			ir.UnidadMedida = ing.Producto.UnidadMedida
		}
		ingredientes = append(ingredientes, ir)
	}

	return &dto.PlatilloResponse{
		ID:                 p.ID.String(),
		Nombre:             p.Nombre,
		Descripcion:        p.Descripcion,
		Precio:             p.Precio,
		Disponible:         p.Disponible && preparable > 0,
		CantidadPreparable: preparable,
		ImagenURL:          p.ImagenURL,
		Ingredientes:       ingredientes,
		CreatedAt:          fechaISO(p.CreatedAt),
	}
}
