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

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, soloActivos bool) ([]dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	AjustarInventario(ctx context.Context, id uuid.UUID, req dto.AjusteInventarioRequest) (*dto.ProductoResponse, error)
	ListarMovimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoInventarioResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
}

func NewProductoService(repo repository.ProductoRepository) ProductoService {
	return &productoService{repo: repo}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Product and its inventory sub-record are inserted in one transaction so a
// failed inventory insert can never leave an orphan product behind.

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if strings.TrimSpace(req.Nombre) == "" {
		return nil, errors.New("el nombre del producto es obligatorio")
	}
	if req.CantidadInicial.IsNegative() {
		return nil, errors.New("la cantidad inicial no puede ser negativa")
	}
	if req.StockMinimo != nil && req.StockMinimo.IsNegative() {
		return nil, errors.New("el stock mínimo no puede ser negativo")
	}

	categoriaID, err := parseOptionalUUID(req.CategoriaID, "categoria_id")
	if err != nil {
		return nil, err
	}

	unidad := req.UnidadMedida
	if unidad == "" {
		unidad = "unidad"
	}

	producto := &model.Producto{
		Nombre:       strings.TrimSpace(req.Nombre),
		Descripcion:  req.Descripcion,
		UnidadMedida: unidad,
		CategoriaID:  categoriaID,
		Activo:       true,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, producto); err != nil {
			return err
		}
		inv := &model.Inventario{
			ProductoID:         producto.ID,
			CantidadDisponible: req.CantidadInicial.Round(3),
			StockMinimo:        req.StockMinimo,
		}
		return s.repo.CreateInventarioTx(tx, inv)
	})
	if txErr != nil {
		return nil, txErr
	}

	completo, err := s.repo.FindByID(ctx, producto.ID)
	if err != nil {
		return nil, err
	}
	return productoToResponse(completo), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

func (s *productoService) Listar(ctx context.Context, soloActivos bool) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.List(ctx, soloActivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		resp = append(resp, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

// ── Actualizar ────────────────────────────────────────────────────────────────
// Partial-update semantics: only supplied fields are written. At least one
// field (product or inventory) must be present. Every supplied field is
// validated before any row is touched, and both writes share one transaction,
// so a bad inventory value cannot leave a half-applied update behind.

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	if req.Nombre == nil && req.Descripcion == nil && req.UnidadMedida == nil &&
		req.CategoriaID == nil && req.CantidadDisponible == nil && req.StockMinimo == nil {
		return nil, errors.New("no se proporcionaron cambios")
	}

	if req.Nombre != nil && strings.TrimSpace(*req.Nombre) == "" {
		return nil, errors.New("el nombre del producto es obligatorio")
	}
	if req.CantidadDisponible != nil && req.CantidadDisponible.IsNegative() {
		return nil, errors.New("la cantidad disponible no puede ser negativa")
	}
	if req.StockMinimo != nil && req.StockMinimo.IsNegative() {
		return nil, errors.New("el stock mínimo no puede ser negativo")
	}
	categoriaID, err := parseOptionalUUID(req.CategoriaID, "categoria_id")
	if err != nil {
		return nil, err
	}

	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}

	var inv *model.Inventario
	if req.CantidadDisponible != nil || req.StockMinimo != nil {
		inv, err = s.repo.FindInventarioByProductoID(ctx, id)
		if err != nil {
			return nil, errors.New("el producto no tiene registro de inventario")
		}
	}

	if req.Nombre != nil {
		producto.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.UnidadMedida != nil {
		producto.UnidadMedida = *req.UnidadMedida
	}
	if req.CategoriaID != nil {
		producto.CategoriaID = categoriaID
	}
	if inv != nil {
		if req.CantidadDisponible != nil {
			inv.CantidadDisponible = req.CantidadDisponible.Round(3)
		}
		if req.StockMinimo != nil {
			inv.StockMinimo = req.StockMinimo
		}
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, producto); err != nil {
			return err
		}
		if inv != nil {
			return s.repo.UpdateInventarioTx(tx, inv)
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
	return productoToResponse(completo), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("producto no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── AjustarInventario ─────────────────────────────────────────────────────────
// Manual stock correction. The conditional update keeps cantidad >= 0 and an
// immutable movimiento records before/after for the audit trail.

func (s *productoService) AjustarInventario(ctx context.Context, id uuid.UUID, req dto.AjusteInventarioRequest) (*dto.ProductoResponse, error) {
	if req.Delta.IsZero() {
		return nil, errors.New("el ajuste no puede ser cero")
	}

	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	inv, err := s.repo.FindInventarioByProductoID(ctx, id)
	if err != nil {
		return nil, errors.New("el producto no tiene registro de inventario")
	}

	delta := req.Delta.Round(3)
	// Snapshot the pre-adjustment quantity; the audit row must describe the
	// state this request observed, not whatever the record holds afterwards.
	anterior := inv.CantidadDisponible
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.AjustarInventarioTx(tx, id, delta); err != nil {
			if errors.Is(err, repository.ErrInventarioInsuficiente) {
				return fmt.Errorf("inventario insuficiente para %s", producto.Nombre)
			}
			return err
		}
		mov := &model.MovimientoInventario{
			ProductoID:       id,
			Tipo:             "ajuste_manual",
			Cantidad:         delta,
			CantidadAnterior: anterior,
			CantidadNueva:    anterior.Add(delta),
			Motivo:           req.Motivo,
		}
		return s.repo.CreateMovimientoTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	completo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return productoToResponse(completo), nil
}

func (s *productoService) ListarMovimientos(ctx context.Context, id uuid.UUID) ([]dto.MovimientoInventarioResponse, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("producto no encontrado")
	}
	movs, err := s.repo.ListMovimientos(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoInventarioResponse, 0, len(movs))
	for _, m := range movs {
		resp = append(resp, dto.MovimientoInventarioResponse{
			ID:               m.ID.String(),
			ProductoID:       m.ProductoID.String(),
			Tipo:             m.Tipo,
			Cantidad:         m.Cantidad,
			CantidadAnterior: m.CantidadAnterior,
			CantidadNueva:    m.CantidadNueva,
			Motivo:           m.Motivo,
			CreatedAt:        fechaISO(m.CreatedAt),
		})
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	if p.Inventario != nil {
		resp.Inventario = &dto.InventarioResponse{
			CantidadDisponible: p.Inventario.CantidadDisponible,
			StockMinimo:        p.Inventario.StockMinimo,
		}
	}
	return resp
}
