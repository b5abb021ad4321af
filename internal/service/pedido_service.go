package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"
	"fondapos/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoService interface {
	Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error)
	ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error)
	RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PedidoResponse, error)
}

type pedidoService struct {
	repo         repository.PedidoRepository
	platilloRepo repository.PlatilloRepository
	productoRepo repository.ProductoRepository
	dispatcher   *worker.Dispatcher
}

func NewPedidoService(
	repo repository.PedidoRepository,
	platilloRepo repository.PlatilloRepository,
	productoRepo repository.ProductoRepository,
	dispatcher *worker.Dispatcher,
) PedidoService {
	return &pedidoService{
		repo:         repo,
		platilloRepo: platilloRepo,
		productoRepo: productoRepo,
		dispatcher:   dispatcher,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Order creation is the one true transaction of the system:
//   1. aggregate duplicate platillos, validate quantities
//   2. resolve dishes, price lines from the current catalog
//   3. expand recipes into per-product consumption
//   4. pre-flight stock check (named error per product)
//   5. BEGIN TX: pedido + detalles + conditional decrements + movimientos
//   6. reload with joins; best-effort low-stock alert afterwards

func (s *pedidoService) Crear(ctx context.Context, req dto.CrearPedidoRequest) (*dto.PedidoResponse, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("el pedido no tiene items")
	}

	estado := model.EstadoPendiente
	if req.Estado != nil && *req.Estado != "" {
		normalizado, ok := model.NormalizarEstado(*req.Estado)
		if !ok {
			return nil, fmt.Errorf("estado inválido: %s", *req.Estado)
		}
		estado = normalizado
	}

	mesaID, err := parseOptionalUUID(req.MesaID, "mesa_id")
	if err != nil {
		return nil, err
	}
	meseroID, err := parseOptionalUUID(req.MeseroID, "mesero_id")
	if err != nil {
		return nil, err
	}

	// 1. Aggregate duplicate platillo ids summing quantities, preserving
	// first-seen order so detail lines come out stable.
	cantidades := make(map[uuid.UUID]int)
	var orden []uuid.UUID
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.PlatilloID)
		if err != nil {
			return nil, fmt.Errorf("platillo_id inválido: %s", item.PlatilloID)
		}
		if item.Cantidad <= 0 {
			return nil, fmt.Errorf("cantidad inválida para el platillo %s", item.PlatilloID)
		}
		if _, visto := cantidades[pid]; !visto {
			orden = append(orden, pid)
		}
		cantidades[pid] += item.Cantidad
	}

	// 2. Resolve dishes and price each aggregated line.
	type lineaResuelta struct {
		platillo *model.Platillo
		cantidad int
		subtotal decimal.Decimal
	}
	var lineas []lineaResuelta
	total := decimal.Zero
	for _, pid := range orden {
		platillo, err := s.platilloRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("platillo %s no encontrado", pid)
		}
		if !platillo.Disponible || !platillo.Activo {
			return nil, fmt.Errorf("el platillo %s no está disponible", platillo.Nombre)
		}
		cantidad := cantidades[pid]
		subtotal := platillo.Precio.Mul(decimal.NewFromInt(int64(cantidad))).Round(2)
		total = total.Add(subtotal)
		lineas = append(lineas, lineaResuelta{platillo: platillo, cantidad: cantidad, subtotal: subtotal})
	}
	total = total.Round(2)

	// 3. Expand recipes: sum per-product consumption across all dishes.
	consumo := make(map[uuid.UUID]decimal.Decimal)
	nombres := make(map[uuid.UUID]string)
	var productosOrden []uuid.UUID
	for _, linea := range lineas {
		for _, ing := range linea.platillo.Ingredientes {
			requerido := ing.CantidadRequerida.Mul(decimal.NewFromInt(int64(linea.cantidad)))
			if _, visto := consumo[ing.ProductoID]; !visto {
				productosOrden = append(productosOrden, ing.ProductoID)
			}
			consumo[ing.ProductoID] = consumo[ing.ProductoID].Add(requerido)
			if ing.Producto != nil {
				nombres[ing.ProductoID] = ing.Producto.Nombre
			}
		}
	}
	for pid := range consumo {
		consumo[pid] = consumo[pid].Round(3)
	}

	// 4. Pre-flight stock check so the caller gets a named error before any
	// row is written. The conditional decrement inside the tx re-checks to
	// guard against concurrent orders racing for the same stock.
	disponibleAntes := make(map[uuid.UUID]decimal.Decimal)
	stockMinimo := make(map[uuid.UUID]*decimal.Decimal)
	for _, pid := range productosOrden {
		inv, err := s.productoRepo.FindInventarioByProductoID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("el producto %s no tiene registro de inventario", nombreProducto(nombres, pid))
		}
		if consumo[pid].GreaterThan(inv.CantidadDisponible) {
			return nil, fmt.Errorf("inventario insuficiente para %s", nombreProducto(nombres, pid))
		}
		disponibleAntes[pid] = inv.CantidadDisponible
		stockMinimo[pid] = inv.StockMinimo
	}

	// 5. ACID transaction: pedido + detalles + decrements + movimientos.
	pedido := model.Pedido{
		MesaID:   mesaID,
		MeseroID: meseroID,
		Estado:   estado,
		Total:    total,
	}
	for _, linea := range lineas {
		pedido.Detalles = append(pedido.Detalles, model.PedidoDetalle{
			PlatilloID:     linea.platillo.ID,
			Cantidad:       linea.cantidad,
			PrecioUnitario: linea.platillo.Precio,
			Subtotal:       linea.subtotal,
		})
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &pedido); err != nil {
			return err
		}
		for _, pid := range productosOrden {
			if err := s.productoRepo.DescontarInventarioTx(tx, pid, consumo[pid]); err != nil {
				if errors.Is(err, repository.ErrInventarioInsuficiente) {
					return fmt.Errorf("inventario insuficiente para %s", nombreProducto(nombres, pid))
				}
				return err
			}
			ref := pedido.ID
			mov := &model.MovimientoInventario{
				ProductoID:       pid,
				Tipo:             "pedido",
				Cantidad:         consumo[pid].Neg(),
				CantidadAnterior: disponibleAntes[pid],
				CantidadNueva:    disponibleAntes[pid].Sub(consumo[pid]),
				Motivo:           fmt.Sprintf("Pedido %s", pedido.ID),
				ReferenciaID:     &ref,
			}
			if err := s.productoRepo.CreateMovimientoTx(tx, mov); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	// 6. Low-stock alert (best-effort, fire & forget).
	if s.dispatcher != nil {
		for _, pid := range productosOrden {
			minimo := stockMinimo[pid]
			if minimo == nil {
				continue
			}
			nueva := disponibleAntes[pid].Sub(consumo[pid])
			if nueva.LessThanOrEqual(*minimo) {
				_ = s.dispatcher.EnqueueAlertaStock(ctx, worker.AlertaStockPayload{
					ProductoID: pid.String(),
					Producto:   nombreProducto(nombres, pid),
					Cantidad:   nueva.String(),
					Minimo:     minimo.String(),
				})
			}
		}
	}

	completo, err := s.repo.FindByID(ctx, pedido.ID)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(completo), nil
}

// ── Listar ────────────────────────────────────────────────────────────────────

func (s *pedidoService) Listar(ctx context.Context, filter dto.PedidoFilter) ([]dto.PedidoResponse, error) {
	if filter.Estado != "" {
		normalizado, ok := model.NormalizarEstado(filter.Estado)
		if !ok {
			return nil, fmt.Errorf("estado inválido: %s", filter.Estado)
		}
		filter.Estado = normalizado
	}
	pedidos, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		resp = append(resp, *pedidoToResponse(&pedidos[i]))
	}
	return resp, nil
}

func (s *pedidoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.PedidoResponse, error) {
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	return pedidoToResponse(pedido), nil
}

// ── ActualizarEstado ──────────────────────────────────────────────────────────

func (s *pedidoService) ActualizarEstado(ctx context.Context, id uuid.UUID, estado string) (*dto.PedidoResponse, error) {
	normalizado, ok := model.NormalizarEstado(estado)
	if !ok {
		return nil, fmt.Errorf("estado inválido: %s", estado)
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("pedido no encontrado")
	}
	if err := s.repo.UpdateEstado(ctx, id, normalizado); err != nil {
		return nil, err
	}
	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// Cumulative payments may exceed the total (tips / cash-over); the pending
// balance clamps at zero instead of capping the payment.

func (s *pedidoService) RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PedidoResponse, error) {
	metodo, ok := model.NormalizarMetodoPago(req.Metodo)
	if !ok {
		return nil, fmt.Errorf("método de pago inválido: %s", req.Metodo)
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto del pago debe ser mayor a cero")
	}
	if req.Cambio != nil && req.Cambio.IsNegative() {
		return nil, errors.New("el cambio no puede ser negativo")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, errors.New("pedido no encontrado")
	}

	pago := &model.PedidoPago{
		PedidoID: id,
		Metodo:   metodo,
		Monto:    req.Monto.Round(2),
		Cambio:   req.Cambio,
	}
	if err := s.repo.CreatePago(ctx, pago); err != nil {
		return nil, err
	}

	pedido, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pedidoToResponse(pedido), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func parseOptionalUUID(s *string, campo string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, fmt.Errorf("%s inválido: %s", campo, *s)
	}
	return &id, nil
}

// fechaISO renders a timestamp in UTC for API responses.
func fechaISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nombreProducto(nombres map[uuid.UUID]string, id uuid.UUID) string {
	if n, ok := nombres[id]; ok && n != "" {
		return n
	}
	return id.String()
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	detalles := make([]dto.DetallePedidoResponse, 0, len(p.Detalles))
	for _, d := range p.Detalles {
		nombre := ""
		if d.Platillo != nil {
			nombre = d.Platillo.Nombre
		}
		detalles = append(detalles, dto.DetallePedidoResponse{
			PlatilloID:     d.PlatilloID.String(),
			Platillo:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal,
		})
	}

	totalPagado := decimal.Zero
	pagos := make([]dto.PagoPedidoResponse, 0, len(p.Pagos))
	for _, pago := range p.Pagos {
		totalPagado = totalPagado.Add(pago.Monto)
		pagos = append(pagos, dto.PagoPedidoResponse{
			ID:        pago.ID.String(),
			Metodo:    pago.Metodo,
			Monto:     pago.Monto,
			Cambio:    pago.Cambio,
			CreatedAt: fechaISO(pago.CreatedAt),
		})
	}
	saldo := p.Total.Sub(totalPagado)
	if saldo.IsNegative() {
		saldo = decimal.Zero
	}

	resp := &dto.PedidoResponse{
		ID:             p.ID.String(),
		Estado:         p.Estado,
		Total:          p.Total,
		TotalPagado:    totalPagado.Round(2),
		SaldoPendiente: saldo.Round(2),
		Detalles:       detalles,
		Pagos:          pagos,
		CreatedAt:      fechaISO(p.CreatedAt),
	}
	if p.MesaID != nil {
		id := p.MesaID.String()
		resp.MesaID = &id
	}
	if p.Mesa != nil {
		resp.Mesa = &p.Mesa.Etiqueta
	}
	if p.MeseroID != nil {
		id := p.MeseroID.String()
		resp.MeseroID = &id
	}
	if p.Mesero != nil {
		resp.Mesero = &p.Mesero.Nombre
	}
	return resp
}
