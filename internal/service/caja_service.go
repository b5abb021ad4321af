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
)

type CajaService interface {
	Abrir(ctx context.Context, supervisorID uuid.UUID) (*dto.CajaResponse, error)
	Cerrar(ctx context.Context, id uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error)
	RegistrarTransaccion(ctx context.Context, cajaID uuid.UUID, req dto.TransaccionCajaRequest) (*dto.CajaResponse, error)
	Actual(ctx context.Context) (*dto.CajaResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error)
	Listar(ctx context.Context) ([]dto.CajaResponse, error)
}

type cajaService struct {
	repo       repository.CajaRepository
	dispatcher *worker.Dispatcher
}

func NewCajaService(repo repository.CajaRepository, dispatcher *worker.Dispatcher) CajaService {
	return &cajaService{repo: repo, dispatcher: dispatcher}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────
// Only one caja may be open at a time. The opening amount carries over from
// the previous session's declared closing amount (0 for the very first one).

func (s *cajaService) Abrir(ctx context.Context, supervisorID uuid.UUID) (*dto.CajaResponse, error) {
	if abierta, err := s.repo.FindAbierta(ctx); err == nil && abierta != nil {
		return nil, errors.New("ya existe una caja abierta")
	}

	apertura := decimal.Zero
	if anterior, err := s.repo.FindUltimaCerrada(ctx); err == nil && anterior != nil && anterior.MontoCierre != nil {
		apertura = *anterior.MontoCierre
	}

	caja := &model.Caja{
		SupervisorID:  supervisorID,
		MontoApertura: apertura,
		AbiertaEn:     time.Now(),
	}
	if err := s.repo.Create(ctx, caja); err != nil {
		return nil, err
	}
	return cajaToResponse(caja), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Diferencia = monto declarado - balance calculado, persisted at close time.

func (s *cajaService) Cerrar(ctx context.Context, id uuid.UUID, req dto.CerrarCajaRequest) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	if caja.CerradaEn != nil {
		return nil, errors.New("la caja ya está cerrada")
	}
	if req.MontoCierre.IsNegative() {
		return nil, errors.New("el monto de cierre no puede ser negativo")
	}

	balance, _, _ := balanceCaja(caja)
	diferencia := req.MontoCierre.Sub(balance).Round(2)
	cierre := req.MontoCierre.Round(2)
	ahora := time.Now()

	caja.MontoCierre = &cierre
	caja.Diferencia = &diferencia
	caja.CerradaEn = &ahora
	if err := s.repo.Update(ctx, caja); err != nil {
		return nil, err
	}

	// Resumen de cierre por correo — best-effort, fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueEmail(ctx, worker.EmailJobPayload{
			Subject: fmt.Sprintf("Cierre de caja %s", caja.ID),
			Body: fmt.Sprintf(
				"Apertura: %s\nBalance calculado: %s\nMonto declarado: %s\nDiferencia: %s\n",
				caja.MontoApertura, balance, cierre, diferencia),
		})
	}

	return cajaToResponse(caja), nil
}

// ── RegistrarTransaccion ──────────────────────────────────────────────────────
// Transactions are immutable ledger entries — no update, no delete.

func (s *cajaService) RegistrarTransaccion(ctx context.Context, cajaID uuid.UUID, req dto.TransaccionCajaRequest) (*dto.CajaResponse, error) {
	tipo, ok := model.NormalizarTipoTransaccion(req.Tipo)
	if !ok {
		return nil, fmt.Errorf("tipo de transacción inválido: %s", req.Tipo)
	}
	if !req.Monto.IsPositive() {
		return nil, errors.New("el monto debe ser mayor a cero")
	}

	caja, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	if caja.CerradaEn != nil {
		return nil, errors.New("la caja ya está cerrada")
	}

	t := &model.TransaccionCaja{
		CajaID:      cajaID,
		Tipo:        tipo,
		Monto:       req.Monto.Round(2),
		Descripcion: req.Descripcion,
	}
	if err := s.repo.CreateTransaccion(ctx, t); err != nil {
		return nil, err
	}

	actualizada, err := s.repo.FindByID(ctx, cajaID)
	if err != nil {
		return nil, err
	}
	return cajaToResponse(actualizada), nil
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *cajaService) Actual(ctx context.Context) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindAbierta(ctx)
	if err != nil || caja == nil {
		return nil, errors.New("no hay caja abierta")
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.CajaResponse, error) {
	caja, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("caja no encontrada")
	}
	return cajaToResponse(caja), nil
}

func (s *cajaService) Listar(ctx context.Context) ([]dto.CajaResponse, error) {
	cajas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.CajaResponse, 0, len(cajas))
	for i := range cajas {
		resp = append(resp, *cajaToResponse(&cajas[i]))
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// balanceCaja computes apertura + ingresos - egresos over the loaded ledger.
func balanceCaja(c *model.Caja) (balance, ingresos, egresos decimal.Decimal) {
	ingresos = decimal.Zero
	egresos = decimal.Zero
	for _, t := range c.Transacciones {
		switch t.Tipo {
		case model.TransaccionIngreso:
			ingresos = ingresos.Add(t.Monto)
		case model.TransaccionEgreso:
			egresos = egresos.Add(t.Monto)
		}
	}
	balance = c.MontoApertura.Add(ingresos).Sub(egresos).Round(2)
	return balance, ingresos.Round(2), egresos.Round(2)
}

func cajaToResponse(c *model.Caja) *dto.CajaResponse {
	balance, ingresos, egresos := balanceCaja(c)

	transacciones := make([]dto.TransaccionCajaResponse, 0, len(c.Transacciones))
	for _, t := range c.Transacciones {
		transacciones = append(transacciones, dto.TransaccionCajaResponse{
			ID:          t.ID.String(),
			Tipo:        t.Tipo,
			Monto:       t.Monto,
			Descripcion: t.Descripcion,
			CreatedAt:   fechaISO(t.CreatedAt),
		})
	}

	resp := &dto.CajaResponse{
		ID:            c.ID.String(),
		SupervisorID:  c.SupervisorID.String(),
		MontoApertura: c.MontoApertura,
		MontoCierre:   c.MontoCierre,
		Balance:       balance,
		TotalIngresos: ingresos,
		TotalEgresos:  egresos,
		Diferencia:    c.Diferencia,
		Abierta:       c.CerradaEn == nil,
		AbiertaEn:     fechaISO(c.AbiertaEn),
		Transacciones: transacciones,
	}
	if c.Supervisor != nil {
		resp.Supervisor = &c.Supervisor.Nombre
	}
	if c.CerradaEn != nil {
		t := fechaISO(*c.CerradaEn)
		resp.CerradaEn = &t
	}
	return resp
}
