package service_test

import (
	"context"
	"errors"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Producto stub ─────────────────────────────────────────────────────────────

// stubProductoRepo is an in-memory ProductoRepository for testing.
type stubProductoRepo struct {
	productos   map[uuid.UUID]*model.Producto
	inventarios map[uuid.UUID]*model.Inventario // by producto_id
	movimientos []model.MovimientoInventario
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos:   make(map[uuid.UUID]*model.Producto),
		inventarios: make(map[uuid.UUID]*model.Inventario),
	}
}

func (r *stubProductoRepo) agregar(nombre string, disponible decimal.Decimal, minimo *decimal.Decimal) *model.Producto {
	p := &model.Producto{ID: uuid.New(), Nombre: nombre, UnidadMedida: "unidad", Activo: true}
	inv := &model.Inventario{ID: uuid.New(), ProductoID: p.ID, CantidadDisponible: disponible, StockMinimo: minimo}
	p.Inventario = inv
	r.productos[p.ID] = p
	r.inventarios[p.ID] = inv
	return p
}

func (r *stubProductoRepo) CreateTx(_ *gorm.DB, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) CreateInventarioTx(_ *gorm.DB, inv *model.Inventario) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.inventarios[inv.ProductoID] = inv
	if p, ok := r.productos[inv.ProductoID]; ok {
		p.Inventario = inv
	}
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	p.Inventario = r.inventarios[id]
	return p, nil
}

func (r *stubProductoRepo) List(_ context.Context, soloActivos bool) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if soloActivos && !p.Activo {
			continue
		}
		p.Inventario = r.inventarios[p.ID]
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	if _, ok := r.productos[p.ID]; !ok {
		return errors.New("not found")
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) UpdateInventarioTx(_ *gorm.DB, inv *model.Inventario) error {
	r.inventarios[inv.ProductoID] = inv
	return nil
}

func (r *stubProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Activo = false
	return nil
}

func (r *stubProductoRepo) FindInventarioByProductoID(_ context.Context, productoID uuid.UUID) (*model.Inventario, error) {
	inv, ok := r.inventarios[productoID]
	if !ok {
		return nil, errors.New("not found")
	}
	return inv, nil
}

func (r *stubProductoRepo) DescontarInventarioTx(_ *gorm.DB, productoID uuid.UUID, cantidad decimal.Decimal) error {
	inv, ok := r.inventarios[productoID]
	if !ok || inv.CantidadDisponible.LessThan(cantidad) {
		return repository.ErrInventarioInsuficiente
	}
	inv.CantidadDisponible = inv.CantidadDisponible.Sub(cantidad)
	return nil
}

func (r *stubProductoRepo) AjustarInventarioTx(_ *gorm.DB, productoID uuid.UUID, delta decimal.Decimal) error {
	inv, ok := r.inventarios[productoID]
	if !ok || inv.CantidadDisponible.Add(delta).IsNegative() {
		return repository.ErrInventarioInsuficiente
	}
	inv.CantidadDisponible = inv.CantidadDisponible.Add(delta)
	return nil
}

func (r *stubProductoRepo) CreateMovimientoTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubProductoRepo) ListMovimientos(_ context.Context, productoID uuid.UUID) ([]model.MovimientoInventario, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── Platillo stub ─────────────────────────────────────────────────────────────

type stubPlatilloRepo struct {
	platillos map[uuid.UUID]*model.Platillo
}

func newStubPlatilloRepo() *stubPlatilloRepo {
	return &stubPlatilloRepo{platillos: make(map[uuid.UUID]*model.Platillo)}
}

func (r *stubPlatilloRepo) CreateTx(_ *gorm.DB, p *model.Platillo) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.platillos[p.ID] = p
	return nil
}

func (r *stubPlatilloRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Platillo, error) {
	p, ok := r.platillos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPlatilloRepo) List(_ context.Context) ([]model.Platillo, error) {
	var out []model.Platillo
	for _, p := range r.platillos {
		if p.Activo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubPlatilloRepo) UpdateTx(_ *gorm.DB, p *model.Platillo) error {
	if _, ok := r.platillos[p.ID]; !ok {
		return errors.New("not found")
	}
	r.platillos[p.ID] = p
	return nil
}

func (r *stubPlatilloRepo) ReplaceIngredientesTx(_ *gorm.DB, platilloID uuid.UUID, ingredientes []model.PlatilloIngrediente) error {
	p, ok := r.platillos[platilloID]
	if !ok {
		return errors.New("not found")
	}
	for i := range ingredientes {
		ingredientes[i].PlatilloID = platilloID
	}
	p.Ingredientes = ingredientes
	return nil
}

func (r *stubPlatilloRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.platillos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Activo = false
	return nil
}

func (r *stubPlatilloRepo) DB() *gorm.DB { return nil }

var _ repository.PlatilloRepository = (*stubPlatilloRepo)(nil)

// ── Pedido stub ───────────────────────────────────────────────────────────────

type stubPedidoRepo struct {
	pedidos map[uuid.UUID]*model.Pedido
	orden   []uuid.UUID
}

func newStubPedidoRepo() *stubPedidoRepo {
	return &stubPedidoRepo{pedidos: make(map[uuid.UUID]*model.Pedido)}
}

func (r *stubPedidoRepo) CreateTx(_ *gorm.DB, p *model.Pedido) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	for i := range p.Detalles {
		if p.Detalles[i].ID == uuid.Nil {
			p.Detalles[i].ID = uuid.New()
		}
		p.Detalles[i].PedidoID = p.ID
	}
	r.pedidos[p.ID] = p
	r.orden = append(r.orden, p.ID)
	return nil
}

func (r *stubPedidoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	p, ok := r.pedidos[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return p, nil
}

func (r *stubPedidoRepo) List(_ context.Context, filter dto.PedidoFilter) ([]model.Pedido, error) {
	var out []model.Pedido
	for i := len(r.orden) - 1; i >= 0; i-- {
		p := r.pedidos[r.orden[i]]
		if filter.Estado != "" && p.Estado != filter.Estado {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (r *stubPedidoRepo) UpdateEstado(_ context.Context, id uuid.UUID, estado string) error {
	p, ok := r.pedidos[id]
	if !ok {
		return errors.New("not found")
	}
	p.Estado = estado
	return nil
}

func (r *stubPedidoRepo) CreatePago(_ context.Context, pago *model.PedidoPago) error {
	p, ok := r.pedidos[pago.PedidoID]
	if !ok {
		return errors.New("not found")
	}
	if pago.ID == uuid.Nil {
		pago.ID = uuid.New()
	}
	pago.CreatedAt = time.Now()
	p.Pagos = append(p.Pagos, *pago)
	return nil
}

func (r *stubPedidoRepo) DB() *gorm.DB { return nil }

var _ repository.PedidoRepository = (*stubPedidoRepo)(nil)

// ── Caja stub ─────────────────────────────────────────────────────────────────

type stubCajaRepo struct {
	cajas map[uuid.UUID]*model.Caja
	orden []uuid.UUID
}

func newStubCajaRepo() *stubCajaRepo {
	return &stubCajaRepo{cajas: make(map[uuid.UUID]*model.Caja)}
}

func (r *stubCajaRepo) Create(_ context.Context, c *model.Caja) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cajas[c.ID] = c
	r.orden = append(r.orden, c.ID)
	return nil
}

func (r *stubCajaRepo) FindAbierta(_ context.Context) (*model.Caja, error) {
	for _, c := range r.cajas {
		if c.CerradaEn == nil {
			return c, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubCajaRepo) FindUltimaCerrada(_ context.Context) (*model.Caja, error) {
	var ultima *model.Caja
	for _, c := range r.cajas {
		if c.CerradaEn == nil {
			continue
		}
		if ultima == nil || c.CerradaEn.After(*ultima.CerradaEn) {
			ultima = c
		}
	}
	if ultima == nil {
		return nil, errors.New("not found")
	}
	return ultima, nil
}

func (r *stubCajaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Caja, error) {
	c, ok := r.cajas[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

func (r *stubCajaRepo) Update(_ context.Context, c *model.Caja) error {
	if _, ok := r.cajas[c.ID]; !ok {
		return errors.New("not found")
	}
	r.cajas[c.ID] = c
	return nil
}

func (r *stubCajaRepo) CreateTransaccion(_ context.Context, t *model.TransaccionCaja) error {
	c, ok := r.cajas[t.CajaID]
	if !ok {
		return errors.New("not found")
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = time.Now()
	c.Transacciones = append(c.Transacciones, *t)
	return nil
}

func (r *stubCajaRepo) List(_ context.Context) ([]model.Caja, error) {
	var out []model.Caja
	for i := len(r.orden) - 1; i >= 0; i-- {
		out = append(out, *r.cajas[r.orden[i]])
	}
	return out, nil
}

var _ repository.CajaRepository = (*stubCajaRepo)(nil)

// ── Usuario stub ──────────────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if u.Activo {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUsuarioRepo) ListAll(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	if _, ok := r.usuarios[u.ID]; !ok {
		return errors.New("not found")
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Activo = false
	return nil
}

func (r *stubUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("not found")
	}
	u.Activo = true
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)
