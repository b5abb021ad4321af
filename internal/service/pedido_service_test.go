package service_test

import (
	"context"
	"testing"
	"time"

	"fondapos/internal/dto"
	"fondapos/internal/model"
	"fondapos/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// agregarPlatillo registers a dish whose recipe consumes the given products.
func agregarPlatillo(repo *stubPlatilloRepo, nombre string, precio decimal.Decimal, receta map[*model.Producto]decimal.Decimal) *model.Platillo {
	p := &model.Platillo{
		ID:         uuid.New(),
		Nombre:     nombre,
		Precio:     precio,
		Disponible: true,
		Activo:     true,
	}
	for producto, cantidad := range receta {
		p.Ingredientes = append(p.Ingredientes, model.PlatilloIngrediente{
			ID:                uuid.New(),
			PlatilloID:        p.ID,
			ProductoID:        producto.ID,
			CantidadRequerida: cantidad,
			Producto:          producto,
		})
	}
	repo.platillos[p.ID] = p
	return p
}

func buildPedidoSvc() (service.PedidoService, *stubPedidoRepo, *stubPlatilloRepo, *stubProductoRepo) {
	pedidoRepo := newStubPedidoRepo()
	platilloRepo := newStubPlatilloRepo()
	productoRepo := newStubProductoRepo()
	svc := service.NewPedidoService(pedidoRepo, platilloRepo, productoRepo, nil)
	return svc, pedidoRepo, platilloRepo, productoRepo
}

func TestCrearPedidoSinItems(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()

	_, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{})
	require.Error(t, err)
	assert.Equal(t, "el pedido no tiene items", err.Error())
}

func TestCrearPedidoAgregaDuplicadosYDescuentaInventario(t *testing.T) {
	svc, pedidoRepo, platilloRepo, productoRepo := buildPedidoSvc()

	tortilla := productoRepo.agregar("Tortilla", dec("10"), nil)
	tacos := agregarPlatillo(platilloRepo, "Tacos al pastor", dec("35.50"),
		map[*model.Producto]decimal.Decimal{tortilla: dec("0.2")})

	resp, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{
			{PlatilloID: tacos.ID.String(), Cantidad: 2},
			{PlatilloID: tacos.ID.String(), Cantidad: 1},
		},
	})
	require.NoError(t, err)

	// Duplicate lines collapse into one aggregated detail.
	require.Len(t, resp.Detalles, 1)
	assert.Equal(t, 3, resp.Detalles[0].Cantidad)
	assert.True(t, resp.Detalles[0].Subtotal.Equal(dec("106.50")),
		"subtotal = %s", resp.Detalles[0].Subtotal)
	assert.True(t, resp.Total.Equal(dec("106.50")), "total = %s", resp.Total)
	assert.Equal(t, model.EstadoPendiente, resp.Estado)

	// 3 tacos × 0.2 tortilla = 0.6 deducted.
	inv := productoRepo.inventarios[tortilla.ID]
	assert.True(t, inv.CantidadDisponible.Equal(dec("9.4")),
		"disponible = %s", inv.CantidadDisponible)

	// One persisted order, one audit movimiento with the signed quantity.
	assert.Len(t, pedidoRepo.pedidos, 1)
	require.Len(t, productoRepo.movimientos, 1)
	mov := productoRepo.movimientos[0]
	assert.Equal(t, "pedido", mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec("-0.6")))
	assert.True(t, mov.CantidadAnterior.Equal(dec("10")))
	assert.True(t, mov.CantidadNueva.Equal(dec("9.4")))
}

func TestCrearPedidoInventarioInsuficienteNoEscribeNada(t *testing.T) {
	svc, pedidoRepo, platilloRepo, productoRepo := buildPedidoSvc()

	queso := productoRepo.agregar("Queso", dec("4"), nil)
	quesadilla := agregarPlatillo(platilloRepo, "Quesadilla grande", dec("60"),
		map[*model.Producto]decimal.Decimal{queso: dec("5")})

	_, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: quesadilla.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "inventario insuficiente para Queso", err.Error())

	// No order, no deduction, no audit trail.
	assert.Empty(t, pedidoRepo.pedidos)
	assert.True(t, productoRepo.inventarios[queso.ID].CantidadDisponible.Equal(dec("4")))
	assert.Empty(t, productoRepo.movimientos)
}

func TestCrearPedidoSinRegistroDeInventario(t *testing.T) {
	svc, _, platilloRepo, productoRepo := buildPedidoSvc()

	// Product registered without its inventory sub-record.
	harina := &model.Producto{ID: uuid.New(), Nombre: "Harina", UnidadMedida: "kg", Activo: true}
	productoRepo.productos[harina.ID] = harina
	sope := agregarPlatillo(platilloRepo, "Sope", dec("25"),
		map[*model.Producto]decimal.Decimal{harina: dec("0.1")})

	_, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: sope.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "el producto Harina no tiene registro de inventario", err.Error())
}

func TestCrearPedidoPlatilloNoDisponible(t *testing.T) {
	svc, _, platilloRepo, productoRepo := buildPedidoSvc()

	maiz := productoRepo.agregar("Maíz", dec("50"), nil)
	pozole := agregarPlatillo(platilloRepo, "Pozole", dec("80"),
		map[*model.Producto]decimal.Decimal{maiz: dec("0.3")})
	pozole.Disponible = false

	_, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: pozole.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Equal(t, "el platillo Pozole no está disponible", err.Error())
}

func TestRegistrarPagoAcumulaYClampaSaldo(t *testing.T) {
	svc, _, platilloRepo, productoRepo := buildPedidoSvc()

	frijol := productoRepo.agregar("Frijol", dec("100"), nil)
	plato := agregarPlatillo(platilloRepo, "Plato fuerte", dec("100"),
		map[*model.Producto]decimal.Decimal{frijol: dec("0.1")})

	creado, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: plato.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)
	pedidoID := uuid.MustParse(creado.ID)

	resp, err := svc.RegistrarPago(context.Background(), pedidoID, dto.RegistrarPagoRequest{
		Metodo: "efectivo", Monto: dec("60"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalPagado.Equal(dec("60")))
	assert.True(t, resp.SaldoPendiente.Equal(dec("40")))
	assert.Equal(t, model.MetodoEfectivo, resp.Pagos[0].Metodo)

	// Overpayment is allowed; the pending balance clamps at zero.
	resp, err = svc.RegistrarPago(context.Background(), pedidoID, dto.RegistrarPagoRequest{
		Metodo: "Tarjeta", Monto: dec("60"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalPagado.Equal(dec("120")))
	assert.True(t, resp.SaldoPendiente.Equal(decimal.Zero))
}

func TestPagoTimestampEnUTC(t *testing.T) {
	svc, _, platilloRepo, productoRepo := buildPedidoSvc()

	arroz := productoRepo.agregar("Arroz", dec("10"), nil)
	plato := agregarPlatillo(platilloRepo, "Arroz blanco", dec("25"),
		map[*model.Producto]decimal.Decimal{arroz: dec("0.1")})

	creado, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: plato.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	resp, err := svc.RegistrarPago(context.Background(), uuid.MustParse(creado.ID), dto.RegistrarPagoRequest{
		Metodo: "Efectivo", Monto: dec("25"),
	})
	require.NoError(t, err)

	// The rendered timestamp must be real UTC, not local time with a fake Z.
	ts, err := time.Parse(time.RFC3339, resp.Pagos[0].CreatedAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), ts, time.Minute)
}

func TestRegistrarPagoMetodoInvalido(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()

	_, err := svc.RegistrarPago(context.Background(), uuid.New(), dto.RegistrarPagoRequest{
		Metodo: "Cheque", Monto: dec("10"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "método de pago inválido")
}

func TestListarPedidosEstadoInvalido(t *testing.T) {
	svc, _, _, _ := buildPedidoSvc()

	_, err := svc.Listar(context.Background(), dto.PedidoFilter{Estado: "Fantasma"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estado inválido")
}

func TestActualizarEstadoNormalizaMayusculas(t *testing.T) {
	svc, _, platilloRepo, productoRepo := buildPedidoSvc()

	arroz := productoRepo.agregar("Arroz", dec("10"), nil)
	plato := agregarPlatillo(platilloRepo, "Arroz con pollo", dec("70"),
		map[*model.Producto]decimal.Decimal{arroz: dec("0.2")})

	creado, err := svc.Crear(context.Background(), dto.CrearPedidoRequest{
		Items: []dto.ItemPedidoRequest{{PlatilloID: plato.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	resp, err := svc.ActualizarEstado(context.Background(), uuid.MustParse(creado.ID), "pagada")
	require.NoError(t, err)
	assert.Equal(t, model.EstadoPagada, resp.Estado)
}
