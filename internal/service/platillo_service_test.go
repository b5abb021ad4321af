package service_test

import (
	"context"
	"testing"

	"fondapos/internal/dto"
	"fondapos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildPlatilloSvc() (service.PlatilloService, *stubPlatilloRepo, *stubProductoRepo) {
	platilloRepo := newStubPlatilloRepo()
	productoRepo := newStubProductoRepo()
	return service.NewPlatilloService(platilloRepo, productoRepo), platilloRepo, productoRepo
}

func TestCrearPlatilloConReceta(t *testing.T) {
	svc, _, productoRepo := buildPlatilloSvc()

	tortilla := productoRepo.agregar("Tortilla", dec("10"), nil)
	carne := productoRepo.agregar("Carne", dec("5"), nil)

	resp, err := svc.Crear(context.Background(), dto.CrearPlatilloRequest{
		Nombre: "Tacos al pastor",
		Precio: dec("35.5"),
		Ingredientes: []dto.IngredienteRequest{
			{ProductoID: tortilla.ID.String(), CantidadRequerida: dec("2")},
			{ProductoID: carne.ID.String(), CantidadRequerida: dec("1")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Tacos al pastor", resp.Nombre)
	assert.True(t, resp.Precio.Equal(dec("35.50")))
	assert.Len(t, resp.Ingredientes, 2)

	// Bottleneck: min(floor(10/2), floor(5/1)) = 5 portions.
	assert.Equal(t, int64(5), resp.CantidadPreparable)
	assert.True(t, resp.Disponible)
}

func TestCrearPlatilloProductoRepetidoEnReceta(t *testing.T) {
	svc, _, productoRepo := buildPlatilloSvc()
	queso := productoRepo.agregar("Queso", dec("10"), nil)

	_, err := svc.Crear(context.Background(), dto.CrearPlatilloRequest{
		Nombre: "Quesadilla",
		Precio: dec("40"),
		Ingredientes: []dto.IngredienteRequest{
			{ProductoID: queso.ID.String(), CantidadRequerida: dec("1")},
			{ProductoID: queso.ID.String(), CantidadRequerida: dec("2")},
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "producto repetido en la receta")
}

func TestPlatilloSinRecetaNoEsPreparable(t *testing.T) {
	svc, _, _ := buildPlatilloSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearPlatilloRequest{
		Nombre: "Especial del día",
		Precio: dec("99"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.CantidadPreparable)
	assert.False(t, resp.Disponible)
}

func TestActualizarPlatilloReemplazaReceta(t *testing.T) {
	svc, platilloRepo, productoRepo := buildPlatilloSvc()

	pollo := productoRepo.agregar("Pollo", dec("8"), nil)
	arroz := productoRepo.agregar("Arroz", dec("20"), nil)

	creado, err := svc.Crear(context.Background(), dto.CrearPlatilloRequest{
		Nombre: "Arroz con pollo",
		Precio: dec("70"),
		Ingredientes: []dto.IngredienteRequest{
			{ProductoID: pollo.ID.String(), CantidadRequerida: dec("1")},
		},
	})
	require.NoError(t, err)
	platilloID := uuid.MustParse(creado.ID)

	nuevaReceta := []dto.IngredienteRequest{
		{ProductoID: arroz.ID.String(), CantidadRequerida: dec("0.5")},
	}
	resp, err := svc.Actualizar(context.Background(), platilloID, dto.ActualizarPlatilloRequest{
		Ingredientes: &nuevaReceta,
	})
	require.NoError(t, err)

	// Old recipe rows are gone; only the new ingredient remains.
	require.Len(t, resp.Ingredientes, 1)
	assert.Equal(t, arroz.ID.String(), resp.Ingredientes[0].ProductoID)

	guardado := platilloRepo.platillos[platilloID]
	require.Len(t, guardado.Ingredientes, 1)
	assert.Equal(t, arroz.ID, guardado.Ingredientes[0].ProductoID)
}

func TestActualizarPlatilloSinCambios(t *testing.T) {
	svc, _, _ := buildPlatilloSvc()

	_, err := svc.Actualizar(context.Background(), uuid.New(), dto.ActualizarPlatilloRequest{})
	require.Error(t, err)
	assert.Equal(t, "no se proporcionaron cambios", err.Error())
}

func TestDesactivarPlatilloInexistente(t *testing.T) {
	svc, _, _ := buildPlatilloSvc()

	err := svc.Desactivar(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "platillo no encontrado", err.Error())
}

func TestDisponibleDerivadoRespetaFlagAlmacenado(t *testing.T) {
	svc, platilloRepo, productoRepo := buildPlatilloSvc()

	masa := productoRepo.agregar("Masa", dec("10"), nil)
	flag := false
	creado, err := svc.Crear(context.Background(), dto.CrearPlatilloRequest{
		Nombre:     "Gorditas",
		Precio:     dec("30"),
		Disponible: &flag,
		Ingredientes: []dto.IngredienteRequest{
			{ProductoID: masa.ID.String(), CantidadRequerida: dec("1")},
		},
	})
	require.NoError(t, err)

	// Stock would allow 10 portions, but the stored flag wins.
	assert.Equal(t, int64(10), creado.CantidadPreparable)
	assert.False(t, creado.Disponible)
	assert.False(t, platilloRepo.platillos[uuid.MustParse(creado.ID)].Disponible)
}
