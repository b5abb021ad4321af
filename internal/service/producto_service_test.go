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

func buildProductoSvc() (service.ProductoService, *stubProductoRepo) {
	repo := newStubProductoRepo()
	return service.NewProductoService(repo), repo
}

func TestCrearProductoConInventarioInicial(t *testing.T) {
	svc, repo := buildProductoSvc()

	resp, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:          "Tomate",
		UnidadMedida:    "kg",
		CantidadInicial: dec("10"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Tomate", resp.Nombre)
	assert.Equal(t, "kg", resp.UnidadMedida)
	require.NotNil(t, resp.Inventario)
	assert.True(t, resp.Inventario.CantidadDisponible.Equal(dec("10")))

	// Product and its inventory record both exist after the tx.
	assert.Len(t, repo.productos, 1)
	assert.Len(t, repo.inventarios, 1)
}

func TestCrearProductoCantidadNegativa(t *testing.T) {
	svc, _ := buildProductoSvc()

	_, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:          "Cebolla",
		CantidadInicial: dec("-1"),
	})
	require.Error(t, err)
	assert.Equal(t, "la cantidad inicial no puede ser negativa", err.Error())
}

func TestActualizarProductoSinCambios(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := repo.agregar("Chile", dec("5"), nil)

	_, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{})
	require.Error(t, err)
	assert.Equal(t, "no se proporcionaron cambios", err.Error())
}

func TestActualizarProductoParcial(t *testing.T) {
	svc, _ := buildProductoSvc()

	creado, err := svc.Crear(context.Background(), dto.CrearProductoRequest{
		Nombre:          "Limón",
		CantidadInicial: dec("3"),
	})
	require.NoError(t, err)

	nombre := "Limón verde"
	cantidad := dec("8")
	resp, err := svc.Actualizar(context.Background(), uuid.MustParse(creado.ID), dto.ActualizarProductoRequest{
		Nombre:             &nombre,
		CantidadDisponible: &cantidad,
	})
	require.NoError(t, err)
	assert.Equal(t, "Limón verde", resp.Nombre)
	assert.Equal(t, "unidad", resp.UnidadMedida) // untouched default survives
	require.NotNil(t, resp.Inventario)
	assert.True(t, resp.Inventario.CantidadDisponible.Equal(dec("8")))
}

func TestActualizarProductoInvalidoNoMuta(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := repo.agregar("Original", dec("5"), nil)

	// A valid name change combined with an invalid inventory value must fail
	// without applying either part.
	nombre := "Mutado"
	cantidad := dec("-1")
	_, err := svc.Actualizar(context.Background(), p.ID, dto.ActualizarProductoRequest{
		Nombre:             &nombre,
		CantidadDisponible: &cantidad,
	})
	require.Error(t, err)
	assert.Equal(t, "la cantidad disponible no puede ser negativa", err.Error())

	assert.Equal(t, "Original", repo.productos[p.ID].Nombre)
	assert.True(t, repo.inventarios[p.ID].CantidadDisponible.Equal(dec("5")))
}

func TestAjustarInventarioRegistraMovimiento(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := repo.agregar("Aceite", dec("20"), nil)

	resp, err := svc.AjustarInventario(context.Background(), p.ID, dto.AjusteInventarioRequest{
		Delta:  dec("-2.5"),
		Motivo: "merma de cocina",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Inventario)
	assert.True(t, resp.Inventario.CantidadDisponible.Equal(dec("17.5")))

	require.Len(t, repo.movimientos, 1)
	mov := repo.movimientos[0]
	assert.Equal(t, "ajuste_manual", mov.Tipo)
	assert.True(t, mov.Cantidad.Equal(dec("-2.5")))
	assert.True(t, mov.CantidadAnterior.Equal(dec("20")))
	assert.True(t, mov.CantidadNueva.Equal(dec("17.5")))
}

func TestAjustarInventarioNoPermiteNegativo(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := repo.agregar("Azúcar", dec("1"), nil)

	_, err := svc.AjustarInventario(context.Background(), p.ID, dto.AjusteInventarioRequest{
		Delta: dec("-5"),
	})
	require.Error(t, err)
	assert.Equal(t, "inventario insuficiente para Azúcar", err.Error())
	assert.True(t, repo.inventarios[p.ID].CantidadDisponible.Equal(dec("1")))
}

func TestDesactivarProductoInexistente(t *testing.T) {
	svc, _ := buildProductoSvc()

	err := svc.Desactivar(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, "producto no encontrado", err.Error())
}

func TestDesactivarProductoEsSoftDelete(t *testing.T) {
	svc, repo := buildProductoSvc()
	p := repo.agregar("Sal", dec("2"), nil)

	require.NoError(t, svc.Desactivar(context.Background(), p.ID))
	assert.False(t, repo.productos[p.ID].Activo)

	// Still readable by id, hidden from the active listing.
	activos, err := svc.Listar(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, activos)
}
