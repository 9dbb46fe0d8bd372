package service

import (
	"context"
	"testing"

	"almapos/internal/dto"
	"almapos/internal/ledger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gastoFixture struct {
	svc  GastoService
	caja *cajaFixture
}

func newGastoFixture() *gastoFixture {
	caja := newCajaFixture()
	return &gastoFixture{
		svc:  NewGastoService(caja.gastoRepo, caja.svc),
		caja: caja,
	}
}

func TestRegistrarGastoEfectivo(t *testing.T) {
	f := newGastoFixture()
	ctx := context.Background()

	abierta, err := f.caja.svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoApertura: 20000})
	require.NoError(t, err)

	resp, err := f.svc.Registrar(ctx, uuid.New(), dto.RegistrarGastoRequest{
		Categoria:   "servicios",
		Descripcion: "Factura de luz",
		MetodoPago:  ledger.MetodoEfectivo,
		Monto:       5000,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.SesionCajaID)
	assert.Equal(t, abierta.ID, *resp.SesionCajaID)
}

func TestRegistrarGastoSinSesion(t *testing.T) {
	f := newGastoFixture()
	ctx := context.Background()

	// Cash needs an open till.
	_, err := f.svc.Registrar(ctx, uuid.New(), dto.RegistrarGastoRequest{
		Categoria:   "servicios",
		Descripcion: "Factura de luz",
		MetodoPago:  ledger.MetodoEfectivo,
		Monto:       5000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)

	// A bank transfer does not.
	resp, err := f.svc.Registrar(ctx, uuid.New(), dto.RegistrarGastoRequest{
		Categoria:   "alquiler",
		Descripcion: "Alquiler del local",
		MetodoPago:  "transferencia",
		Monto:       300000,
	})
	require.NoError(t, err)
	assert.Nil(t, resp.SesionCajaID)
}

func TestActualizarGastoSesionCerrada(t *testing.T) {
	f := newGastoFixture()
	ctx := context.Background()
	usuario := uuid.New()

	abierta, err := f.caja.svc.Abrir(ctx, usuario, dto.AbrirCajaRequest{MontoApertura: 20000})
	require.NoError(t, err)

	gasto, err := f.svc.Registrar(ctx, usuario, dto.RegistrarGastoRequest{
		Categoria:   "limpieza",
		Descripcion: "Artículos de limpieza",
		MetodoPago:  ledger.MetodoEfectivo,
		Monto:       3000,
	})
	require.NoError(t, err)
	gastoID := uuid.MustParse(gasto.ID)

	// Editable while the session is open.
	actualizado, err := f.svc.Actualizar(ctx, gastoID, dto.ActualizarGastoRequest{
		Categoria:   "limpieza",
		Descripcion: "Artículos de limpieza y bolsas",
		Monto:       3500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3500), actualizado.Monto)

	_, err = f.caja.svc.Cerrar(ctx, uuid.MustParse(abierta.ID), usuario, dto.CerrarCajaRequest{MontoReal: 16500})
	require.NoError(t, err)

	// Once reconciled the expense is frozen.
	_, err = f.svc.Actualizar(ctx, gastoID, dto.ActualizarGastoRequest{
		Categoria:   "limpieza",
		Descripcion: "Artículos de limpieza",
		Monto:       9999,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)

	err = f.svc.Eliminar(ctx, gastoID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}

func TestEliminarGasto(t *testing.T) {
	f := newGastoFixture()
	ctx := context.Background()

	gasto, err := f.svc.Registrar(ctx, uuid.New(), dto.RegistrarGastoRequest{
		Categoria:   "otros",
		Descripcion: "Cargado por error",
		MetodoPago:  "debito",
		Monto:       1200,
	})
	require.NoError(t, err)
	gastoID := uuid.MustParse(gasto.ID)

	require.NoError(t, f.svc.Eliminar(ctx, gastoID))
	_, err = f.svc.Obtener(ctx, gastoID)
	require.Error(t, err)
}
