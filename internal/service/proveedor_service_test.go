package service

import (
	"context"
	"testing"

	"almapos/internal/dto"
	"almapos/internal/ledger"
	"almapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProveedorFixture(t *testing.T) (*cajaFixture, ProveedorService, *model.Proveedor) {
	t.Helper()
	caja := newCajaFixture()
	svc := NewProveedorService(caja.proveedorRepo, caja.compraRepo, caja.svc)

	proveedor := &model.Proveedor{RazonSocial: "Mayorista Sur SRL", Activo: true}
	require.NoError(t, caja.proveedorRepo.Create(context.Background(), proveedor))
	return caja, svc, proveedor
}

func TestRegistrarPagoProveedor(t *testing.T) {
	caja, svc, proveedor := newProveedorFixture(t)
	ctx := context.Background()
	proveedor.Saldo = 8000

	_, err := caja.svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoApertura: 10000})
	require.NoError(t, err)

	resp, err := svc.RegistrarPago(ctx, proveedor.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoNormal,
		Metodo: "efectivo",
		Monto:  3000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), resp.Saldo)
	assert.Equal(t, int64(5000), proveedor.Saldo)

	// Paying a supplier in cash is cash out of the till.
	sesion, err := caja.svc.SesionAbierta(ctx)
	require.NoError(t, err)
	libro, err := caja.svc.Libro(ctx, uuid.MustParse(sesion.ID), dto.LibroCajaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), libro.SaldoEsperado)
	require.Len(t, libro.Transacciones, 2)
	assert.Equal(t, int64(-3000), libro.Transacciones[1].MontoCaja)
}

func TestLibroProveedorSaldoDerivado(t *testing.T) {
	caja, svc, proveedor := newProveedorFixture(t)
	ctx := context.Background()

	// Purchase of 12000 with 5000 paid on receipt, then 4000 by transfer:
	// we still owe 3000.
	require.NoError(t, caja.compraRepo.Create(ctx, nil, &model.Compra{
		NumeroCompra: 3,
		ProveedorID:  proveedor.ID,
		UsuarioID:    uuid.New(),
		Total:        12000,
		MontoPagado:  5000,
		MetodoPago:   "transferencia",
		EstadoPago:   model.PagoParcial,
	}))
	proveedor.Saldo = 7000

	_, err := svc.RegistrarPago(ctx, proveedor.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoNormal,
		Metodo: "transferencia",
		Monto:  4000,
	})
	require.NoError(t, err)

	libro, err := svc.Libro(ctx, proveedor.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3000), libro.Saldo)
	assert.Equal(t, proveedor.Saldo, libro.Saldo)
	require.Len(t, libro.Entradas, 3)
	assert.Equal(t, string(ledger.TipoCompra), libro.Entradas[0].Tipo)
	assert.Equal(t, int64(12000), libro.Entradas[0].Debe)
}

func TestDesactivarProveedorConSaldo(t *testing.T) {
	_, svc, proveedor := newProveedorFixture(t)
	proveedor.Saldo = 2000

	err := svc.Desactivar(context.Background(), proveedor.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}
