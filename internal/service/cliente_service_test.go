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

func newClienteFixture(t *testing.T) (*cajaFixture, ClienteService, *model.Cliente) {
	t.Helper()
	caja := newCajaFixture()
	svc := NewClienteService(caja.clienteRepo, caja.ventaRepo, caja.svc)

	cliente := &model.Cliente{Nombre: "Marta López", Activo: true}
	require.NoError(t, caja.clienteRepo.Create(context.Background(), cliente))
	return caja, svc, cliente
}

func TestRegistrarPagoCliente(t *testing.T) {
	caja, svc, cliente := newClienteFixture(t)
	ctx := context.Background()
	cliente.Saldo = 10000

	_, err := caja.svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoApertura: 5000})
	require.NoError(t, err)

	resp, err := svc.RegistrarPago(ctx, cliente.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoNormal,
		Metodo: "efectivo",
		Monto:  4000,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(6000), resp.Saldo)
	assert.Equal(t, int64(6000), cliente.Saldo)

	// Cash payment attached to the open session shows up in the till ledger.
	require.Len(t, caja.clienteRepo.pagos, 1)
	require.NotNil(t, caja.clienteRepo.pagos[0].SesionCajaID)
}

func TestRegistrarReembolsoCliente(t *testing.T) {
	_, svc, cliente := newClienteFixture(t)
	cliente.Saldo = 0

	// Card refund needs no open session and raises what the customer owes.
	resp, err := svc.RegistrarPago(context.Background(), cliente.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoReembolso,
		Metodo: "debito",
		Monto:  2500,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2500), resp.Saldo)
	assert.Equal(t, int64(2500), cliente.Saldo)
}

func TestRegistrarPagoEfectivoSinSesion(t *testing.T) {
	_, svc, cliente := newClienteFixture(t)

	_, err := svc.RegistrarPago(context.Background(), cliente.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoNormal,
		Metodo: "efectivo",
		Monto:  1000,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}

func TestLibroClienteSaldoDerivado(t *testing.T) {
	caja, svc, cliente := newClienteFixture(t)
	ctx := context.Background()

	// Credit sale of 9000 with 4000 tendered at the counter, then a later
	// payment of 3000: derived balance must land on 2000.
	require.NoError(t, caja.ventaRepo.Create(ctx, nil, &model.Venta{
		NumeroTicket: 7,
		SesionCajaID: uuid.New(),
		UsuarioID:    uuid.New(),
		ClienteID:    &cliente.ID,
		Total:        9000,
		MontoPagado:  4000,
		EstadoPago:   model.PagoParcial,
		Estado:       model.VentaCompletada,
	}))
	_, err := caja.svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoApertura: 0})
	require.NoError(t, err)
	cliente.Saldo = 5000

	_, err = svc.RegistrarPago(ctx, cliente.ID, dto.RegistrarPagoRequest{
		Tipo:   model.PagoNormal,
		Metodo: "efectivo",
		Monto:  3000,
	})
	require.NoError(t, err)

	libro, err := svc.Libro(ctx, cliente.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), libro.Saldo)
	assert.Equal(t, cliente.Saldo, libro.Saldo)

	// venta (debe 9000) + pago mostrador (haber 4000) + pago posterior (haber 3000)
	require.Len(t, libro.Entradas, 3)
	assert.Equal(t, int64(9000), libro.Entradas[0].Debe)
	assert.Equal(t, int64(9000), libro.Entradas[0].Saldo)
	assert.Equal(t, int64(4000), libro.Entradas[1].Haber)
	assert.Equal(t, int64(5000), libro.Entradas[1].Saldo)
	assert.Equal(t, int64(2000), libro.Entradas[2].Saldo)
}

func TestDesactivarClienteConSaldo(t *testing.T) {
	_, svc, cliente := newClienteFixture(t)
	cliente.Saldo = 1500

	err := svc.Desactivar(context.Background(), cliente.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
	assert.True(t, cliente.Activo)

	cliente.Saldo = 0
	require.NoError(t, svc.Desactivar(context.Background(), cliente.ID))
	assert.False(t, cliente.Activo)
}
