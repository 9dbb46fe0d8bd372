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

type ventaFixture struct {
	svc          VentaService
	caja         *cajaFixture
	ventaRepo    *fakeVentaRepo
	productoRepo *fakeProductoRepo
	clienteRepo  *fakeClienteRepo
	movStockRepo *fakeMovStockRepo
}

func newVentaFixture(t *testing.T) *ventaFixture {
	t.Helper()
	caja := newCajaFixture()
	f := &ventaFixture{
		caja:         caja,
		ventaRepo:    caja.ventaRepo,
		productoRepo: newFakeProductoRepo(),
		clienteRepo:  caja.clienteRepo,
		movStockRepo: newFakeMovStockRepo(),
	}
	f.svc = NewVentaService(f.ventaRepo, caja.svc, f.productoRepo, f.clienteRepo, f.movStockRepo)

	_, err := caja.svc.Abrir(context.Background(), uuid.New(), dto.AbrirCajaRequest{MontoApertura: 10000})
	require.NoError(t, err)
	return f
}

func (f *ventaFixture) seedProducto(t *testing.T, nombre string, precio int64, stock int) *model.Producto {
	t.Helper()
	p := &model.Producto{
		CodigoBarras: uuid.NewString(),
		Nombre:       nombre,
		PrecioVenta:  precio,
		StockActual:  stock,
		Activo:       true,
	}
	require.NoError(t, f.productoRepo.Create(context.Background(), p))
	return p
}

func TestRegistrarVentaContado(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	prod := f.seedProducto(t, "Yerba 1kg", 4500, 10)

	resp, err := f.svc.RegistrarVenta(ctx, uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 2}},
		Pagos: []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 10000}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(9000), resp.Total)
	assert.Equal(t, int64(9000), resp.MontoPagado)
	assert.Equal(t, int64(1000), resp.Vuelto) // overpayment returned as change
	assert.Equal(t, model.PagoCompleto, resp.EstadoPago)
	assert.Equal(t, int64(1), resp.NumeroTicket)

	// Stock moved and the movement was recorded.
	assert.Equal(t, 8, prod.StockActual)
	require.Len(t, f.movStockRepo.movimientos, 1)
	assert.Equal(t, "venta", f.movStockRepo.movimientos[0].Tipo)
	assert.Equal(t, -2, f.movStockRepo.movimientos[0].Cantidad)
}

func TestVentaConVueltoNoInflaLaCaja(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	prod := f.seedProducto(t, "Queso cremoso", 9000, 5)

	resp, err := f.svc.RegistrarVenta(ctx, uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 1}},
		Pagos: []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 10000}},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.Vuelto)

	// The drawer kept 9000: the 10000 tendered minus the 1000 handed back.
	// Apertura 10000 + 9000 = 19000, and a count of 19000 closes square.
	sesion, err := f.caja.svc.SesionAbierta(ctx)
	require.NoError(t, err)
	libro, err := f.caja.svc.Libro(ctx, uuid.MustParse(sesion.ID), dto.LibroCajaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(19000), libro.SaldoEsperado)

	cierre, err := f.caja.svc.Cerrar(ctx, uuid.MustParse(sesion.ID), uuid.New(), dto.CerrarCajaRequest{MontoReal: 19000})
	require.NoError(t, err)
	assert.Equal(t, int64(0), cierre.Diferencia)
	assert.Equal(t, ledger.CierreCuadrado, cierre.Resultado)
}

func TestRegistrarVentaParcialAcumulaSaldo(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	prod := f.seedProducto(t, "Aceite", 8000, 5)

	cliente := &model.Cliente{Nombre: "Carlos Pérez", Activo: true}
	require.NoError(t, f.clienteRepo.Create(ctx, cliente))
	cid := cliente.ID.String()

	resp, err := f.svc.RegistrarVenta(ctx, uuid.New(), dto.RegistrarVentaRequest{
		ClienteID: &cid,
		Items:     []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 1}},
		Pagos:     []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 3000}},
	})
	require.NoError(t, err)
	assert.Equal(t, model.PagoParcial, resp.EstadoPago)
	assert.Equal(t, int64(3000), resp.MontoPagado)

	// The unpaid remainder accrues to the customer's balance.
	assert.Equal(t, int64(5000), cliente.Saldo)
}

func TestRegistrarVentaCreditoRequiereCliente(t *testing.T) {
	f := newVentaFixture(t)
	prod := f.seedProducto(t, "Harina", 1200, 3)

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requiere un cliente")
}

func TestRegistrarVentaStockInsuficiente(t *testing.T) {
	f := newVentaFixture(t)
	prod := f.seedProducto(t, "Azúcar", 2000, 1)

	_, err := f.svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 3}},
		Pagos: []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 6000}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stock insuficiente")
	assert.Equal(t, 1, prod.StockActual)
}

func TestRegistrarVentaSinSesion(t *testing.T) {
	caja := newCajaFixture()
	svc := NewVentaService(caja.ventaRepo, caja.svc, newFakeProductoRepo(), caja.clienteRepo, newFakeMovStockRepo())

	_, err := svc.RegistrarVenta(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: uuid.NewString(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}

func TestAnularVenta(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	prod := f.seedProducto(t, "Fideos", 1500, 10)

	cliente := &model.Cliente{Nombre: "Ana Gómez", Activo: true}
	require.NoError(t, f.clienteRepo.Create(ctx, cliente))
	cid := cliente.ID.String()

	resp, err := f.svc.RegistrarVenta(ctx, uuid.New(), dto.RegistrarVentaRequest{
		ClienteID: &cid,
		Items:     []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 4}},
		Pagos:     []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 2000}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, prod.StockActual)
	assert.Equal(t, int64(4000), cliente.Saldo)

	ventaID := uuid.MustParse(resp.ID)
	require.NoError(t, f.svc.AnularVenta(ctx, ventaID, "error de carga"))

	// Stock restored, debt reversed, estado flipped.
	assert.Equal(t, 10, prod.StockActual)
	assert.Equal(t, int64(0), cliente.Saldo)
	venta, err := f.ventaRepo.FindByID(ctx, ventaID)
	require.NoError(t, err)
	assert.Equal(t, model.VentaAnulada, venta.Estado)

	// Anulling twice is rejected.
	err = f.svc.AnularVenta(ctx, ventaID, "otra vez")
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}

func TestVentaAnuladaFueraDelLibro(t *testing.T) {
	f := newVentaFixture(t)
	ctx := context.Background()
	prod := f.seedProducto(t, "Leche", 2500, 8)

	resp, err := f.svc.RegistrarVenta(ctx, uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.VentaItemRequest{{ProductoID: prod.ID.String(), Cantidad: 2}},
		Pagos: []dto.VentaPagoRequest{{Metodo: "efectivo", Monto: 5000}},
	})
	require.NoError(t, err)

	sesionID := uuid.MustParse(resp.SesionCajaID)
	libro, err := f.caja.svc.Libro(ctx, sesionID, dto.LibroCajaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(15000), libro.SaldoEsperado)

	require.NoError(t, f.svc.AnularVenta(ctx, uuid.MustParse(resp.ID), "devolución"))

	// The annulled sale drops out of the session feed entirely.
	libro, err = f.caja.svc.Libro(ctx, sesionID, dto.LibroCajaFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), libro.SaldoEsperado)
	assert.Len(t, libro.Transacciones, 1)
}
