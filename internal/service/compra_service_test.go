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

type compraFixture struct {
	svc          CompraService
	caja         *cajaFixture
	productoRepo *fakeProductoRepo
	movStockRepo *fakeMovStockRepo
	proveedor    *model.Proveedor
}

func newCompraFixture(t *testing.T) *compraFixture {
	t.Helper()
	caja := newCajaFixture()
	f := &compraFixture{
		caja:         caja,
		productoRepo: newFakeProductoRepo(),
		movStockRepo: newFakeMovStockRepo(),
	}
	f.svc = NewCompraService(caja.compraRepo, caja.svc, caja.proveedorRepo, f.productoRepo, f.movStockRepo)

	f.proveedor = &model.Proveedor{RazonSocial: "Distribuidora Norte SA", Activo: true}
	require.NoError(t, caja.proveedorRepo.Create(context.Background(), f.proveedor))
	return f
}

func TestRegistrarCompra(t *testing.T) {
	f := newCompraFixture(t)
	ctx := context.Background()

	prod := &model.Producto{CodigoBarras: "779123", Nombre: "Galletitas", PrecioVenta: 900, StockActual: 2, Activo: true}
	require.NoError(t, f.productoRepo.Create(ctx, prod))

	// Paid by transfer: no open session required.
	resp, err := f.svc.RegistrarCompra(ctx, uuid.New(), dto.RegistrarCompraRequest{
		ProveedorID: f.proveedor.ID.String(),
		Items:       []dto.CompraItemRequest{{ProductoID: prod.ID.String(), Cantidad: 10, CostoUnitario: 500}},
		MontoPagado: 2000,
		MetodoPago:  "transferencia",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), resp.Total)
	assert.Equal(t, model.PagoParcial, resp.EstadoPago)

	// Stock received, movement recorded, remainder owed to the supplier.
	assert.Equal(t, 12, prod.StockActual)
	require.Len(t, f.movStockRepo.movimientos, 1)
	assert.Equal(t, "compra", f.movStockRepo.movimientos[0].Tipo)
	assert.Equal(t, int64(3000), f.proveedor.Saldo)
}

func TestRegistrarCompraEfectivoSinSesion(t *testing.T) {
	f := newCompraFixture(t)
	ctx := context.Background()

	prod := &model.Producto{CodigoBarras: "779456", Nombre: "Arroz", PrecioVenta: 1500, Activo: true}
	require.NoError(t, f.productoRepo.Create(ctx, prod))

	_, err := f.svc.RegistrarCompra(ctx, uuid.New(), dto.RegistrarCompraRequest{
		ProveedorID: f.proveedor.ID.String(),
		Items:       []dto.CompraItemRequest{{ProductoID: prod.ID.String(), Cantidad: 5, CostoUnitario: 800}},
		MontoPagado: 4000,
		MetodoPago:  "efectivo",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrEstadoInvalido)
}

func TestRegistrarCompraPagoExcedeTotal(t *testing.T) {
	f := newCompraFixture(t)
	ctx := context.Background()

	prod := &model.Producto{CodigoBarras: "779789", Nombre: "Café", PrecioVenta: 6000, Activo: true}
	require.NoError(t, f.productoRepo.Create(ctx, prod))

	_, err := f.svc.RegistrarCompra(ctx, uuid.New(), dto.RegistrarCompraRequest{
		ProveedorID: f.proveedor.ID.String(),
		Items:       []dto.CompraItemRequest{{ProductoID: prod.ID.String(), Cantidad: 1, CostoUnitario: 3000}},
		MontoPagado: 5000,
		MetodoPago:  "debito",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excede el total")
}

func TestCompraEfectivoEntraAlLibro(t *testing.T) {
	f := newCompraFixture(t)
	ctx := context.Background()

	abierta, err := f.caja.svc.Abrir(ctx, uuid.New(), dto.AbrirCajaRequest{MontoApertura: 20000})
	require.NoError(t, err)

	prod := &model.Producto{CodigoBarras: "779000", Nombre: "Té", PrecioVenta: 2000, Activo: true}
	require.NoError(t, f.productoRepo.Create(ctx, prod))

	_, err = f.svc.RegistrarCompra(ctx, uuid.New(), dto.RegistrarCompraRequest{
		ProveedorID: f.proveedor.ID.String(),
		Items:       []dto.CompraItemRequest{{ProductoID: prod.ID.String(), Cantidad: 4, CostoUnitario: 1000}},
		MontoPagado: 4000,
		MetodoPago:  "efectivo",
	})
	require.NoError(t, err)

	libro, err := f.caja.svc.Libro(ctx, uuid.MustParse(abierta.ID), dto.LibroCajaFilter{})
	require.NoError(t, err)
	// Cash out: 20000 - 4000
	assert.Equal(t, int64(16000), libro.SaldoEsperado)
	require.Len(t, libro.Transacciones, 2)
	assert.Equal(t, string(ledger.TipoCompra), libro.Transacciones[1].Tipo)
	assert.Equal(t, int64(-4000), libro.Transacciones[1].MontoCaja)
}
