package ledger

import (
	"testing"
	"time"

	"almapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Escenario: cliente con una venta de 200.00 y un pago de 150.00 ⇒
// saldo pendiente 50.00.
func TestConstruirLibroEntidad_VentaYPago(t *testing.T) {
	clienteID := uuid.New()

	facturas := []Factura{{
		ID: uuid.New(), EntidadID: clienteID, Fecha: base,
		Descripcion: "Venta #1", Total: 20000,
	}}
	abonos := []Abono{{
		ID: uuid.New(), EntidadID: clienteID, Fecha: base.AddDate(0, 0, 7),
		Descripcion: "Pago de cliente", Tipo: model.PagoNormal, Monto: 15000,
	}}

	libro, err := ConstruirLibroEntidad(DireccionCliente, clienteID, facturas, abonos)
	require.NoError(t, err)
	require.Len(t, libro, 2)

	assert.Equal(t, int64(20000), libro[0].Debe)
	assert.Equal(t, int64(0), libro[0].Haber)
	assert.Equal(t, int64(20000), libro[0].Saldo)

	assert.Equal(t, int64(0), libro[1].Debe)
	assert.Equal(t, int64(15000), libro[1].Haber)
	assert.Equal(t, int64(5000), libro[1].Saldo)

	assert.Equal(t, int64(5000), SaldoEntidad(libro))
}

func TestConstruirLibroEntidad_ReembolsoInvierteDebeYHaber(t *testing.T) {
	clienteID := uuid.New()

	abonos := []Abono{
		{ID: uuid.New(), EntidadID: clienteID, Fecha: base,
			Descripcion: "Pago", Tipo: model.PagoNormal, Monto: 8000},
		{ID: uuid.New(), EntidadID: clienteID, Fecha: base.Add(time.Hour),
			Descripcion: "Reembolso", Tipo: model.PagoReembolso, Monto: 3000},
	}

	libro, err := ConstruirLibroEntidad(DireccionCliente, clienteID, nil, abonos)
	require.NoError(t, err)
	require.Len(t, libro, 2)

	assert.Equal(t, int64(8000), libro[0].Haber)
	assert.Equal(t, int64(3000), libro[1].Debe, "reembolso restituye lo adeudado")
	assert.Equal(t, int64(-5000), SaldoEntidad(libro))
}

func TestConstruirLibroEntidad_DireccionProveedor(t *testing.T) {
	proveedorID := uuid.New()

	facturas := []Factura{{
		ID: uuid.New(), EntidadID: proveedorID, Fecha: base,
		Descripcion: "Compra #9", Total: 50000,
	}}
	abonos := []Abono{
		{ID: uuid.New(), EntidadID: proveedorID, Fecha: base.AddDate(0, 0, 3),
			Descripcion: "Pago a proveedor", Tipo: model.PagoNormal, Monto: 30000},
		{ID: uuid.New(), EntidadID: proveedorID, Fecha: base.AddDate(0, 0, 5),
			Descripcion: "Reembolso de proveedor", Tipo: model.PagoReembolso, Monto: 5000},
	}

	libro, err := ConstruirLibroEntidad(DireccionProveedor, proveedorID, facturas, abonos)
	require.NoError(t, err)
	require.Len(t, libro, 3)

	assert.Equal(t, TipoCompra, libro[0].Tipo)
	// 50000 - 30000 + 5000: el reembolso restituye la deuda con el proveedor
	assert.Equal(t, int64(25000), SaldoEntidad(libro))
}

func TestConstruirLibroEntidad_OrdenCronologico(t *testing.T) {
	clienteID := uuid.New()

	// Inserted out of order on purpose
	facturas := []Factura{
		{ID: uuid.New(), EntidadID: clienteID, Fecha: base.AddDate(0, 0, 10), Descripcion: "Venta #3", Total: 100},
		{ID: uuid.New(), EntidadID: clienteID, Fecha: base, Descripcion: "Venta #1", Total: 200},
	}
	abonos := []Abono{{
		ID: uuid.New(), EntidadID: clienteID, Fecha: base.AddDate(0, 0, 5),
		Descripcion: "Pago", Tipo: model.PagoNormal, Monto: 200,
	}}

	libro, err := ConstruirLibroEntidad(DireccionCliente, clienteID, facturas, abonos)
	require.NoError(t, err)
	require.Len(t, libro, 3)

	assert.Equal(t, "Venta #1", libro[0].Descripcion)
	assert.Equal(t, "Pago", libro[1].Descripcion)
	assert.Equal(t, "Venta #3", libro[2].Descripcion)
	assert.Equal(t, []int64{200, 0, 100}, []int64{libro[0].Saldo, libro[1].Saldo, libro[2].Saldo})
}

func TestConstruirLibroEntidad_EntidadAjenaFalla(t *testing.T) {
	clienteID := uuid.New()

	facturas := []Factura{{ID: uuid.New(), EntidadID: uuid.New(), Fecha: base, Total: 100}}
	_, err := ConstruirLibroEntidad(DireccionCliente, clienteID, facturas, nil)
	assert.ErrorIs(t, err, ErrIntegridadDatos)

	abonos := []Abono{{ID: uuid.New(), EntidadID: uuid.New(), Fecha: base, Tipo: model.PagoNormal, Monto: 100}}
	_, err = ConstruirLibroEntidad(DireccionCliente, clienteID, nil, abonos)
	assert.ErrorIs(t, err, ErrIntegridadDatos)
}

func TestSaldoEntidad_HistorialVacio(t *testing.T) {
	libro, err := ConstruirLibroEntidad(DireccionCliente, uuid.New(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), SaldoEntidad(libro))
}
