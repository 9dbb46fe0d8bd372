package ledger

import (
	"testing"
	"time"

	"almapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaldosAcumulados_AperturaNoMueveElSaldo(t *testing.T) {
	s := sesionAbierta()
	libro, err := ConstruirLibroSesion(s, nil, nil, nil, nil, nil)
	require.NoError(t, err)

	saldos := SaldosAcumulados(10000, libro)
	require.Len(t, saldos, 1)
	assert.Equal(t, int64(10000), saldos[0].Saldo)
}

// Escenario: apertura 100.00, venta en efectivo +50.00, gasto en efectivo
// -20.00 ⇒ saldo esperado 130.00.
func TestSaldoEsperado_VentaYGasto(t *testing.T) {
	s := sesionAbierta()
	sid := s.ID

	ventas := []model.Venta{ventaEfectivo(sid, 5000, base.Add(time.Hour))}
	gastos := []model.Gasto{{
		ID: uuid.New(), SesionCajaID: &sid, Categoria: "servicios",
		Descripcion: "Flete", MetodoPago: MetodoEfectivo, Monto: 2000, Fecha: base.Add(2 * time.Hour),
	}}

	libro, err := ConstruirLibroSesion(s, ventas, nil, nil, nil, gastos)
	require.NoError(t, err)
	Ordenar(libro)

	assert.Equal(t, int64(13000), SaldoEsperado(10000, libro))

	saldos := SaldosAcumulados(10000, libro)
	require.Len(t, saldos, 3)
	assert.Equal(t, int64(10000), saldos[0].Saldo)
	assert.Equal(t, int64(15000), saldos[1].Saldo)
	assert.Equal(t, int64(13000), saldos[2].Saldo)

	// The wrapped transaction reads directly off the pair.
	assert.Equal(t, TipoApertura, saldos[0].Tipo)
	assert.Equal(t, TipoVenta, saldos[1].Tipo)
	assert.Equal(t, int64(-2000), saldos[2].MontoCaja)
}

// SaldoEsperado siempre coincide con apertura + suma de montos de caja,
// independientemente del orden del feed.
func TestSaldoEsperado_IgualAperturaMasSuma(t *testing.T) {
	s := sesionAbierta()
	sid := s.ID

	pagos := []model.PagoCliente{
		{ID: uuid.New(), ClienteID: uuid.New(), SesionCajaID: &sid,
			Tipo: model.PagoNormal, Metodo: MetodoEfectivo, Monto: 4200, Fecha: base},
		{ID: uuid.New(), ClienteID: uuid.New(), SesionCajaID: &sid,
			Tipo: model.PagoReembolso, Metodo: MetodoEfectivo, Monto: 900, Fecha: base},
	}
	libro, err := ConstruirLibroSesion(s, nil, pagos, nil, nil, nil)
	require.NoError(t, err)

	var suma int64
	for _, tr := range libro {
		suma += tr.MontoCaja
	}
	assert.Equal(t, int64(10000)+suma, SaldoEsperado(10000, libro))
}

func TestCerrar_Cuadrada(t *testing.T) {
	s := sesionAbierta()
	sid := s.ID

	ventas := []model.Venta{ventaEfectivo(sid, 5000, base.Add(time.Hour))}
	gastos := []model.Gasto{{ID: uuid.New(), SesionCajaID: &sid, Categoria: "varios",
		Descripcion: "Flete", MetodoPago: MetodoEfectivo, Monto: 2000, Fecha: base}}
	libro, err := ConstruirLibroSesion(s, ventas, nil, nil, nil, gastos)
	require.NoError(t, err)

	cierre, err := Cerrar(model.SesionAbierta, 10000, libro, 13000)
	require.NoError(t, err)

	assert.Equal(t, int64(13000), cierre.MontoEsperado)
	assert.Equal(t, int64(0), cierre.Diferencia)
	assert.Equal(t, CierreCuadrado, cierre.Resultado)
}

func TestCerrar_Faltante(t *testing.T) {
	s := sesionAbierta()
	sid := s.ID

	ventas := []model.Venta{ventaEfectivo(sid, 5000, base.Add(time.Hour))}
	gastos := []model.Gasto{{ID: uuid.New(), SesionCajaID: &sid, Categoria: "varios",
		Descripcion: "Flete", MetodoPago: MetodoEfectivo, Monto: 2000, Fecha: base}}
	libro, err := ConstruirLibroSesion(s, ventas, nil, nil, nil, gastos)
	require.NoError(t, err)

	cierre, err := Cerrar(model.SesionAbierta, 10000, libro, 12500)
	require.NoError(t, err)

	assert.Equal(t, int64(-500), cierre.Diferencia)
	assert.Equal(t, CierreFaltante, cierre.Resultado)
	// 500 sobre 13000 ≈ 3.8% — advertencia, no crítico
	assert.Equal(t, "advertencia", cierre.Clasificacion)
}

func TestCerrar_Sobrante(t *testing.T) {
	cierre, err := Cerrar(model.SesionAbierta, 10000, nil, 10100)
	require.NoError(t, err)
	assert.Equal(t, int64(100), cierre.Diferencia)
	assert.Equal(t, CierreSobrante, cierre.Resultado)
	assert.Equal(t, "normal", cierre.Clasificacion)
}

func TestCerrar_SesionYaCerradaEsRechazada(t *testing.T) {
	_, err := Cerrar(model.SesionCerrada, 10000, nil, 10000)
	assert.ErrorIs(t, err, ErrEstadoInvalido)
}

func TestClasificarDiferencia(t *testing.T) {
	assert.Equal(t, CierreCuadrado, ClasificarDiferencia(0))
	assert.Equal(t, CierreSobrante, ClasificarDiferencia(1))
	assert.Equal(t, CierreFaltante, ClasificarDiferencia(-1))
}

func TestClasificarDesvio(t *testing.T) {
	assert.Equal(t, "normal", ClasificarDesvio(0, 10000))
	assert.Equal(t, "normal", ClasificarDesvio(100, 10000))       // 1%
	assert.Equal(t, "advertencia", ClasificarDesvio(-300, 10000)) // 3%
	assert.Equal(t, "critico", ClasificarDesvio(800, 10000))      // 8%
	assert.Equal(t, "normal", ClasificarDesvio(0, 0))
	assert.Equal(t, "critico", ClasificarDesvio(50, 0))
}
