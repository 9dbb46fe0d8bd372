package ledger

import (
	"almapos/internal/model"

	"github.com/shopspring/decimal"
)

// SaldoTransaccion pairs a transaction with the till balance after it.
type SaldoTransaccion struct {
	Transaccion
	Saldo int64
}

// SaldosAcumulados folds the feed left-to-right starting at montoApertura.
// The opening marker contributes 0, so its output balance is the opening
// balance unchanged; every other transaction adds its signed MontoCaja.
func SaldosAcumulados(montoApertura int64, libro []Transaccion) []SaldoTransaccion {
	out := make([]SaldoTransaccion, 0, len(libro))
	saldo := montoApertura
	for _, t := range libro {
		saldo += t.MontoCaja
		out = append(out, SaldoTransaccion{Transaccion: t, Saldo: saldo})
	}
	return out
}

// SaldoEsperado is the final till balance over the COMPLETE, unfiltered
// transaction set of the session. The physical drawer accumulates all cash
// regardless of display filters, so callers must never pass a filtered feed.
func SaldoEsperado(montoApertura int64, libro []Transaccion) int64 {
	saldo := montoApertura
	for _, t := range libro {
		saldo += t.MontoCaja
	}
	return saldo
}

// Resultados de cierre.
const (
	CierreCuadrado = "cuadrada"
	CierreSobrante = "sobrante"
	CierreFaltante = "faltante"
)

// Cierre is the reconciliation result of closing a session.
type Cierre struct {
	MontoEsperado int64
	MontoReal     int64
	Diferencia    int64
	Resultado     string // cuadrada | sobrante | faltante
	// Clasificacion: advisory severity band of the deviation relative to
	// the expected balance ("normal" | "advertencia" | "critico").
	Clasificacion string
}

// Cerrar reconciles a session against the physically counted montoReal.
// It fails with ErrEstadoInvalido unless estado is exactly "abierta", which
// makes a double close impossible to apply twice: the second call is
// rejected before anything is computed. The caller persists the result.
//
// libro must be the complete unfiltered feed of the session.
func Cerrar(estado string, montoApertura int64, libro []Transaccion, montoReal int64) (Cierre, error) {
	if estado != model.SesionAbierta {
		return Cierre{}, ErrEstadoInvalido
	}

	esperado := SaldoEsperado(montoApertura, libro)
	diferencia := montoReal - esperado

	return Cierre{
		MontoEsperado: esperado,
		MontoReal:     montoReal,
		Diferencia:    diferencia,
		Resultado:     ClasificarDiferencia(diferencia),
		Clasificacion: ClasificarDesvio(diferencia, esperado),
	}, nil
}

// ClasificarDiferencia maps the exact integer difference to its result:
// zero is balanced, positive is surplus, negative is shortage. No tolerance
// band — exact integer equality only.
func ClasificarDiferencia(diferencia int64) string {
	switch {
	case diferencia == 0:
		return CierreCuadrado
	case diferencia > 0:
		return CierreSobrante
	default:
		return CierreFaltante
	}
}

// ClasificarDesvio returns "normal" | "advertencia" | "critico" for the
// deviation as a percentage of the expected balance.
// normal: |desvio| <= 1%, advertencia: <= 5%, critico: > 5%
func ClasificarDesvio(diferencia, esperado int64) string {
	if esperado == 0 {
		if diferencia == 0 {
			return "normal"
		}
		return "critico"
	}
	pct := decimal.NewFromInt(diferencia).
		Div(decimal.NewFromInt(esperado)).
		Mul(decimal.NewFromInt(100)).
		Abs()
	switch {
	case pct.LessThanOrEqual(decimal.NewFromInt(1)):
		return "normal"
	case pct.LessThanOrEqual(decimal.NewFromInt(5)):
		return "advertencia"
	default:
		return "critico"
	}
}
