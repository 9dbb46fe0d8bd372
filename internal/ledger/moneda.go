package ledger

import (
	"fmt"

	"almapos/internal/model"

	"github.com/shopspring/decimal"
)

// Convertir converts an int64 minor-unit amount between currencies through
// the default-currency bridge:
//
//	base    = monto * TasaEscala / tasa(de)
//	destino = base * tasa(a) / TasaEscala
//
// The arithmetic runs on decimals and rounds to the nearest minor unit
// exactly once, at the end, so a round trip drifts by at most one unit.
//
// When de == a the input is returned untouched — no rounding pass — which
// guarantees exact round-trip identity. Unknown codes fail with
// ErrMonedaDesconocida rather than silently returning the input.
func Convertir(monto int64, de, a string, monedas []model.Moneda) (int64, error) {
	if de == a {
		return monto, nil
	}

	tasaDe, err := buscarTasa(de, monedas)
	if err != nil {
		return 0, err
	}
	tasaA, err := buscarTasa(a, monedas)
	if err != nil {
		return 0, err
	}

	resultado := decimal.NewFromInt(monto).
		Mul(decimal.NewFromInt(model.TasaEscala)).
		Div(decimal.NewFromInt(tasaDe)).
		Mul(decimal.NewFromInt(tasaA)).
		Div(decimal.NewFromInt(model.TasaEscala)).
		Round(0)
	return resultado.IntPart(), nil
}

func buscarTasa(codigo string, monedas []model.Moneda) (int64, error) {
	for _, m := range monedas {
		if m.Codigo == codigo {
			if m.TasaCambio <= 0 {
				return 0, fmt.Errorf("moneda %s con tasa %d: %w", codigo, m.TasaCambio, ErrMonedaDesconocida)
			}
			return m.TasaCambio, nil
		}
	}
	return 0, fmt.Errorf("moneda %s: %w", codigo, ErrMonedaDesconocida)
}
