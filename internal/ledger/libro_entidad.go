package ledger

import (
	"fmt"
	"sort"
	"time"

	"almapos/internal/model"

	"github.com/google/uuid"
)

// Factura is a normalized invoice against an entity: a completed sale for
// a customer, a purchase for a supplier. It always debits the ledger.
type Factura struct {
	ID          uuid.UUID
	EntidadID   uuid.UUID
	Fecha       time.Time
	Descripcion string
	Total       int64
}

// Abono is a normalized payment or refund against an entity.
type Abono struct {
	ID          uuid.UUID
	EntidadID   uuid.UUID
	Fecha       time.Time
	Descripcion string
	Tipo        string // pago | reembolso
	Monto       int64
}

// EntradaLibro is one row of an entity's account ledger.
// Invariant: Saldo[i] = Saldo[i-1] + Debe[i] - Haber[i], seed 0.
type EntradaLibro struct {
	ID          uuid.UUID
	Fecha       time.Time
	Tipo        TipoTransaccion
	Descripcion string
	Debe        int64
	Haber       int64
	Saldo       int64
}

// ConstruirLibroEntidad merges an entity's full invoice and payment history
// into one chronological ledger with a running balance.
//
// An invoice debits the full amount owed. A payment credits it — unless it
// is a refund, in which case debit and credit swap: returning money to a
// customer restores what they owe, and a supplier refund restores what we
// owe them. The swap is symmetric, so dir only selects the invoice label.
//
// Records referencing a different entity fail with ErrIntegridadDatos.
func ConstruirLibroEntidad(dir Direccion, entidadID uuid.UUID, facturas []Factura, abonos []Abono) ([]EntradaLibro, error) {
	tipoFactura := TipoVenta
	tipoAbono := TipoPagoCliente
	if dir == DireccionProveedor {
		tipoFactura = TipoCompra
		tipoAbono = TipoPagoProveedor
	}

	libro := make([]EntradaLibro, 0, len(facturas)+len(abonos))

	for _, f := range facturas {
		if f.EntidadID != entidadID {
			return nil, fmt.Errorf("factura %s: %w", f.ID, ErrIntegridadDatos)
		}
		libro = append(libro, EntradaLibro{
			ID:          f.ID,
			Fecha:       f.Fecha,
			Tipo:        tipoFactura,
			Descripcion: f.Descripcion,
			Debe:        f.Total,
		})
	}

	for _, a := range abonos {
		if a.EntidadID != entidadID {
			return nil, fmt.Errorf("abono %s: %w", a.ID, ErrIntegridadDatos)
		}
		e := EntradaLibro{
			ID:          a.ID,
			Fecha:       a.Fecha,
			Tipo:        tipoAbono,
			Descripcion: a.Descripcion,
		}
		if a.Tipo == model.PagoReembolso {
			e.Debe = a.Monto
		} else {
			e.Haber = a.Monto
		}
		libro = append(libro, e)
	}

	sort.SliceStable(libro, func(i, j int) bool {
		return libro[i].Fecha.Before(libro[j].Fecha)
	})

	var saldo int64
	for i := range libro {
		saldo += libro[i].Debe - libro[i].Haber
		libro[i].Saldo = saldo
	}
	return libro, nil
}

// SaldoEntidad is the entity's current outstanding balance: the last running
// balance, or 0 for an empty history. Must match the denormalized Saldo
// field stored on the entity.
func SaldoEntidad(libro []EntradaLibro) int64 {
	if len(libro) == 0 {
		return 0
	}
	return libro[len(libro)-1].Saldo
}
