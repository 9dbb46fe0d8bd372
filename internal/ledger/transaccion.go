package ledger

import (
	"fmt"
	"sort"
	"time"

	"almapos/internal/model"

	"github.com/google/uuid"
)

// TipoTransaccion identifies the origin of a normalized transaction.
type TipoTransaccion string

const (
	TipoApertura      TipoTransaccion = "apertura"
	TipoVenta         TipoTransaccion = "venta"
	TipoPagoCliente   TipoTransaccion = "pago_cliente"
	TipoPagoProveedor TipoTransaccion = "pago_proveedor"
	TipoCompra        TipoTransaccion = "compra"
	TipoGasto         TipoTransaccion = "gasto"
)

// MetodoEfectivo is the only payment method that moves the physical till.
const MetodoEfectivo = "efectivo"

// Transaccion is the normalized, synthetic view of one transaction source.
// It is never persisted; the session ledger is rebuilt from the source
// records on every read.
//
// MontoBruto is the full monetary value of the operation. MontoCaja is the
// signed portion that moved the till: positive = cash in, negative = cash
// out, zero for non-cash tenders and for the opening marker.
type Transaccion struct {
	ID          uuid.UUID
	Tipo        TipoTransaccion
	Descripcion string
	MontoBruto  int64
	MontoCaja   int64
	MetodoPago  string
	Fecha       time.Time
	Contraparte string
	Nota        string
}

// Direccion distinguishes the two entity ledgers: money flowing from
// customers versus money flowing to suppliers.
type Direccion string

const (
	DireccionCliente   Direccion = "cliente"
	DireccionProveedor Direccion = "proveedor"
)

// signoCaja is the cash-sign convention per (direction, payment type).
// A customer payment brings cash in; a customer refund returns it. The
// supplier side is the exact mirror. Kept as a table so the asymmetry
// lives in one place instead of scattered conditionals.
var signoCaja = map[Direccion]map[string]int64{
	DireccionCliente:   {model.PagoNormal: +1, model.PagoReembolso: -1},
	DireccionProveedor: {model.PagoNormal: -1, model.PagoReembolso: +1},
}

// ConstruirLibroSesion normalizes every transaction source of a session into
// one feed: the opening marker plus one Transaccion per venta, pago, compra
// and gasto. The result is NOT sorted — callers filter first and then call
// Ordenar, so display filters never alter what was aggregated.
//
// Every record must reference sesion.ID; a mismatch fails with
// ErrIntegridadDatos instead of being dropped.
func ConstruirLibroSesion(
	sesion *model.SesionCaja,
	ventas []model.Venta,
	pagosCliente []model.PagoCliente,
	pagosProveedor []model.PagoProveedor,
	compras []model.Compra,
	gastos []model.Gasto,
) ([]Transaccion, error) {
	libro := make([]Transaccion, 0, 1+len(ventas)+len(pagosCliente)+len(pagosProveedor)+len(compras)+len(gastos))

	// Opening marker: baseline, not a movement — MontoCaja is 0 by definition.
	libro = append(libro, Transaccion{
		ID:          sesion.ID,
		Tipo:        TipoApertura,
		Descripcion: fmt.Sprintf("Apertura de caja #%d", sesion.NumeroSesion),
		MontoBruto:  sesion.MontoApertura,
		MontoCaja:   0,
		MetodoPago:  MetodoEfectivo,
		Fecha:       sesion.OpenedAt,
	})

	for _, v := range ventas {
		if v.SesionCajaID != sesion.ID {
			return nil, fmt.Errorf("venta %s: %w", v.ID, ErrIntegridadDatos)
		}
		t := Transaccion{
			ID:          v.ID,
			Tipo:        TipoVenta,
			Descripcion: fmt.Sprintf("Venta #%d", v.NumeroTicket),
			MontoBruto:  v.Total,
			MontoCaja:   efectivoDeVenta(v),
			MetodoPago:  metodoPredominante(v.Pagos),
			Fecha:       v.CreatedAt,
		}
		if v.Cliente != nil {
			t.Contraparte = v.Cliente.Nombre
		}
		if v.Nota != nil {
			t.Nota = *v.Nota
		}
		libro = append(libro, t)
	}

	for _, p := range pagosCliente {
		if p.SesionCajaID == nil || *p.SesionCajaID != sesion.ID {
			return nil, fmt.Errorf("pago de cliente %s: %w", p.ID, ErrIntegridadDatos)
		}
		t := Transaccion{
			ID:          p.ID,
			Tipo:        TipoPagoCliente,
			Descripcion: descripcionPago(DireccionCliente, p.Tipo),
			MontoBruto:  p.Monto,
			MontoCaja:   efectivoDePago(DireccionCliente, p.Tipo, p.Metodo, p.Monto),
			MetodoPago:  p.Metodo,
			Fecha:       p.Fecha,
		}
		if p.Cliente != nil {
			t.Contraparte = p.Cliente.Nombre
		}
		if p.Nota != nil {
			t.Nota = *p.Nota
		}
		libro = append(libro, t)
	}

	for _, p := range pagosProveedor {
		if p.SesionCajaID == nil || *p.SesionCajaID != sesion.ID {
			return nil, fmt.Errorf("pago a proveedor %s: %w", p.ID, ErrIntegridadDatos)
		}
		t := Transaccion{
			ID:          p.ID,
			Tipo:        TipoPagoProveedor,
			Descripcion: descripcionPago(DireccionProveedor, p.Tipo),
			MontoBruto:  p.Monto,
			MontoCaja:   efectivoDePago(DireccionProveedor, p.Tipo, p.Metodo, p.Monto),
			MetodoPago:  p.Metodo,
			Fecha:       p.Fecha,
		}
		if p.Proveedor != nil {
			t.Contraparte = p.Proveedor.RazonSocial
		}
		if p.Nota != nil {
			t.Nota = *p.Nota
		}
		libro = append(libro, t)
	}

	for _, c := range compras {
		if c.SesionCajaID == nil || *c.SesionCajaID != sesion.ID {
			return nil, fmt.Errorf("compra %s: %w", c.ID, ErrIntegridadDatos)
		}
		caja := int64(0)
		if c.MetodoPago == MetodoEfectivo {
			caja = -c.MontoPagado
		}
		t := Transaccion{
			ID:          c.ID,
			Tipo:        TipoCompra,
			Descripcion: fmt.Sprintf("Compra #%d", c.NumeroCompra),
			MontoBruto:  c.Total,
			MontoCaja:   caja,
			MetodoPago:  c.MetodoPago,
			Fecha:       c.Fecha,
		}
		if c.Proveedor != nil {
			t.Contraparte = c.Proveedor.RazonSocial
		}
		if c.Nota != nil {
			t.Nota = *c.Nota
		}
		libro = append(libro, t)
	}

	for _, g := range gastos {
		if g.SesionCajaID == nil || *g.SesionCajaID != sesion.ID {
			return nil, fmt.Errorf("gasto %s: %w", g.ID, ErrIntegridadDatos)
		}
		caja := int64(0)
		if g.MetodoPago == MetodoEfectivo {
			caja = -g.Monto
		}
		libro = append(libro, Transaccion{
			ID:          g.ID,
			Tipo:        TipoGasto,
			Descripcion: g.Descripcion,
			MontoBruto:  g.Monto,
			MontoCaja:   caja,
			MetodoPago:  g.MetodoPago,
			Fecha:       g.Fecha,
			Nota:        g.Categoria,
		})
	}

	return libro, nil
}

// Ordenar sorts a transaction feed in place: the opening marker first
// regardless of timestamp, then ascending by Fecha. The sort is stable so
// same-instant transactions keep insertion order and output stays
// deterministic.
func Ordenar(libro []Transaccion) {
	sort.SliceStable(libro, func(i, j int) bool {
		if (libro[i].Tipo == TipoApertura) != (libro[j].Tipo == TipoApertura) {
			return libro[i].Tipo == TipoApertura
		}
		return libro[i].Fecha.Before(libro[j].Fecha)
	})
}

// FiltrarPorRango keeps transactions with desde <= Fecha < hasta. The
// opening marker is always kept: it is the baseline of any view. A zero
// desde or hasta leaves that bound open.
func FiltrarPorRango(libro []Transaccion, desde, hasta time.Time) []Transaccion {
	out := make([]Transaccion, 0, len(libro))
	for _, t := range libro {
		if t.Tipo == TipoApertura {
			out = append(out, t)
			continue
		}
		if !desde.IsZero() && t.Fecha.Before(desde) {
			continue
		}
		if !hasta.IsZero() && !t.Fecha.Before(hasta) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// FiltrarPorTipo keeps the opening marker plus transactions whose Tipo is
// in tipos.
func FiltrarPorTipo(libro []Transaccion, tipos ...TipoTransaccion) []Transaccion {
	keep := make(map[TipoTransaccion]bool, len(tipos))
	for _, tt := range tipos {
		keep[tt] = true
	}
	out := make([]Transaccion, 0, len(libro))
	for _, t := range libro {
		if t.Tipo == TipoApertura || keep[t.Tipo] {
			out = append(out, t)
		}
	}
	return out
}

// efectivoDeVenta: only the cash-tendered portion of the sale moves the
// till; card and transfer tenders contribute revenue but not cash.
func efectivoDeVenta(v model.Venta) int64 {
	var caja int64
	for _, p := range v.Pagos {
		if p.Metodo == MetodoEfectivo {
			caja += p.Monto
		}
	}
	return caja
}

func efectivoDePago(dir Direccion, tipo, metodo string, monto int64) int64 {
	if metodo != MetodoEfectivo {
		return 0
	}
	return signoCaja[dir][tipo] * monto
}

// metodoPredominante picks the method of the largest tender for display;
// mixed-tender sales still derive MontoCaja from the cash portion only.
func metodoPredominante(pagos []model.VentaPago) string {
	metodo := MetodoEfectivo
	var mayor int64 = -1
	for _, p := range pagos {
		if p.Monto > mayor {
			mayor = p.Monto
			metodo = p.Metodo
		}
	}
	return metodo
}

func descripcionPago(dir Direccion, tipo string) string {
	switch {
	case dir == DireccionCliente && tipo == model.PagoReembolso:
		return "Reembolso a cliente"
	case dir == DireccionCliente:
		return "Pago de cliente"
	case tipo == model.PagoReembolso:
		return "Reembolso de proveedor"
	default:
		return "Pago a proveedor"
	}
}
