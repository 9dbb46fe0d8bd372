package ledger

import "almapos/internal/model"

// ClasificarEstadoPago derives the payment status of a sale or purchase
// from paid-vs-total at registration time:
//
//	completa: pagado >= total
//	parcial:  0 < pagado < total
//	credito:  pagado == 0
//
// Centralized here so every call site classifies the same way.
func ClasificarEstadoPago(pagado, total int64) string {
	switch {
	case pagado >= total:
		return model.PagoCompleto
	case pagado > 0:
		return model.PagoParcial
	default:
		return model.PagoCredito
	}
}
