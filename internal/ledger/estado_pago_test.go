package ledger

import (
	"testing"

	"almapos/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestClasificarEstadoPago(t *testing.T) {
	assert.Equal(t, model.PagoCompleto, ClasificarEstadoPago(10000, 10000))
	assert.Equal(t, model.PagoCompleto, ClasificarEstadoPago(12000, 10000), "sobrepago sigue siendo completa")
	assert.Equal(t, model.PagoParcial, ClasificarEstadoPago(1, 10000))
	assert.Equal(t, model.PagoParcial, ClasificarEstadoPago(9999, 10000))
	assert.Equal(t, model.PagoCredito, ClasificarEstadoPago(0, 10000))
	assert.Equal(t, model.PagoCompleto, ClasificarEstadoPago(0, 0), "venta sin cargo queda completa")
}
