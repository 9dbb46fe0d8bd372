package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type VentaItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,gt=0"`
	// DescuentoItem in minor units, subtracted from the line subtotal.
	DescuentoItem int64 `json:"descuento_item" validate:"min=0"`
}

type VentaPagoRequest struct {
	Metodo string `json:"metodo" validate:"required,oneof=efectivo debito credito transferencia"`
	Monto  int64  `json:"monto"  validate:"required,gt=0"`
}

type RegistrarVentaRequest struct {
	ClienteID *string            `json:"cliente_id" validate:"omitempty,uuid"`
	Items     []VentaItemRequest `json:"items"      validate:"required,min=1,dive"`
	Pagos     []VentaPagoRequest `json:"pagos"      validate:"dive"`
	Nota      *string            `json:"nota"`
}

type AnularVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type VentaFilter struct {
	Desde  string `form:"desde"`
	Hasta  string `form:"hasta"`
	Estado string `form:"estado" validate:"omitempty,oneof=completada anulada"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type VentaItemResponse struct {
	ProductoID     string `json:"producto_id"`
	Producto       string `json:"producto,omitempty"`
	Cantidad       int    `json:"cantidad"`
	PrecioUnitario int64  `json:"precio_unitario"`
	DescuentoItem  int64  `json:"descuento_item"`
	Subtotal       int64  `json:"subtotal"`
}

type VentaPagoResponse struct {
	Metodo string `json:"metodo"`
	Monto  int64  `json:"monto"`
}

type VentaResponse struct {
	ID             string              `json:"id"`
	NumeroTicket   int64               `json:"numero_ticket"`
	SesionCajaID   string              `json:"sesion_caja_id"`
	ClienteID      *string             `json:"cliente_id"`
	Cliente        *string             `json:"cliente,omitempty"`
	Subtotal       int64               `json:"subtotal"`
	DescuentoTotal int64               `json:"descuento_total"`
	Total          int64               `json:"total"`
	MontoPagado    int64               `json:"monto_pagado"`
	Vuelto         int64               `json:"vuelto"`
	EstadoPago     string              `json:"estado_pago"` // completa | parcial | credito
	Estado         string              `json:"estado"`
	Items          []VentaItemResponse `json:"items"`
	Pagos          []VentaPagoResponse `json:"pagos"`
	Nota           *string             `json:"nota"`
	CreatedAt      string              `json:"created_at"`
}

type VentaListResponse struct {
	Ventas []VentaResponse `json:"ventas"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
