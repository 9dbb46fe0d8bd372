package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CompraItemRequest struct {
	ProductoID    string `json:"producto_id"    validate:"required,uuid"`
	Cantidad      int    `json:"cantidad"       validate:"required,gt=0"`
	CostoUnitario int64  `json:"costo_unitario" validate:"required,gt=0"`
}

type RegistrarCompraRequest struct {
	ProveedorID string              `json:"proveedor_id" validate:"required,uuid"`
	Items       []CompraItemRequest `json:"items"        validate:"required,min=1,dive"`
	MontoPagado int64               `json:"monto_pagado" validate:"min=0"`
	MetodoPago  string              `json:"metodo_pago"  validate:"required,oneof=efectivo debito credito transferencia"`
	Nota        *string             `json:"nota"`
}

type CompraFilterRequest struct {
	Desde       string `form:"desde"`
	Hasta       string `form:"hasta"`
	ProveedorID string `form:"proveedor_id" validate:"omitempty,uuid"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CompraItemResponse struct {
	ProductoID    string `json:"producto_id"`
	Producto      string `json:"producto,omitempty"`
	Cantidad      int    `json:"cantidad"`
	CostoUnitario int64  `json:"costo_unitario"`
	Subtotal      int64  `json:"subtotal"`
}

type CompraResponse struct {
	ID           string               `json:"id"`
	NumeroCompra int64                `json:"numero_compra"`
	ProveedorID  string               `json:"proveedor_id"`
	Proveedor    string               `json:"proveedor,omitempty"`
	Total        int64                `json:"total"`
	MontoPagado  int64                `json:"monto_pagado"`
	MetodoPago   string               `json:"metodo_pago"`
	EstadoPago   string               `json:"estado_pago"`
	Items        []CompraItemResponse `json:"items"`
	Nota         *string              `json:"nota"`
	Fecha        string               `json:"fecha"`
}

type CompraListResponse struct {
	Compras []CompraResponse `json:"compras"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Limit   int              `json:"limit"`
}
