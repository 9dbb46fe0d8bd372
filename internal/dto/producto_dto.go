package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ProductoRequest struct {
	CodigoBarras string  `json:"codigo_barras" validate:"required,min=1"`
	Nombre       string  `json:"nombre"        validate:"required,min=2"`
	Descripcion  *string `json:"descripcion"`
	CategoriaID  *string `json:"categoria_id"  validate:"omitempty,uuid"`
	ProveedorID  *string `json:"proveedor_id"  validate:"omitempty,uuid"`
	PrecioCosto  int64   `json:"precio_costo"  validate:"min=0"`
	PrecioVenta  int64   `json:"precio_venta"  validate:"required,gt=0"`
	StockActual  int     `json:"stock_actual"  validate:"min=0"`
	StockMinimo  int     `json:"stock_minimo"  validate:"min=0"`
	UnidadMedida string  `json:"unidad_medida" validate:"omitempty,oneof=unidad kg litro"`
}

type AjusteStockRequest struct {
	Cantidad int    `json:"cantidad" validate:"required"`
	Motivo   string `json:"motivo"   validate:"required,min=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID           string  `json:"id"`
	CodigoBarras string  `json:"codigo_barras"`
	Nombre       string  `json:"nombre"`
	Descripcion  *string `json:"descripcion"`
	CategoriaID  *string `json:"categoria_id"`
	Categoria    *string `json:"categoria,omitempty"`
	ProveedorID  *string `json:"proveedor_id"`
	PrecioCosto  int64   `json:"precio_costo"`
	PrecioVenta  int64   `json:"precio_venta"`
	StockActual  int     `json:"stock_actual"`
	StockMinimo  int     `json:"stock_minimo"`
	UnidadMedida string  `json:"unidad_medida"`
	Activo       bool    `json:"activo"`
}

type ProductoListResponse struct {
	Productos []ProductoResponse `json:"productos"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	Limit     int                `json:"limit"`
}

type MovimientoStockResponse struct {
	ID            string `json:"id"`
	Tipo          string `json:"tipo"`
	Cantidad      int    `json:"cantidad"`
	StockAnterior int    `json:"stock_anterior"`
	StockNuevo    int    `json:"stock_nuevo"`
	Motivo        string `json:"motivo"`
	CreatedAt     string `json:"created_at"`
}
