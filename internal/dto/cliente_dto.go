package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ClienteRequest struct {
	Nombre    string  `json:"nombre"    validate:"required,min=2"`
	Documento *string `json:"documento"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Direccion *string `json:"direccion"`
}

type RegistrarPagoRequest struct {
	Tipo   string  `json:"tipo"   validate:"required,oneof=pago reembolso"`
	Metodo string  `json:"metodo" validate:"required,oneof=efectivo debito credito transferencia"`
	Monto  int64   `json:"monto"  validate:"required,gt=0"`
	Nota   *string `json:"nota"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID        string  `json:"id"`
	Nombre    string  `json:"nombre"`
	Documento *string `json:"documento"`
	Telefono  *string `json:"telefono"`
	Email     *string `json:"email"`
	Direccion *string `json:"direccion"`
	Saldo     int64   `json:"saldo"`
	Activo    bool    `json:"activo"`
	CreatedAt string  `json:"created_at"`
}

type EntradaLibroResponse struct {
	ID          string `json:"id"`
	Fecha       string `json:"fecha"`
	Tipo        string `json:"tipo"`
	Descripcion string `json:"descripcion"`
	Debe        int64  `json:"debe"`
	Haber       int64  `json:"haber"`
	Saldo       int64  `json:"saldo"`
}

type LibroEntidadResponse struct {
	EntidadID string                 `json:"entidad_id"`
	Entidad   string                 `json:"entidad"`
	Entradas  []EntradaLibroResponse `json:"entradas"`
	Saldo     int64                  `json:"saldo"`
}

type PagoResponse struct {
	ID     string  `json:"id"`
	Tipo   string  `json:"tipo"`
	Metodo string  `json:"metodo"`
	Monto  int64   `json:"monto"`
	Nota   *string `json:"nota"`
	Fecha  string  `json:"fecha"`
	Saldo  int64   `json:"saldo"` // entity balance after applying this payment
}
