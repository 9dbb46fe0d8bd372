package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCajaRequest struct {
	// MontoApertura in minor units of the default currency.
	MontoApertura int64   `json:"monto_apertura" validate:"min=0"`
	Notas         *string `json:"notas"`
}

type CerrarCajaRequest struct {
	// MontoReal is the physically counted cash, in minor units.
	MontoReal int64   `json:"monto_real" validate:"min=0"`
	Notas     *string `json:"notas"`
}

type LibroCajaFilter struct {
	Desde string `form:"desde" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Hasta string `form:"hasta" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Tipos string `form:"tipos"` // comma-separated: venta,pago_cliente,...
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TransaccionResponse struct {
	ID          string  `json:"id"`
	Tipo        string  `json:"tipo"`
	Descripcion string  `json:"descripcion"`
	MontoBruto  int64   `json:"monto_bruto"`
	MontoCaja   int64   `json:"monto_caja"`
	MetodoPago  string  `json:"metodo_pago"`
	Fecha       string  `json:"fecha"`
	Contraparte *string `json:"contraparte,omitempty"`
	Nota        *string `json:"nota,omitempty"`
	Saldo       int64   `json:"saldo"`
}

type LibroCajaResponse struct {
	SesionCajaID  string                `json:"sesion_caja_id"`
	NumeroSesion  int64                 `json:"numero_sesion"`
	Estado        string                `json:"estado"`
	MontoApertura int64                 `json:"monto_apertura"`
	SaldoEsperado int64                 `json:"saldo_esperado"`
	Transacciones []TransaccionResponse `json:"transacciones"`
}

type CierreResponse struct {
	SesionCajaID        string `json:"sesion_caja_id"`
	NumeroSesion        int64  `json:"numero_sesion"`
	MontoEsperado       int64  `json:"monto_esperado"`
	MontoReal           int64  `json:"monto_real"`
	Diferencia          int64  `json:"diferencia"`
	Resultado           string `json:"resultado"` // cuadrada | sobrante | faltante
	ClasificacionDesvio string `json:"clasificacion_desvio"`
	Estado              string `json:"estado"`
}

type SesionCajaResponse struct {
	ID                  string  `json:"id"`
	NumeroSesion        int64   `json:"numero_sesion"`
	Estado              string  `json:"estado"`
	MontoApertura       int64   `json:"monto_apertura"`
	MontoEsperado       *int64  `json:"monto_esperado"`
	MontoReal           *int64  `json:"monto_real"`
	Diferencia          *int64  `json:"diferencia"`
	ClasificacionDesvio *string `json:"clasificacion_desvio"`
	AbiertaPor          string  `json:"abierta_por"`
	CerradaPor          *string `json:"cerrada_por"`
	Notas               *string `json:"notas"`
	OpenedAt            string  `json:"opened_at"`
	ClosedAt            *string `json:"closed_at"`
}

type HistorialCajaResponse struct {
	Sesiones []SesionCajaResponse `json:"sesiones"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}
