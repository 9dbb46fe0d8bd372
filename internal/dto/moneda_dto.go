package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type MonedaRequest struct {
	Codigo  string `json:"codigo"  validate:"required,len=3,uppercase"`
	Nombre  string `json:"nombre"  validate:"required,min=2"`
	Simbolo string `json:"simbolo" validate:"required"`
	// TasaCambio is fixed-point: units of the default currency per one unit
	// of this currency, scaled by 10000.
	TasaCambio int64 `json:"tasa_cambio" validate:"required,gt=0"`
	Decimales  int   `json:"decimales"   validate:"min=0,max=4"`
}

type ConvertirRequest struct {
	Monto int64  `json:"monto" validate:"required"`
	De    string `json:"de"    validate:"required,len=3"`
	A     string `json:"a"     validate:"required,len=3"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MonedaResponse struct {
	ID               string `json:"id"`
	Codigo           string `json:"codigo"`
	Nombre           string `json:"nombre"`
	Simbolo          string `json:"simbolo"`
	TasaCambio       int64  `json:"tasa_cambio"`
	Decimales        int    `json:"decimales"`
	EsPredeterminada bool   `json:"es_predeterminada"`
}

type ConvertirResponse struct {
	Monto     int64  `json:"monto"`
	De        string `json:"de"`
	A         string `json:"a"`
	Resultado int64  `json:"resultado"`
}
