package dto

type RegistrarGastoRequest struct {
	Categoria   string `json:"categoria"   validate:"required,min=2"`
	Descripcion string `json:"descripcion" validate:"required,min=3"`
	MetodoPago  string `json:"metodo_pago" validate:"required,oneof=efectivo debito credito transferencia"`
	Monto       int64  `json:"monto"       validate:"required,gt=0"`
}

// ActualizarGastoRequest corrects a recorded expense. The payment method is
// immutable: switching it would silently move the expense in or out of the
// till ledger.
type ActualizarGastoRequest struct {
	Categoria   string `json:"categoria"   validate:"required,min=2"`
	Descripcion string `json:"descripcion" validate:"required,min=3"`
	Monto       int64  `json:"monto"       validate:"required,gt=0"`
}

type GastoResponse struct {
	ID           string  `json:"id"`
	SesionCajaID *string `json:"sesion_caja_id"`
	Categoria    string  `json:"categoria"`
	Descripcion  string  `json:"descripcion"`
	MetodoPago   string  `json:"metodo_pago"`
	Monto        int64   `json:"monto"`
	Fecha        string  `json:"fecha"`
}

type GastoListResponse struct {
	Gastos []GastoResponse `json:"gastos"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
