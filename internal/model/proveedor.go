package model

import (
	"time"

	"github.com/google/uuid"
)

// Proveedor represents a supplier with commercial data and an account ledger.
// Saldo is the denormalized outstanding balance in minor units: what we still
// owe the supplier. It must always equal the running balance derived from the
// full purchase + payment history (ledger.SaldoEntidad).
type Proveedor struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RazonSocial   string    `gorm:"not null"`
	CUIT          *string   `gorm:"column:cuit;uniqueIndex"`
	Telefono      *string
	Email         *string
	Direccion     *string
	CondicionPago *string
	Saldo         int64 `gorm:"not null;default:0"`
	Activo        bool  `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Proveedor) TableName() string { return "proveedores" }

// PagoProveedor is a payment sent to (tipo=pago) or refunded by
// (tipo=reembolso) a supplier. Sign convention against the till is the
// mirror of PagoCliente: paying a supplier is cash out.
type PagoProveedor struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProveedorID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(20);not null"` // pago | reembolso
	Metodo       string     `gorm:"type:varchar(20);not null"`
	Monto        int64      `gorm:"not null"`
	Nota         *string
	Fecha        time.Time `gorm:"not null;index"`
	CreatedAt    time.Time

	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (PagoProveedor) TableName() string { return "pagos_proveedor" }
