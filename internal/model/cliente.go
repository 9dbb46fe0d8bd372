package model

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de pago de entidad (cliente o proveedor).
const (
	PagoNormal    = "pago"
	PagoReembolso = "reembolso"
)

// Cliente represents a customer with an account ledger.
// Saldo is the denormalized outstanding balance in minor units: what the
// customer still owes us. It must always equal the running balance derived
// from the full sale + payment history (ledger.SaldoEntidad).
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"index;not null"`
	Documento *string   `gorm:"uniqueIndex"`
	Telefono  *string
	Email     *string
	Direccion *string
	Saldo     int64 `gorm:"not null;default:0"`
	Activo    bool  `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Cliente) TableName() string { return "clientes" }

// PagoCliente is a payment received from (tipo=pago) or returned to
// (tipo=reembolso) a customer. Only the "efectivo" method moves the till.
type PagoCliente struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	Tipo         string     `gorm:"type:varchar(20);not null"` // pago | reembolso
	Metodo       string     `gorm:"type:varchar(20);not null"`
	Monto        int64      `gorm:"not null"`
	Nota         *string
	Fecha        time.Time `gorm:"not null;index"`
	CreatedAt    time.Time

	Cliente *Cliente `gorm:"foreignKey:ClienteID"`
}

func (PagoCliente) TableName() string { return "pagos_cliente" }
