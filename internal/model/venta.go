package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de venta.
const (
	VentaCompletada = "completada"
	VentaAnulada    = "anulada"
)

// Estados de pago de una venta o compra, derived from paid-vs-total at
// registration time (see ledger.ClasificarEstadoPago).
const (
	PagoCompleto = "completa"
	PagoParcial  = "parcial"
	PagoCredito  = "credito"
)

// Venta is a completed sale against an open cash register session.
// Total, Subtotal and DescuentoTotal are int64 minor units.
type Venta struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroTicket   int64     `gorm:"uniqueIndex;not null"`
	SesionCajaID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID      uuid.UUID `gorm:"type:uuid;not null"`
	// ClienteID is nil for anonymous counter sales; required for credit sales.
	ClienteID      *uuid.UUID `gorm:"type:uuid;index"`
	Subtotal       int64      `gorm:"not null"`
	DescuentoTotal int64      `gorm:"not null;default:0"`
	Total          int64      `gorm:"not null"`
	MontoPagado    int64      `gorm:"not null"`
	EstadoPago     string     `gorm:"type:varchar(20);not null"`
	Estado         string     `gorm:"type:varchar(20);not null;default:'completada'"`
	Nota           *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Items   []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos   []VentaPago `gorm:"foreignKey:VentaID"`
	Cliente *Cliente    `gorm:"foreignKey:ClienteID"`
	Usuario *Usuario    `gorm:"foreignKey:UsuarioID"`
}

func (Venta) TableName() string { return "ventas" }

// VentaItem is one product line within a sale.
type VentaItem struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad       int       `gorm:"not null"`
	PrecioUnitario int64     `gorm:"not null"`
	DescuentoItem  int64     `gorm:"not null;default:0"`
	Subtotal       int64     `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaItem) TableName() string { return "venta_items" }

// VentaPago is one tender applied to a sale. A sale may mix methods
// (e.g. part cash, part card); only the "efectivo" portion moves the till.
type VentaPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;not null;index"`
	Metodo  string    `gorm:"type:varchar(20);not null"` // efectivo | debito | credito | transferencia
	Monto   int64     `gorm:"not null"`
}

func (VentaPago) TableName() string { return "venta_pagos" }
