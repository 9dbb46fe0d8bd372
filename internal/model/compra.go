package model

import (
	"time"

	"github.com/google/uuid"
)

// Compra is a stock purchase from a supplier. MontoPagado is what was paid
// at purchase time; the unpaid remainder accrues to the supplier's Saldo.
type Compra struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroCompra int64      `gorm:"uniqueIndex;not null"`
	ProveedorID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	Total        int64      `gorm:"not null"`
	MontoPagado  int64      `gorm:"not null;default:0"`
	MetodoPago   string     `gorm:"type:varchar(20);not null"`
	EstadoPago   string     `gorm:"type:varchar(20);not null"`
	Nota         *string
	Fecha        time.Time `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Items     []CompraItem `gorm:"foreignKey:CompraID"`
	Proveedor *Proveedor   `gorm:"foreignKey:ProveedorID"`
}

func (Compra) TableName() string { return "compras" }

// CompraItem is one product line within a purchase; receiving it
// increments stock at the given unit cost.
type CompraItem struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CompraID      uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null"`
	Cantidad      int       `gorm:"not null"`
	CostoUnitario int64     `gorm:"not null"`
	Subtotal      int64     `gorm:"not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CompraItem) TableName() string { return "compra_items" }
