package model

import (
	"time"

	"github.com/google/uuid"
)

// Producto represents a sellable product. Prices are int64 minor units.
type Producto struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string    `gorm:"uniqueIndex;not null"`
	Nombre       string    `gorm:"index;not null"`
	Descripcion  *string
	CategoriaID  *uuid.UUID `gorm:"type:uuid;index"`
	PrecioCosto  int64      `gorm:"not null"`
	PrecioVenta  int64      `gorm:"not null"`
	StockActual  int        `gorm:"not null;default:0"`
	StockMinimo  int        `gorm:"not null;default:5"`
	UnidadMedida string     `gorm:"not null;default:'unidad'"`
	ProveedorID  *uuid.UUID `gorm:"type:uuid;index"`
	Activo       bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
	Proveedor *Proveedor `gorm:"foreignKey:ProveedorID"`
}

func (Producto) TableName() string { return "productos" }
