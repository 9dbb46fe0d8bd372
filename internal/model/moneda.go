package model

import (
	"time"

	"github.com/google/uuid"
)

// TasaEscala is the fixed-point scale of Moneda.TasaCambio:
// 10000 means parity with the default currency.
const TasaEscala = 10000

// Moneda is a display currency. All amounts in the system are stored in
// minor units of the single default currency (EsPredeterminada=true);
// conversion through TasaCambio is display-only and never mutates stored
// amounts.
type Moneda struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Codigo  string    `gorm:"type:varchar(10);uniqueIndex;not null"`
	Nombre  string    `gorm:"not null"`
	Simbolo string    `gorm:"type:varchar(10);not null"`
	// TasaCambio is scaled by TasaEscala relative to the default currency.
	TasaCambio int64 `gorm:"not null;default:10000"`
	// Decimales: minor-unit digits for display (0–4)
	Decimales        int  `gorm:"not null;default:2"`
	EsPredeterminada bool `gorm:"not null;default:false"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (Moneda) TableName() string { return "monedas" }
