package model

import (
	"time"

	"github.com/google/uuid"
)

// Estados de sesión de caja.
const (
	SesionAbierta = "abierta"
	SesionCerrada = "cerrada"
)

// SesionCaja represents one open/close cycle of a physical cash drawer.
// Estado: "abierta" | "cerrada"
//
// All monetary columns are int64 minor units of the default currency.
// MontoEsperado, MontoReal, MontoCierre and Diferencia stay NULL while the
// session is open and are fixed permanently on close.
type SesionCaja struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroSesion  int64     `gorm:"uniqueIndex;not null"`
	Estado        string    `gorm:"type:varchar(20);not null;default:'abierta'"`
	MontoApertura int64     `gorm:"not null"`
	// MontoEsperado = MontoApertura + SUM(monto_caja de todas las transacciones)
	MontoEsperado *int64
	MontoReal     *int64
	MontoCierre   *int64
	// Diferencia = MontoReal - MontoEsperado; defined only when Estado = cerrada
	Diferencia *int64
	// ClasificacionDesvio: "normal" | "advertencia" | "critico"
	ClasificacionDesvio *string    `gorm:"type:varchar(20)"`
	AbiertaPorID        uuid.UUID  `gorm:"type:uuid;not null"`
	CerradaPorID        *uuid.UUID `gorm:"type:uuid"`
	Notas               *string
	OpenedAt            time.Time
	ClosedAt            *time.Time

	AbiertaPor *Usuario `gorm:"foreignKey:AbiertaPorID"`
	CerradaPor *Usuario `gorm:"foreignKey:CerradaPorID"`
}

// TableName overrides GORM's default pluralization (sesion_cajas → sesiones_caja).
func (SesionCaja) TableName() string { return "sesiones_caja" }
