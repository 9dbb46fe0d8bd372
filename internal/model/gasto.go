package model

import (
	"time"

	"github.com/google/uuid"
)

// Gasto is an operating expense (rent, services, supplies). When paid in
// cash against an open session it reduces the till balance.
type Gasto struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SesionCajaID *uuid.UUID `gorm:"type:uuid;index"`
	UsuarioID    uuid.UUID  `gorm:"type:uuid;not null"`
	Categoria    string     `gorm:"type:varchar(50);not null;index"`
	Descripcion  string     `gorm:"not null"`
	MetodoPago   string     `gorm:"type:varchar(20);not null"`
	Monto        int64      `gorm:"not null"`
	Fecha        time.Time  `gorm:"not null;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Gasto) TableName() string { return "gastos" }
