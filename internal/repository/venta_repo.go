package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VentaFilter narrows ListVentas queries. Desde/Hasta are RFC3339 strings
// passed straight to the query; empty leaves the bound open.
type VentaFilter struct {
	Desde  string
	Hasta  string
	Estado string
	Page   int
	Limit  int
}

type VentaRepository interface {
	// DB exposes the gorm handle so services can open transactions that
	// span repositories. Nil in unit tests.
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	NextTicketNumber(ctx context.Context, tx *gorm.DB) (int64, error)
	UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error
	// ListPorSesion returns the completed sales of a session; anulled sales
	// never reach the session ledger.
	ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error)
	ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venta, error)
	List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error)
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Pagos").Preload("Cliente").
		First(&v, id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) NextTicketNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	var max int64
	err := tx.Model(&model.Venta{}).
		Select("COALESCE(MAX(numero_ticket), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (r *ventaRepo) UpdateEstadoTx(tx *gorm.DB, id uuid.UUID, estado string) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Venta{}).Where("id = ?", id).Update("estado", estado).Error
}

func (r *ventaRepo) ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Pagos").Preload("Cliente").
		Where("sesion_caja_id = ? AND estado = ?", sesionID, model.VentaCompletada).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListPorCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("cliente_id = ? AND estado = ?", clienteID, model.VentaCompletada).
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) List(ctx context.Context, filter VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		q = q.Where("created_at >= ?", filter.Desde)
	}
	if filter.Hasta != "" {
		q = q.Where("created_at < ?", filter.Hasta)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items").Preload("Items.Producto").Preload("Pagos").Preload("Cliente").Preload("Usuario").
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}
