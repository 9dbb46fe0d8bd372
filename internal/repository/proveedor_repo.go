package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProveedorRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, p *model.Proveedor) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error)
	Update(ctx context.Context, p *model.Proveedor) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta int64) error
	CreatePago(ctx context.Context, tx *gorm.DB, p *model.PagoProveedor) error
	ListPagos(ctx context.Context, proveedorID uuid.UUID) ([]model.PagoProveedor, error)
	ListPagosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.PagoProveedor, error)
}

type proveedorRepo struct{ db *gorm.DB }

func NewProveedorRepository(db *gorm.DB) ProveedorRepository { return &proveedorRepo{db: db} }

func (r *proveedorRepo) DB() *gorm.DB { return r.db }

func (r *proveedorRepo) Create(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *proveedorRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Proveedor, error) {
	var p model.Proveedor
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *proveedorRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var proveedores []model.Proveedor
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&proveedores).Error
	return proveedores, err
}

func (r *proveedorRepo) Update(ctx context.Context, p *model.Proveedor) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *proveedorRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Proveedor{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *proveedorRepo) AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Proveedor{}).Where("id = ?", id).
		Update("saldo", gorm.Expr("saldo + ?", delta)).Error
}

func (r *proveedorRepo) CreatePago(ctx context.Context, tx *gorm.DB, p *model.PagoProveedor) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(p).Error
}

func (r *proveedorRepo) ListPagos(ctx context.Context, proveedorID uuid.UUID) ([]model.PagoProveedor, error) {
	var pagos []model.PagoProveedor
	err := r.db.WithContext(ctx).
		Where("proveedor_id = ?", proveedorID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}

func (r *proveedorRepo) ListPagosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.PagoProveedor, error) {
	var pagos []model.PagoProveedor
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}
