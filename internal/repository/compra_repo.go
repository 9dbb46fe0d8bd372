package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompraFilter struct {
	Desde       string
	Hasta       string
	ProveedorID *uuid.UUID
	Page        int
	Limit       int
}

type CompraRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error)
	NextNumeroCompra(ctx context.Context, tx *gorm.DB) (int64, error)
	ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Compra, error)
	ListPorProveedor(ctx context.Context, proveedorID uuid.UUID) ([]model.Compra, error)
	List(ctx context.Context, f CompraFilter) ([]model.Compra, int64, error)
}

type compraRepo struct{ db *gorm.DB }

func NewCompraRepository(db *gorm.DB) CompraRepository { return &compraRepo{db: db} }

func (r *compraRepo) DB() *gorm.DB { return r.db }

func (r *compraRepo) Create(ctx context.Context, tx *gorm.DB, c *model.Compra) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(c).Error
}

func (r *compraRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Compra, error) {
	var c model.Compra
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Producto").
		Preload("Proveedor").
		First(&c, id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *compraRepo) NextNumeroCompra(ctx context.Context, tx *gorm.DB) (int64, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	var next int64
	err := tx.Model(&model.Compra{}).
		Select("COALESCE(MAX(numero_compra), 0) + 1").
		Scan(&next).Error
	return next, err
}

func (r *compraRepo) ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Preload("Proveedor").
		Where("sesion_caja_id = ?", sesionID).
		Order("created_at ASC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) ListPorProveedor(ctx context.Context, proveedorID uuid.UUID) ([]model.Compra, error) {
	var compras []model.Compra
	err := r.db.WithContext(ctx).
		Where("proveedor_id = ?", proveedorID).
		Order("created_at ASC").
		Find(&compras).Error
	return compras, err
}

func (r *compraRepo) List(ctx context.Context, f CompraFilter) ([]model.Compra, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Compra{})
	if f.Desde != "" {
		q = q.Where("created_at >= ?", f.Desde)
	}
	if f.Hasta != "" {
		q = q.Where("created_at <= ?", f.Hasta)
	}
	if f.ProveedorID != nil {
		q = q.Where("proveedor_id = ?", *f.ProveedorID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}

	var compras []model.Compra
	err := q.Preload("Proveedor").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.Limit).
		Limit(f.Limit).
		Find(&compras).Error
	return compras, total, err
}
