package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Gasto, error)
	List(ctx context.Context, desde, hasta string, page, limit int) ([]model.Gasto, int64, error)
	Update(ctx context.Context, g *model.Gasto) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *gastoRepo) Update(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gastoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Gasto{}, id).Error
}

func (r *gastoRepo) ListPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) List(ctx context.Context, desde, hasta string, page, limit int) ([]model.Gasto, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Gasto{})
	if desde != "" {
		q = q.Where("fecha >= ?", desde)
	}
	if hasta != "" {
		q = q.Where("fecha <= ?", hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	var gastos []model.Gasto
	err := q.Order("fecha DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&gastos).Error
	return gastos, total, err
}
