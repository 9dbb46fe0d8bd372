package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MonedaRepository interface {
	List(ctx context.Context) ([]model.Moneda, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Moneda, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Moneda, error)
	FindPredeterminada(ctx context.Context) (*model.Moneda, error)
	Create(ctx context.Context, m *model.Moneda) error
	Update(ctx context.Context, m *model.Moneda) error
	Delete(ctx context.Context, id uuid.UUID) error
	// SetPredeterminada swaps the default flag in a single transaction.
	SetPredeterminada(ctx context.Context, id uuid.UUID) error
	UpdateTasa(ctx context.Context, codigo string, tasa int64) error
}

type monedaRepo struct{ db *gorm.DB }

func NewMonedaRepository(db *gorm.DB) MonedaRepository { return &monedaRepo{db: db} }

func (r *monedaRepo) List(ctx context.Context) ([]model.Moneda, error) {
	var monedas []model.Moneda
	err := r.db.WithContext(ctx).Order("codigo ASC").Find(&monedas).Error
	return monedas, err
}

func (r *monedaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Moneda, error) {
	var m model.Moneda
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *monedaRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Moneda, error) {
	var m model.Moneda
	if err := r.db.WithContext(ctx).Where("codigo = ?", codigo).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *monedaRepo) FindPredeterminada(ctx context.Context) (*model.Moneda, error) {
	var m model.Moneda
	if err := r.db.WithContext(ctx).Where("es_predeterminada = true").First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *monedaRepo) Create(ctx context.Context, m *model.Moneda) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *monedaRepo) Update(ctx context.Context, m *model.Moneda) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *monedaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Moneda{}, id).Error
}

func (r *monedaRepo) SetPredeterminada(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Moneda{}).
			Where("es_predeterminada = true").
			Update("es_predeterminada", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Moneda{}).
			Where("id = ?", id).
			Update("es_predeterminada", true).Error
	})
}

func (r *monedaRepo) UpdateTasa(ctx context.Context, codigo string, tasa int64) error {
	return r.db.WithContext(ctx).Model(&model.Moneda{}).
		Where("codigo = ?", codigo).
		Update("tasa_cambio", tasa).Error
}
