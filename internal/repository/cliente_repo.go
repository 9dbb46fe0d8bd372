package repository

import (
	"context"

	"almapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClienteRepository interface {
	DB() *gorm.DB
	Create(ctx context.Context, c *model.Cliente) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Cliente, error)
	Update(ctx context.Context, c *model.Cliente) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	// AjustarSaldoTx applies a signed delta to the denormalized balance.
	AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta int64) error
	CreatePago(ctx context.Context, tx *gorm.DB, p *model.PagoCliente) error
	ListPagos(ctx context.Context, clienteID uuid.UUID) ([]model.PagoCliente, error)
	ListPagosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.PagoCliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) DB() *gorm.DB { return r.db }

func (r *clienteRepo) Create(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Cliente, error) {
	var clientes []model.Cliente
	q := r.db.WithContext(ctx).Order("nombre ASC")
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *model.Cliente) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Cliente{}).Where("id = ?", id).Update("activo", false).Error
}

func (r *clienteRepo) AjustarSaldoTx(tx *gorm.DB, id uuid.UUID, delta int64) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Model(&model.Cliente{}).Where("id = ?", id).
		Update("saldo", gorm.Expr("saldo + ?", delta)).Error
}

func (r *clienteRepo) CreatePago(ctx context.Context, tx *gorm.DB, p *model.PagoCliente) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(p).Error
}

func (r *clienteRepo) ListPagos(ctx context.Context, clienteID uuid.UUID) ([]model.PagoCliente, error) {
	var pagos []model.PagoCliente
	err := r.db.WithContext(ctx).
		Where("cliente_id = ?", clienteID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}

func (r *clienteRepo) ListPagosPorSesion(ctx context.Context, sesionID uuid.UUID) ([]model.PagoCliente, error) {
	var pagos []model.PagoCliente
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("sesion_caja_id = ?", sesionID).
		Order("fecha ASC").
		Find(&pagos).Error
	return pagos, err
}
