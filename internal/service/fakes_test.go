package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories backing the service unit tests. DB() returns nil,
// which makes runTx call the closure directly without a transaction.

var errNotFound = errors.New("not found")

// ── Caja ─────────────────────────────────────────────────────────────────────

type fakeCajaRepo struct {
	sesiones map[uuid.UUID]*model.SesionCaja
	ultimo   int64
}

func newFakeCajaRepo() *fakeCajaRepo {
	return &fakeCajaRepo{sesiones: make(map[uuid.UUID]*model.SesionCaja)}
}

func (r *fakeCajaRepo) CreateSesion(_ context.Context, s *model.SesionCaja) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) FindSesionByID(_ context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	s, ok := r.sesiones[id]
	if !ok {
		return nil, errNotFound
	}
	return s, nil
}

func (r *fakeCajaRepo) FindSesionAbierta(_ context.Context) (*model.SesionCaja, error) {
	for _, s := range r.sesiones {
		if s.Estado == model.SesionAbierta {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeCajaRepo) NextNumeroSesion(_ context.Context) (int64, error) {
	r.ultimo++
	return r.ultimo, nil
}

func (r *fakeCajaRepo) UpdateSesion(_ context.Context, s *model.SesionCaja) error {
	r.sesiones[s.ID] = s
	return nil
}

func (r *fakeCajaRepo) ListCerradas(_ context.Context, page, limit int) ([]model.SesionCaja, int64, error) {
	var out []model.SesionCaja
	for _, s := range r.sesiones {
		if s.Estado == model.SesionCerrada {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NumeroSesion > out[j].NumeroSesion })
	return out, int64(len(out)), nil
}

// ── Venta ────────────────────────────────────────────────────────────────────

type fakeVentaRepo struct {
	ventas map[uuid.UUID]*model.Venta
	ticket int64
}

func newFakeVentaRepo() *fakeVentaRepo {
	return &fakeVentaRepo{ventas: make(map[uuid.UUID]*model.Venta)}
}

func (r *fakeVentaRepo) DB() *gorm.DB { return nil }

func (r *fakeVentaRepo) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	r.ventas[v.ID] = v
	return nil
}

func (r *fakeVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	v, ok := r.ventas[id]
	if !ok {
		return nil, errNotFound
	}
	return v, nil
}

func (r *fakeVentaRepo) NextTicketNumber(_ context.Context, _ *gorm.DB) (int64, error) {
	r.ticket++
	return r.ticket, nil
}

func (r *fakeVentaRepo) UpdateEstadoTx(_ *gorm.DB, id uuid.UUID, estado string) error {
	v, ok := r.ventas[id]
	if !ok {
		return errNotFound
	}
	v.Estado = estado
	return nil
}

func (r *fakeVentaRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.SesionCajaID == sesionID && v.Estado == model.VentaCompletada {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVentaRepo) ListPorCliente(_ context.Context, clienteID uuid.UUID) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		if v.ClienteID != nil && *v.ClienteID == clienteID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeVentaRepo) List(_ context.Context, _ repository.VentaFilter) ([]model.Venta, int64, error) {
	var out []model.Venta
	for _, v := range r.ventas {
		out = append(out, *v)
	}
	return out, int64(len(out)), nil
}

// ── Cliente ──────────────────────────────────────────────────────────────────

type fakeClienteRepo struct {
	clientes map[uuid.UUID]*model.Cliente
	pagos    []model.PagoCliente
}

func newFakeClienteRepo() *fakeClienteRepo {
	return &fakeClienteRepo{clientes: make(map[uuid.UUID]*model.Cliente)}
}

func (r *fakeClienteRepo) DB() *gorm.DB { return nil }

func (r *fakeClienteRepo) Create(_ context.Context, c *model.Cliente) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.clientes[c.ID] = c
	return nil
}

// FindByID hands back a copy, like gorm materializing a row into a fresh
// struct; mutations through AjustarSaldoTx must not leak into it.
func (r *fakeClienteRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Cliente, error) {
	c, ok := r.clientes[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *c
	return &copia, nil
}

func (r *fakeClienteRepo) List(_ context.Context, incluirInactivos bool) ([]model.Cliente, error) {
	var out []model.Cliente
	for _, c := range r.clientes {
		if c.Activo || incluirInactivos {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) Update(_ context.Context, c *model.Cliente) error {
	r.clientes[c.ID] = c
	return nil
}

func (r *fakeClienteRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	c, ok := r.clientes[id]
	if !ok {
		return errNotFound
	}
	c.Activo = false
	return nil
}

func (r *fakeClienteRepo) AjustarSaldoTx(_ *gorm.DB, id uuid.UUID, delta int64) error {
	c, ok := r.clientes[id]
	if !ok {
		return errNotFound
	}
	c.Saldo += delta
	return nil
}

func (r *fakeClienteRepo) CreatePago(_ context.Context, _ *gorm.DB, p *model.PagoCliente) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *fakeClienteRepo) ListPagos(_ context.Context, clienteID uuid.UUID) ([]model.PagoCliente, error) {
	var out []model.PagoCliente
	for _, p := range r.pagos {
		if p.ClienteID == clienteID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeClienteRepo) ListPagosPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.PagoCliente, error) {
	var out []model.PagoCliente
	for _, p := range r.pagos {
		if p.SesionCajaID != nil && *p.SesionCajaID == sesionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── Proveedor ────────────────────────────────────────────────────────────────

type fakeProveedorRepo struct {
	proveedores map[uuid.UUID]*model.Proveedor
	pagos       []model.PagoProveedor
}

func newFakeProveedorRepo() *fakeProveedorRepo {
	return &fakeProveedorRepo{proveedores: make(map[uuid.UUID]*model.Proveedor)}
}

func (r *fakeProveedorRepo) DB() *gorm.DB { return nil }

func (r *fakeProveedorRepo) Create(_ context.Context, p *model.Proveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.proveedores[p.ID] = p
	return nil
}

// FindByID hands back a copy, same as fakeClienteRepo.
func (r *fakeProveedorRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Proveedor, error) {
	p, ok := r.proveedores[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProveedorRepo) List(_ context.Context, incluirInactivos bool) ([]model.Proveedor, error) {
	var out []model.Proveedor
	for _, p := range r.proveedores {
		if p.Activo || incluirInactivos {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProveedorRepo) Update(_ context.Context, p *model.Proveedor) error {
	r.proveedores[p.ID] = p
	return nil
}

func (r *fakeProveedorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.proveedores[id]
	if !ok {
		return errNotFound
	}
	p.Activo = false
	return nil
}

func (r *fakeProveedorRepo) AjustarSaldoTx(_ *gorm.DB, id uuid.UUID, delta int64) error {
	p, ok := r.proveedores[id]
	if !ok {
		return errNotFound
	}
	p.Saldo += delta
	return nil
}

func (r *fakeProveedorRepo) CreatePago(_ context.Context, _ *gorm.DB, p *model.PagoProveedor) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *fakeProveedorRepo) ListPagos(_ context.Context, proveedorID uuid.UUID) ([]model.PagoProveedor, error) {
	var out []model.PagoProveedor
	for _, p := range r.pagos {
		if p.ProveedorID == proveedorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProveedorRepo) ListPagosPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.PagoProveedor, error) {
	var out []model.PagoProveedor
	for _, p := range r.pagos {
		if p.SesionCajaID != nil && *p.SesionCajaID == sesionID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── Compra ───────────────────────────────────────────────────────────────────

type fakeCompraRepo struct {
	compras map[uuid.UUID]*model.Compra
	numero  int64
}

func newFakeCompraRepo() *fakeCompraRepo {
	return &fakeCompraRepo{compras: make(map[uuid.UUID]*model.Compra)}
}

func (r *fakeCompraRepo) DB() *gorm.DB { return nil }

func (r *fakeCompraRepo) Create(_ context.Context, _ *gorm.DB, c *model.Compra) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.compras[c.ID] = c
	return nil
}

func (r *fakeCompraRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Compra, error) {
	c, ok := r.compras[id]
	if !ok {
		return nil, errNotFound
	}
	return c, nil
}

func (r *fakeCompraRepo) NextNumeroCompra(_ context.Context, _ *gorm.DB) (int64, error) {
	r.numero++
	return r.numero, nil
}

func (r *fakeCompraRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if c.SesionCajaID != nil && *c.SesionCajaID == sesionID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCompraRepo) ListPorProveedor(_ context.Context, proveedorID uuid.UUID) ([]model.Compra, error) {
	var out []model.Compra
	for _, c := range r.compras {
		if c.ProveedorID == proveedorID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Fecha.Before(out[j].Fecha) })
	return out, nil
}

func (r *fakeCompraRepo) List(_ context.Context, _ repository.CompraFilter) ([]model.Compra, int64, error) {
	var out []model.Compra
	for _, c := range r.compras {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

// ── Gasto ────────────────────────────────────────────────────────────────────

type fakeGastoRepo struct {
	gastos map[uuid.UUID]*model.Gasto
}

func newFakeGastoRepo() *fakeGastoRepo {
	return &fakeGastoRepo{gastos: make(map[uuid.UUID]*model.Gasto)}
}

func (r *fakeGastoRepo) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	r.gastos[g.ID] = g
	return nil
}

func (r *fakeGastoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Gasto, error) {
	g, ok := r.gastos[id]
	if !ok {
		return nil, errNotFound
	}
	return g, nil
}

func (r *fakeGastoRepo) Update(_ context.Context, g *model.Gasto) error {
	if _, ok := r.gastos[g.ID]; !ok {
		return errNotFound
	}
	r.gastos[g.ID] = g
	return nil
}

func (r *fakeGastoRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.gastos, id)
	return nil
}

func (r *fakeGastoRepo) ListPorSesion(_ context.Context, sesionID uuid.UUID) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		if g.SesionCajaID != nil && *g.SesionCajaID == sesionID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (r *fakeGastoRepo) List(_ context.Context, _, _ string, _, _ int) ([]model.Gasto, int64, error) {
	var out []model.Gasto
	for _, g := range r.gastos {
		out = append(out, *g)
	}
	return out, int64(len(out)), nil
}

// ── Producto ─────────────────────────────────────────────────────────────────

type fakeProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newFakeProductoRepo() *fakeProductoRepo {
	return &fakeProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *fakeProductoRepo) DB() *gorm.DB { return nil }

func (r *fakeProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errNotFound
	}
	copia := *p
	return &copia, nil
}

func (r *fakeProductoRepo) FindByBarcode(_ context.Context, barcode string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.CodigoBarras == barcode {
			copia := *p
			return &copia, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeProductoRepo) List(_ context.Context, _ repository.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *fakeProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.StockActual += delta
	return nil
}

func (r *fakeProductoRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.Activo = false
	return nil
}

func (r *fakeProductoRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	p, ok := r.productos[id]
	if !ok {
		return errNotFound
	}
	p.Activo = true
	return nil
}

// ── MovimientoStock ──────────────────────────────────────────────────────────

type fakeMovStockRepo struct {
	movimientos []model.MovimientoStock
}

func newFakeMovStockRepo() *fakeMovStockRepo { return &fakeMovStockRepo{} }

func (r *fakeMovStockRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *fakeMovStockRepo) ListPorProducto(_ context.Context, productoID uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for _, m := range r.movimientos {
		if m.ProductoID == productoID {
			out = append(out, m)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Moneda ───────────────────────────────────────────────────────────────────

type fakeMonedaRepo struct {
	monedas map[uuid.UUID]*model.Moneda
}

func newFakeMonedaRepo() *fakeMonedaRepo {
	return &fakeMonedaRepo{monedas: make(map[uuid.UUID]*model.Moneda)}
}

func (r *fakeMonedaRepo) List(_ context.Context) ([]model.Moneda, error) {
	var out []model.Moneda
	for _, m := range r.monedas {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Codigo < out[j].Codigo })
	return out, nil
}

func (r *fakeMonedaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Moneda, error) {
	m, ok := r.monedas[id]
	if !ok {
		return nil, errNotFound
	}
	return m, nil
}

func (r *fakeMonedaRepo) FindByCodigo(_ context.Context, codigo string) (*model.Moneda, error) {
	for _, m := range r.monedas {
		if m.Codigo == codigo {
			return m, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeMonedaRepo) FindPredeterminada(_ context.Context) (*model.Moneda, error) {
	for _, m := range r.monedas {
		if m.EsPredeterminada {
			return m, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeMonedaRepo) Create(_ context.Context, m *model.Moneda) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.monedas[m.ID] = m
	return nil
}

func (r *fakeMonedaRepo) Update(_ context.Context, m *model.Moneda) error {
	r.monedas[m.ID] = m
	return nil
}

func (r *fakeMonedaRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.monedas, id)
	return nil
}

func (r *fakeMonedaRepo) SetPredeterminada(_ context.Context, id uuid.UUID) error {
	if _, ok := r.monedas[id]; !ok {
		return errNotFound
	}
	for _, m := range r.monedas {
		m.EsPredeterminada = m.ID == id
	}
	return nil
}

func (r *fakeMonedaRepo) UpdateTasa(_ context.Context, codigo string, tasa int64) error {
	for _, m := range r.monedas {
		if m.Codigo == codigo {
			m.TasaCambio = tasa
			return nil
		}
	}
	return errNotFound
}

// ── Usuario ──────────────────────────────────────────────────────────────────

type fakeUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newFakeUsuarioRepo() *fakeUsuarioRepo {
	return &fakeUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *fakeUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errNotFound
}

func (r *fakeUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errNotFound
	}
	return u, nil
}

func (r *fakeUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *fakeUsuarioRepo) Desactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errNotFound
	}
	u.Activo = false
	return nil
}

func (r *fakeUsuarioRepo) Reactivar(_ context.Context, id uuid.UUID) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errNotFound
	}
	u.Activo = true
	return nil
}
