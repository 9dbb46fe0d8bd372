package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"almapos/internal/dto"
	"almapos/internal/ledger"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProveedorService interface {
	Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	Libro(ctx context.Context, id uuid.UUID) (*dto.LibroEntidadResponse, error)
}

type proveedorService struct {
	repo       repository.ProveedorRepository
	compraRepo repository.CompraRepository
	caja       CajaService
}

func NewProveedorService(repo repository.ProveedorRepository, compraRepo repository.CompraRepository, caja CajaService) ProveedorService {
	return &proveedorService{repo: repo, compraRepo: compraRepo, caja: caja}
}

func (s *proveedorService) Crear(ctx context.Context, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	proveedor := &model.Proveedor{
		RazonSocial:   req.RazonSocial,
		CUIT:          req.CUIT,
		Telefono:      req.Telefono,
		Email:         req.Email,
		Direccion:     req.Direccion,
		CondicionPago: req.CondicionPago,
		Activo:        true,
	}
	if err := s.repo.Create(ctx, proveedor); err != nil {
		return nil, err
	}
	return proveedorToResponse(proveedor), nil
}

func (s *proveedorService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ProveedorResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	return proveedorToResponse(proveedor), nil
}

func (s *proveedorService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProveedorResponse, error) {
	proveedores, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ProveedorResponse, len(proveedores))
	for i := range proveedores {
		resp[i] = *proveedorToResponse(&proveedores[i])
	}
	return resp, nil
}

func (s *proveedorService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProveedorRequest) (*dto.ProveedorResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	proveedor.RazonSocial = req.RazonSocial
	proveedor.CUIT = req.CUIT
	proveedor.Telefono = req.Telefono
	proveedor.Email = req.Email
	proveedor.Direccion = req.Direccion
	proveedor.CondicionPago = req.CondicionPago
	if err := s.repo.Update(ctx, proveedor); err != nil {
		return nil, err
	}
	return proveedorToResponse(proveedor), nil
}

func (s *proveedorService) Desactivar(ctx context.Context, id uuid.UUID) error {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("proveedor no encontrado")
	}
	if proveedor.Saldo != 0 {
		return fmt.Errorf("el proveedor tiene saldo pendiente (%d): %w", proveedor.Saldo, ledger.ErrEstadoInvalido)
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// Paying a supplier reduces what we owe; a refund from the supplier restores
// it. Cash payments attach to the open session as cash out.

func (s *proveedorService) RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	var sesionID *uuid.UUID
	if req.Metodo == ledger.MetodoEfectivo {
		sesion, err := s.caja.ValidarSesionAbierta(ctx)
		if err != nil {
			return nil, err
		}
		sesionID = &sesion.ID
	}

	delta := -req.Monto
	if req.Tipo == model.PagoReembolso {
		delta = req.Monto
	}

	pago := &model.PagoProveedor{
		ProveedorID:  id,
		SesionCajaID: sesionID,
		Tipo:         req.Tipo,
		Metodo:       req.Metodo,
		Monto:        req.Monto,
		Nota:         req.Nota,
		Fecha:        time.Now(),
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreatePago(ctx, tx, pago); err != nil {
			return err
		}
		return s.repo.AjustarSaldoTx(tx, id, delta)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.PagoResponse{
		ID:     pago.ID.String(),
		Tipo:   pago.Tipo,
		Metodo: pago.Metodo,
		Monto:  pago.Monto,
		Nota:   pago.Nota,
		Fecha:  pago.Fecha.Format(time.RFC3339),
		Saldo:  proveedor.Saldo + delta,
	}, nil
}

// ── Libro ─────────────────────────────────────────────────────────────────────

func (s *proveedorService) Libro(ctx context.Context, id uuid.UUID) (*dto.LibroEntidadResponse, error) {
	proveedor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}

	compras, err := s.compraRepo.ListPorProveedor(ctx, id)
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.ListPagos(ctx, id)
	if err != nil {
		return nil, err
	}

	// A purchase debits its full total; what was paid on receipt enters as
	// a payment on the same date.
	facturas := make([]ledger.Factura, 0, len(compras))
	abonos := make([]ledger.Abono, 0, len(compras)+len(pagos))
	for _, c := range compras {
		facturas = append(facturas, ledger.Factura{
			ID:          c.ID,
			EntidadID:   c.ProveedorID,
			Fecha:       c.Fecha,
			Descripcion: fmt.Sprintf("Compra #%d", c.NumeroCompra),
			Total:       c.Total,
		})
		if c.MontoPagado > 0 {
			abonos = append(abonos, ledger.Abono{
				ID:          c.ID,
				EntidadID:   c.ProveedorID,
				Fecha:       c.Fecha,
				Descripcion: fmt.Sprintf("Pago al recibir compra #%d", c.NumeroCompra),
				Tipo:        model.PagoNormal,
				Monto:       c.MontoPagado,
			})
		}
	}
	for _, p := range pagos {
		desc := "Pago enviado"
		if p.Tipo == model.PagoReembolso {
			desc = "Reembolso del proveedor"
		}
		abonos = append(abonos, ledger.Abono{
			ID:          p.ID,
			EntidadID:   p.ProveedorID,
			Fecha:       p.Fecha,
			Descripcion: desc,
			Tipo:        p.Tipo,
			Monto:       p.Monto,
		})
	}

	libro, err := ledger.ConstruirLibroEntidad(ledger.DireccionProveedor, id, facturas, abonos)
	if err != nil {
		return nil, err
	}
	saldo := ledger.SaldoEntidad(libro)

	if saldo != proveedor.Saldo {
		log.Warn().
			Str("proveedor_id", id.String()).
			Int64("saldo_derivado", saldo).
			Int64("saldo_almacenado", proveedor.Saldo).
			Msg("saldo de proveedor desincronizado del historial")
	}

	resp := &dto.LibroEntidadResponse{
		EntidadID: id.String(),
		Entidad:   proveedor.RazonSocial,
		Entradas:  make([]dto.EntradaLibroResponse, len(libro)),
		Saldo:     saldo,
	}
	for i, e := range libro {
		resp.Entradas[i] = entradaToResponse(e)
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func proveedorToResponse(p *model.Proveedor) *dto.ProveedorResponse {
	return &dto.ProveedorResponse{
		ID:            p.ID.String(),
		RazonSocial:   p.RazonSocial,
		CUIT:          p.CUIT,
		Telefono:      p.Telefono,
		Email:         p.Email,
		Direccion:     p.Direccion,
		CondicionPago: p.CondicionPago,
		Saldo:         p.Saldo,
		Activo:        p.Activo,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
	}
}
