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

type ClienteService interface {
	Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error)
	Libro(ctx context.Context, id uuid.UUID) (*dto.LibroEntidadResponse, error)
}

type clienteService struct {
	repo      repository.ClienteRepository
	ventaRepo repository.VentaRepository
	caja      CajaService
}

func NewClienteService(repo repository.ClienteRepository, ventaRepo repository.VentaRepository, caja CajaService) ClienteService {
	return &clienteService{repo: repo, ventaRepo: ventaRepo, caja: caja}
}

func (s *clienteService) Crear(ctx context.Context, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	cliente := &model.Cliente{
		Nombre:    req.Nombre,
		Documento: req.Documento,
		Telefono:  req.Telefono,
		Email:     req.Email,
		Direccion: req.Direccion,
		Activo:    true,
	}
	if err := s.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Obtener(ctx context.Context, id uuid.UUID) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ClienteResponse, error) {
	clientes, err := s.repo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.ClienteResponse, len(clientes))
	for i := range clientes {
		resp[i] = *clienteToResponse(&clientes[i])
	}
	return resp, nil
}

func (s *clienteService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}
	cliente.Nombre = req.Nombre
	cliente.Documento = req.Documento
	cliente.Telefono = req.Telefono
	cliente.Email = req.Email
	cliente.Direccion = req.Direccion
	if err := s.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return clienteToResponse(cliente), nil
}

func (s *clienteService) Desactivar(ctx context.Context, id uuid.UUID) error {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("cliente no encontrado")
	}
	if cliente.Saldo != 0 {
		return fmt.Errorf("el cliente tiene saldo pendiente (%d): %w", cliente.Saldo, ledger.ErrEstadoInvalido)
	}
	return s.repo.SoftDelete(ctx, id)
}

// ── RegistrarPago ─────────────────────────────────────────────────────────────
// A "pago" reduces what the customer owes; a "reembolso" restores it. Cash
// movements attach to the open session so they show up in the till ledger.

func (s *clienteService) RegistrarPago(ctx context.Context, id uuid.UUID, req dto.RegistrarPagoRequest) (*dto.PagoResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
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

	pago := &model.PagoCliente{
		ClienteID:    id,
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
		Saldo:  cliente.Saldo + delta,
	}, nil
}

// ── Libro ─────────────────────────────────────────────────────────────────────
// The ledger is rebuilt from the full history on every read; the denormalized
// Saldo is only a fast path and is cross-checked here.

func (s *clienteService) Libro(ctx context.Context, id uuid.UUID) (*dto.LibroEntidadResponse, error) {
	cliente, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("cliente no encontrado")
	}

	ventas, err := s.ventaRepo.ListPorCliente(ctx, id)
	if err != nil {
		return nil, err
	}
	pagos, err := s.repo.ListPagos(ctx, id)
	if err != nil {
		return nil, err
	}

	// An invoice debits the full sale total; what was tendered at the
	// counter enters as a payment on the same date, so the running balance
	// lands on the unpaid remainder.
	facturas := make([]ledger.Factura, 0, len(ventas))
	abonos := make([]ledger.Abono, 0, len(ventas)+len(pagos))
	for _, v := range ventas {
		if v.Estado != model.VentaCompletada || v.ClienteID == nil {
			continue
		}
		facturas = append(facturas, ledger.Factura{
			ID:          v.ID,
			EntidadID:   *v.ClienteID,
			Fecha:       v.CreatedAt,
			Descripcion: fmt.Sprintf("Venta #%d", v.NumeroTicket),
			Total:       v.Total,
		})
		if v.MontoPagado > 0 {
			abonos = append(abonos, ledger.Abono{
				ID:          v.ID,
				EntidadID:   *v.ClienteID,
				Fecha:       v.CreatedAt,
				Descripcion: fmt.Sprintf("Pago en mostrador venta #%d", v.NumeroTicket),
				Tipo:        model.PagoNormal,
				Monto:       v.MontoPagado,
			})
		}
	}
	for _, p := range pagos {
		abonos = append(abonos, ledger.Abono{
			ID:          p.ID,
			EntidadID:   p.ClienteID,
			Fecha:       p.Fecha,
			Descripcion: descripcionAbono(p.Tipo),
			Tipo:        p.Tipo,
			Monto:       p.Monto,
		})
	}

	libro, err := ledger.ConstruirLibroEntidad(ledger.DireccionCliente, id, facturas, abonos)
	if err != nil {
		return nil, err
	}
	saldo := ledger.SaldoEntidad(libro)

	if saldo != cliente.Saldo {
		log.Warn().
			Str("cliente_id", id.String()).
			Int64("saldo_derivado", saldo).
			Int64("saldo_almacenado", cliente.Saldo).
			Msg("saldo de cliente desincronizado del historial")
	}

	resp := &dto.LibroEntidadResponse{
		EntidadID: id.String(),
		Entidad:   cliente.Nombre,
		Entradas:  make([]dto.EntradaLibroResponse, len(libro)),
		Saldo:     saldo,
	}
	for i, e := range libro {
		resp.Entradas[i] = entradaToResponse(e)
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func clienteToResponse(c *model.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:        c.ID.String(),
		Nombre:    c.Nombre,
		Documento: c.Documento,
		Telefono:  c.Telefono,
		Email:     c.Email,
		Direccion: c.Direccion,
		Saldo:     c.Saldo,
		Activo:    c.Activo,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
}

func entradaToResponse(e ledger.EntradaLibro) dto.EntradaLibroResponse {
	return dto.EntradaLibroResponse{
		ID:          e.ID.String(),
		Fecha:       e.Fecha.Format(time.RFC3339),
		Tipo:        string(e.Tipo),
		Descripcion: e.Descripcion,
		Debe:        e.Debe,
		Haber:       e.Haber,
		Saldo:       e.Saldo,
	}
}

func descripcionAbono(tipo string) string {
	if tipo == model.PagoReembolso {
		return "Reembolso"
	}
	return "Pago recibido"
}
