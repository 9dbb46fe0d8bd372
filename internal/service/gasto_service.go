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
)

type GastoService interface {
	Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error)
	Listar(ctx context.Context, desde, hasta string, page, limit int) (*dto.GastoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type gastoService struct {
	repo repository.GastoRepository
	caja CajaService
}

func NewGastoService(repo repository.GastoRepository, caja CajaService) GastoService {
	return &gastoService{repo: repo, caja: caja}
}

// Registrar records an operating expense. A cash expense requires an open
// session; it lands in the till ledger as cash out.
func (s *gastoService) Registrar(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	var sesionID *uuid.UUID
	if req.MetodoPago == ledger.MetodoEfectivo {
		sesion, err := s.caja.ValidarSesionAbierta(ctx)
		if err != nil {
			return nil, err
		}
		sesionID = &sesion.ID
	}

	gasto := &model.Gasto{
		SesionCajaID: sesionID,
		UsuarioID:    usuarioID,
		Categoria:    req.Categoria,
		Descripcion:  req.Descripcion,
		MetodoPago:   req.MetodoPago,
		Monto:        req.Monto,
		Fecha:        time.Now(),
	}
	if err := s.repo.Create(ctx, gasto); err != nil {
		return nil, err
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Obtener(ctx context.Context, id uuid.UUID) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("gasto no encontrado")
	}
	return gastoToResponse(gasto), nil
}

// Actualizar corrects an expense. Once its session closed the expense is part
// of a reconciled ledger and can no longer change.
func (s *gastoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarGastoRequest) (*dto.GastoResponse, error) {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("gasto no encontrado")
	}
	if err := s.validarMutable(ctx, gasto); err != nil {
		return nil, err
	}

	gasto.Categoria = req.Categoria
	gasto.Descripcion = req.Descripcion
	gasto.Monto = req.Monto
	if err := s.repo.Update(ctx, gasto); err != nil {
		return nil, err
	}
	return gastoToResponse(gasto), nil
}

func (s *gastoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	gasto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("gasto no encontrado")
	}
	if err := s.validarMutable(ctx, gasto); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *gastoService) validarMutable(ctx context.Context, gasto *model.Gasto) error {
	if gasto.SesionCajaID == nil {
		return nil
	}
	sesion, err := s.caja.ObtenerSesion(ctx, *gasto.SesionCajaID)
	if err != nil {
		return err
	}
	if sesion.Estado == model.SesionCerrada {
		return fmt.Errorf("la sesión de caja del gasto ya fue cerrada: %w", ledger.ErrEstadoInvalido)
	}
	return nil
}

func (s *gastoService) Listar(ctx context.Context, desde, hasta string, page, limit int) (*dto.GastoListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	gastos, total, err := s.repo.List(ctx, desde, hasta, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.GastoListResponse{
		Gastos: make([]dto.GastoResponse, len(gastos)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for i := range gastos {
		resp.Gastos[i] = *gastoToResponse(&gastos[i])
	}
	return resp, nil
}

func gastoToResponse(g *model.Gasto) *dto.GastoResponse {
	resp := &dto.GastoResponse{
		ID:          g.ID.String(),
		Categoria:   g.Categoria,
		Descripcion: g.Descripcion,
		MetodoPago:  g.MetodoPago,
		Monto:       g.Monto,
		Fecha:       g.Fecha.Format(time.RFC3339),
	}
	if g.SesionCajaID != nil {
		sid := g.SesionCajaID.String()
		resp.SesionCajaID = &sid
	}
	return resp
}
