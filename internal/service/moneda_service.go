package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"almapos/internal/dto"
	"almapos/internal/infra"
	"almapos/internal/ledger"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	monedasCacheKey = "cache:monedas"
	monedasCacheTTL = 5 * time.Minute
)

type MonedaService interface {
	Listar(ctx context.Context) ([]dto.MonedaResponse, error)
	Crear(ctx context.Context, req dto.MonedaRequest) (*dto.MonedaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.MonedaRequest) (*dto.MonedaResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	SetPredeterminada(ctx context.Context, id uuid.UUID) error
	Convertir(ctx context.Context, req dto.ConvertirRequest) (*dto.ConvertirResponse, error)
	// RefrescarTasas pulls fresh rates from the provider on demand; the
	// background cron does the same on a timer.
	RefrescarTasas(ctx context.Context) error
}

type monedaService struct {
	repo  repository.MonedaRepository
	tasas *infra.TasasClient
	cb    *infra.CircuitBreaker
	rdb   *redis.Client
}

func NewMonedaService(repo repository.MonedaRepository, tasas *infra.TasasClient, cb *infra.CircuitBreaker, rdb *redis.Client) MonedaService {
	return &monedaService{repo: repo, tasas: tasas, cb: cb, rdb: rdb}
}

func (s *monedaService) Listar(ctx context.Context) ([]dto.MonedaResponse, error) {
	monedas, err := s.listarMonedas(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MonedaResponse, len(monedas))
	for i := range monedas {
		resp[i] = monedaToResponse(&monedas[i])
	}
	return resp, nil
}

func (s *monedaService) Crear(ctx context.Context, req dto.MonedaRequest) (*dto.MonedaResponse, error) {
	moneda := &model.Moneda{
		Codigo:     req.Codigo,
		Nombre:     req.Nombre,
		Simbolo:    req.Simbolo,
		TasaCambio: req.TasaCambio,
		Decimales:  req.Decimales,
	}
	if err := s.repo.Create(ctx, moneda); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	resp := monedaToResponse(moneda)
	return &resp, nil
}

func (s *monedaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.MonedaRequest) (*dto.MonedaResponse, error) {
	moneda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("moneda no encontrada")
	}
	moneda.Codigo = req.Codigo
	moneda.Nombre = req.Nombre
	moneda.Simbolo = req.Simbolo
	moneda.TasaCambio = req.TasaCambio
	moneda.Decimales = req.Decimales
	if err := s.repo.Update(ctx, moneda); err != nil {
		return nil, err
	}
	s.invalidarCache(ctx)
	resp := monedaToResponse(moneda)
	return &resp, nil
}

func (s *monedaService) Eliminar(ctx context.Context, id uuid.UUID) error {
	moneda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("moneda no encontrada")
	}
	if moneda.EsPredeterminada {
		return fmt.Errorf("no se puede eliminar la moneda predeterminada: %w", ledger.ErrEstadoInvalido)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarCache(ctx)
	return nil
}

func (s *monedaService) SetPredeterminada(ctx context.Context, id uuid.UUID) error {
	moneda, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("moneda no encontrada")
	}
	if err := s.repo.SetPredeterminada(ctx, id); err != nil {
		return err
	}
	// The new base is at parity with itself.
	if err := s.repo.UpdateTasa(ctx, moneda.Codigo, model.TasaEscala); err != nil {
		return err
	}
	s.invalidarCache(ctx)
	return nil
}

// ── Convertir ─────────────────────────────────────────────────────────────────

func (s *monedaService) Convertir(ctx context.Context, req dto.ConvertirRequest) (*dto.ConvertirResponse, error) {
	monedas, err := s.listarMonedas(ctx)
	if err != nil {
		return nil, err
	}
	resultado, err := ledger.Convertir(req.Monto, req.De, req.A, monedas)
	if err != nil {
		return nil, err
	}
	return &dto.ConvertirResponse{
		Monto:     req.Monto,
		De:        req.De,
		A:         req.A,
		Resultado: resultado,
	}, nil
}

// ── RefrescarTasas ────────────────────────────────────────────────────────────

func (s *monedaService) RefrescarTasas(ctx context.Context) error {
	base, err := s.repo.FindPredeterminada(ctx)
	if err != nil {
		return errors.New("no hay moneda predeterminada configurada")
	}

	var tasas map[string]int64
	cbErr := s.cb.Execute(func() error {
		resp, err := s.tasas.Obtener(ctx, base.Codigo)
		if err != nil {
			return err
		}
		tasas = resp
		return nil
	})
	if cbErr != nil {
		return fmt.Errorf("proveedor de tasas no disponible: %w", cbErr)
	}

	monedas, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	for _, m := range monedas {
		if m.EsPredeterminada {
			continue
		}
		tasa, ok := tasas[m.Codigo]
		if !ok || tasa <= 0 {
			log.Warn().Str("codigo", m.Codigo).Msg("el proveedor no devolvió tasa")
			continue
		}
		if err := s.repo.UpdateTasa(ctx, m.Codigo, tasa); err != nil {
			return err
		}
	}
	s.invalidarCache(ctx)
	return nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// listarMonedas serves the currency table from a short-lived Redis cache;
// conversion hits this on every call and the table rarely changes.
func (s *monedaService) listarMonedas(ctx context.Context) ([]model.Moneda, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, monedasCacheKey).Result(); err == nil {
			var monedas []model.Moneda
			if err := json.Unmarshal([]byte(raw), &monedas); err == nil {
				return monedas, nil
			}
		}
	}

	monedas, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(monedas); err == nil {
			_ = s.rdb.Set(ctx, monedasCacheKey, data, monedasCacheTTL).Err()
		}
	}
	return monedas, nil
}

func (s *monedaService) invalidarCache(ctx context.Context) {
	if s.rdb != nil {
		_ = s.rdb.Del(ctx, monedasCacheKey).Err()
	}
}

func monedaToResponse(m *model.Moneda) dto.MonedaResponse {
	return dto.MonedaResponse{
		ID:               m.ID.String(),
		Codigo:           m.Codigo,
		Nombre:           m.Nombre,
		Simbolo:          m.Simbolo,
		TasaCambio:       m.TasaCambio,
		Decimales:        m.Decimales,
		EsPredeterminada: m.EsPredeterminada,
	}
}
