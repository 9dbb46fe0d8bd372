package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"almapos/internal/dto"
	"almapos/internal/infra"
	"almapos/internal/ledger"
	"almapos/internal/model"
	"almapos/internal/repository"
	"almapos/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CajaService interface {
	Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error)
	Cerrar(ctx context.Context, sesionID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreResponse, error)
	Libro(ctx context.Context, sesionID uuid.UUID, filter dto.LibroCajaFilter) (*dto.LibroCajaResponse, error)
	Historial(ctx context.Context, page, limit int) (*dto.HistorialCajaResponse, error)
	// Reporte returns the path to the close-report PDF of a closed session,
	// regenerating it when the file is missing.
	Reporte(ctx context.Context, sesionID uuid.UUID) (string, error)
	ObtenerSesion(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error)
	// SesionAbierta returns the open session, or nil when the register is closed.
	SesionAbierta(ctx context.Context) (*dto.SesionCajaResponse, error)
	// ValidarSesionAbierta is called by the other services before attaching a
	// record to a session.
	ValidarSesionAbierta(ctx context.Context) (*model.SesionCaja, error)
}

type cajaService struct {
	repo          repository.CajaRepository
	ventaRepo     repository.VentaRepository
	clienteRepo   repository.ClienteRepository
	proveedorRepo repository.ProveedorRepository
	compraRepo    repository.CompraRepository
	gastoRepo     repository.GastoRepository
	dispatcher    *worker.Dispatcher
	pdfStorage    string
}

func NewCajaService(
	repo repository.CajaRepository,
	ventaRepo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	proveedorRepo repository.ProveedorRepository,
	compraRepo repository.CompraRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *worker.Dispatcher,
	pdfStorage string,
) CajaService {
	return &cajaService{
		repo:          repo,
		ventaRepo:     ventaRepo,
		clienteRepo:   clienteRepo,
		proveedorRepo: proveedorRepo,
		compraRepo:    compraRepo,
		gastoRepo:     gastoRepo,
		dispatcher:    dispatcher,
		pdfStorage:    pdfStorage,
	}
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *cajaService) Abrir(ctx context.Context, usuarioID uuid.UUID, req dto.AbrirCajaRequest) (*dto.SesionCajaResponse, error) {
	// Guard: a single register, a single open session.
	existing, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("ya existe una caja abierta (#%d): %w", existing.NumeroSesion, ledger.ErrEstadoInvalido)
	}

	numero, err := s.repo.NextNumeroSesion(ctx)
	if err != nil {
		return nil, err
	}

	sesion := &model.SesionCaja{
		NumeroSesion:  numero,
		Estado:        model.SesionAbierta,
		MontoApertura: req.MontoApertura,
		AbiertaPorID:  usuarioID,
		Notas:         req.Notas,
		OpenedAt:      time.Now(),
	}
	if err := s.repo.CreateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	log.Info().Int64("numero", numero).Int64("monto_apertura", req.MontoApertura).Msg("caja abierta")
	return sesionToResponse(sesion), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Blind count: the cashier declares MontoReal without seeing the expected
// balance; the reconciliation happens here, over the full unfiltered feed.

func (s *cajaService) Cerrar(ctx context.Context, sesionID, usuarioID uuid.UUID, req dto.CerrarCajaRequest) (*dto.CierreResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}

	libro, err := s.buildLibro(ctx, sesion)
	if err != nil {
		return nil, err
	}

	cierre, err := ledger.Cerrar(sesion.Estado, sesion.MontoApertura, libro, req.MontoReal)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sesion.Estado = model.SesionCerrada
	sesion.MontoEsperado = &cierre.MontoEsperado
	sesion.MontoReal = &cierre.MontoReal
	sesion.MontoCierre = &cierre.MontoReal
	sesion.Diferencia = &cierre.Diferencia
	sesion.ClasificacionDesvio = &cierre.Clasificacion
	sesion.CerradaPorID = &usuarioID
	sesion.ClosedAt = &now
	if req.Notas != nil {
		sesion.Notas = req.Notas
	}

	if err := s.repo.UpdateSesion(ctx, sesion); err != nil {
		return nil, err
	}

	log.Info().
		Int64("numero", sesion.NumeroSesion).
		Int64("esperado", cierre.MontoEsperado).
		Int64("real", cierre.MontoReal).
		Int64("diferencia", cierre.Diferencia).
		Str("resultado", cierre.Resultado).
		Msg("caja cerrada")

	// Async close report — fire & forget.
	if s.dispatcher != nil {
		_ = s.dispatcher.EnqueueCierre(ctx, worker.CierreJobPayload{SesionID: sesion.ID.String()})
	}

	return &dto.CierreResponse{
		SesionCajaID:        sesion.ID.String(),
		NumeroSesion:        sesion.NumeroSesion,
		MontoEsperado:       cierre.MontoEsperado,
		MontoReal:           cierre.MontoReal,
		Diferencia:          cierre.Diferencia,
		Resultado:           cierre.Resultado,
		ClasificacionDesvio: cierre.Clasificacion,
		Estado:              sesion.Estado,
	}, nil
}

// ── Libro ─────────────────────────────────────────────────────────────────────
// The expected balance is always computed over the full feed; display filters
// only narrow the rows shown, never what was aggregated.

func (s *cajaService) Libro(ctx context.Context, sesionID uuid.UUID, filter dto.LibroCajaFilter) (*dto.LibroCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}

	libro, err := s.buildLibro(ctx, sesion)
	if err != nil {
		return nil, err
	}
	esperado := ledger.SaldoEsperado(sesion.MontoApertura, libro)

	vista := libro
	if filter.Desde != "" || filter.Hasta != "" {
		desde, hasta, err := parseRango(filter.Desde, filter.Hasta)
		if err != nil {
			return nil, err
		}
		vista = ledger.FiltrarPorRango(vista, desde, hasta)
	}
	if filter.Tipos != "" {
		var tipos []ledger.TipoTransaccion
		for _, t := range strings.Split(filter.Tipos, ",") {
			tipos = append(tipos, ledger.TipoTransaccion(strings.TrimSpace(t)))
		}
		vista = ledger.FiltrarPorTipo(vista, tipos...)
	}

	ledger.Ordenar(vista)
	saldos := ledger.SaldosAcumulados(sesion.MontoApertura, vista)

	resp := &dto.LibroCajaResponse{
		SesionCajaID:  sesion.ID.String(),
		NumeroSesion:  sesion.NumeroSesion,
		Estado:        sesion.Estado,
		MontoApertura: sesion.MontoApertura,
		SaldoEsperado: esperado,
		Transacciones: make([]dto.TransaccionResponse, len(saldos)),
	}
	for i, st := range saldos {
		resp.Transacciones[i] = transaccionToResponse(st)
	}
	return resp, nil
}

// ── Historial ─────────────────────────────────────────────────────────────────

func (s *cajaService) Historial(ctx context.Context, page, limit int) (*dto.HistorialCajaResponse, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	sesiones, total, err := s.repo.ListCerradas(ctx, page, limit)
	if err != nil {
		return nil, err
	}
	resp := &dto.HistorialCajaResponse{
		Sesiones: make([]dto.SesionCajaResponse, len(sesiones)),
		Total:    total,
		Page:     page,
		Limit:    limit,
	}
	for i := range sesiones {
		resp.Sesiones[i] = *sesionToResponse(&sesiones[i])
	}
	return resp, nil
}

// ── Reporte ───────────────────────────────────────────────────────────────────

// The worker writes the PDF at close time; a missing file (crashed worker,
// wiped volume) is rebuilt here from the persisted feed.
func (s *cajaService) Reporte(ctx context.Context, sesionID uuid.UUID) (string, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return "", errors.New("sesión de caja no encontrada")
	}
	if sesion.Estado != model.SesionCerrada {
		return "", fmt.Errorf("la sesión #%d sigue abierta: %w", sesion.NumeroSesion, ledger.ErrEstadoInvalido)
	}

	path := filepath.Join(s.pdfStorage, fmt.Sprintf("cierre_%d.pdf", sesion.NumeroSesion))
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	libro, err := s.buildLibro(ctx, sesion)
	if err != nil {
		return "", err
	}
	ledger.Ordenar(libro)
	saldos := ledger.SaldosAcumulados(sesion.MontoApertura, libro)
	return infra.GenerateReporteCierrePDF(sesion, saldos, s.pdfStorage)
}

// ── ObtenerSesion / SesionAbierta ─────────────────────────────────────────────

func (s *cajaService) ObtenerSesion(ctx context.Context, sesionID uuid.UUID) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionByID(ctx, sesionID)
	if err != nil {
		return nil, errors.New("sesión de caja no encontrada")
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) SesionAbierta(ctx context.Context) (*dto.SesionCajaResponse, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, nil
	}
	return sesionToResponse(sesion), nil
}

func (s *cajaService) ValidarSesionAbierta(ctx context.Context) (*model.SesionCaja, error) {
	sesion, err := s.repo.FindSesionAbierta(ctx)
	if err != nil {
		return nil, err
	}
	if sesion == nil {
		return nil, fmt.Errorf("no hay sesión de caja abierta: %w", ledger.ErrEstadoInvalido)
	}
	return sesion, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *cajaService) buildLibro(ctx context.Context, sesion *model.SesionCaja) ([]ledger.Transaccion, error) {
	ventas, err := s.ventaRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	pagosCliente, err := s.clienteRepo.ListPagosPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	pagosProveedor, err := s.proveedorRepo.ListPagosPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	compras, err := s.compraRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	return ledger.ConstruirLibroSesion(sesion, ventas, pagosCliente, pagosProveedor, compras, gastos)
}

// parseRango parses optional RFC 3339 bounds; a zero value leaves that
// bound open, matching ledger.FiltrarPorRango.
func parseRango(desde, hasta string) (time.Time, time.Time, error) {
	var d, h time.Time
	var err error
	if desde != "" {
		if d, err = time.Parse(time.RFC3339, desde); err != nil {
			return d, h, fmt.Errorf("desde inválido: %w", err)
		}
	}
	if hasta != "" {
		if h, err = time.Parse(time.RFC3339, hasta); err != nil {
			return d, h, fmt.Errorf("hasta inválido: %w", err)
		}
	}
	return d, h, nil
}

func transaccionToResponse(st ledger.SaldoTransaccion) dto.TransaccionResponse {
	r := dto.TransaccionResponse{
		ID:          st.ID.String(),
		Tipo:        string(st.Tipo),
		Descripcion: st.Descripcion,
		MontoBruto:  st.MontoBruto,
		MontoCaja:   st.MontoCaja,
		MetodoPago:  st.MetodoPago,
		Fecha:       st.Fecha.Format(time.RFC3339),
		Saldo:       st.Saldo,
	}
	if st.Contraparte != "" {
		c := st.Contraparte
		r.Contraparte = &c
	}
	if st.Nota != "" {
		n := st.Nota
		r.Nota = &n
	}
	return r
}

func sesionToResponse(s *model.SesionCaja) *dto.SesionCajaResponse {
	resp := &dto.SesionCajaResponse{
		ID:                  s.ID.String(),
		NumeroSesion:        s.NumeroSesion,
		Estado:              s.Estado,
		MontoApertura:       s.MontoApertura,
		MontoEsperado:       s.MontoEsperado,
		MontoReal:           s.MontoReal,
		Diferencia:          s.Diferencia,
		ClasificacionDesvio: s.ClasificacionDesvio,
		Notas:               s.Notas,
		OpenedAt:            s.OpenedAt.Format(time.RFC3339),
	}
	if s.AbiertaPor != nil {
		resp.AbiertaPor = s.AbiertaPor.Username
	}
	if s.CerradaPor != nil {
		u := s.CerradaPor.Username
		resp.CerradaPor = &u
	}
	if s.ClosedAt != nil {
		t := s.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &t
	}
	return resp
}
