package worker

// cierre_worker.go
// Processes close-report jobs from QueueCierre: rebuilds the session ledger,
// renders the PDF close report and, when the count did not balance, enqueues
// an email so a supervisor reviews the difference.

import (
	"context"
	"encoding/json"
	"fmt"

	"almapos/internal/infra"
	"almapos/internal/ledger"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// CierreJobPayload is the job envelope sent to QueueCierre.
type CierreJobPayload struct {
	SesionID string `json:"sesion_id"`
}

type CierreWorker struct {
	cajaRepo        repository.CajaRepository
	ventaRepo       repository.VentaRepository
	clienteRepo     repository.ClienteRepository
	proveedorRepo   repository.ProveedorRepository
	compraRepo      repository.CompraRepository
	gastoRepo       repository.GastoRepository
	dispatcher      *Dispatcher
	rdb             *redis.Client
	pdfStoragePath  string
	supervisorEmail string
}

func NewCierreWorker(
	cajaRepo repository.CajaRepository,
	ventaRepo repository.VentaRepository,
	clienteRepo repository.ClienteRepository,
	proveedorRepo repository.ProveedorRepository,
	compraRepo repository.CompraRepository,
	gastoRepo repository.GastoRepository,
	dispatcher *Dispatcher,
	rdb *redis.Client,
	pdfStoragePath string,
	supervisorEmail string,
) *CierreWorker {
	return &CierreWorker{
		cajaRepo:        cajaRepo,
		ventaRepo:       ventaRepo,
		clienteRepo:     clienteRepo,
		proveedorRepo:   proveedorRepo,
		compraRepo:      compraRepo,
		gastoRepo:       gastoRepo,
		dispatcher:      dispatcher,
		rdb:             rdb,
		pdfStoragePath:  pdfStoragePath,
		supervisorEmail: supervisorEmail,
	}
}

// Process handles a single close-report job:
//  1. Parse CierreJobPayload from the job envelope
//  2. Fetch the closed session and rebuild its full transaction feed
//  3. Render the PDF close report
//  4. Enqueue a supervisor email when the count showed a difference
func (w *CierreWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload CierreJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("cierre_worker: invalid payload")
		return
	}

	sesionID, err := uuid.Parse(payload.SesionID)
	if err != nil {
		log.Error().Str("sesion_id", payload.SesionID).Msg("cierre_worker: invalid sesion_id")
		return
	}

	sesion, err := w.cajaRepo.FindSesionByID(ctx, sesionID)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: sesion not found")
		return
	}
	if sesion.Estado != model.SesionCerrada {
		log.Warn().Str("sesion_id", payload.SesionID).Msg("cierre_worker: sesion not closed, skipping report")
		return
	}

	libro, err := w.buildLibro(ctx, sesion)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: failed to rebuild ledger")
		SendToDLQ(ctx, w.rdb, QueueCierre, "cierre_caja", raw, err.Error(), 1)
		return
	}

	ledger.Ordenar(libro)
	saldos := ledger.SaldosAcumulados(sesion.MontoApertura, libro)

	pdfPath, err := infra.GenerateReporteCierrePDF(sesion, saldos, w.pdfStoragePath)
	if err != nil {
		log.Error().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: PDF generation failed")
		SendToDLQ(ctx, w.rdb, QueueCierre, "cierre_caja", raw, err.Error(), 1)
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sesion_id", payload.SesionID).Msg("cierre_worker: close report generated")

	// A non-zero difference goes to a supervisor with the report attached.
	if sesion.Diferencia == nil || *sesion.Diferencia == 0 || w.supervisorEmail == "" {
		return
	}

	emailJob := EmailJobPayload{
		ToEmail: w.supervisorEmail,
		Subject: fmt.Sprintf("Cierre de caja #%d con diferencia", sesion.NumeroSesion),
		Body: fmt.Sprintf(
			"La sesión de caja #%d cerró con una diferencia de %d centavos.\nSe adjunta el reporte de cierre.",
			sesion.NumeroSesion, *sesion.Diferencia),
		PDFPath: pdfPath,
	}
	if err := w.dispatcher.EnqueueEmail(ctx, emailJob); err != nil {
		log.Warn().Err(err).Str("sesion_id", payload.SesionID).Msg("cierre_worker: failed to enqueue email")
	}
}

func (w *CierreWorker) buildLibro(ctx context.Context, sesion *model.SesionCaja) ([]ledger.Transaccion, error) {
	ventas, err := w.ventaRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	pagosCliente, err := w.clienteRepo.ListPagosPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	pagosProveedor, err := w.proveedorRepo.ListPagosPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	compras, err := w.compraRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	gastos, err := w.gastoRepo.ListPorSesion(ctx, sesion.ID)
	if err != nil {
		return nil, err
	}
	return ledger.ConstruirLibroSesion(sesion, ventas, pagosCliente, pagosProveedor, compras, gastos)
}
