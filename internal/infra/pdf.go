package infra

// pdf.go — Internal PDF generation of the session close report using
// go-pdf/fpdf. One A4 page with:
//   - Header with session number and open/close timestamps
//   - Reconciliation block (apertura, esperado, contado, diferencia)
//   - Transaction table with running balance

import (
	"fmt"
	"os"
	"path/filepath"

	"almapos/internal/ledger"
	"almapos/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerateReporteCierrePDF writes the close report for a closed session.
// storagePath is the directory where the PDF will be written (created if
// needed). Returns the absolute path to the generated file.
func GenerateReporteCierrePDF(sesion *model.SesionCaja, saldos []ledger.SaldoTransaccion, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("cierre_%d.pdf", sesion.NumeroSesion)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "AlmaPOS", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("Reporte de cierre de caja #%d", sesion.NumeroSesion), "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Apertura: "+sesion.OpenedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if sesion.ClosedAt != nil {
		pdf.CellFormat(contentW, 5, "Cierre: "+sesion.ClosedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	// ── Reconciliation block ─────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	linea := func(label string, monto *int64) {
		if monto == nil {
			return
		}
		pdf.CellFormat(contentW/2, 6, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 6, formatMonto(*monto), "", 1, "R", false, 0, "")
	}
	apertura := sesion.MontoApertura
	linea("Monto de apertura", &apertura)
	linea("Monto esperado", sesion.MontoEsperado)
	linea("Monto contado", sesion.MontoReal)
	linea("Diferencia", sesion.Diferencia)
	pdf.Ln(4)

	// ── Transactions ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(30, 6, "Hora", "B", 0, "L", false, 0, "")
	pdf.CellFormat(70, 6, "Descripción", "B", 0, "L", false, 0, "")
	pdf.CellFormat(40, 6, "Caja", "B", 0, "R", false, 0, "")
	pdf.CellFormat(40, 6, "Saldo", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, s := range saldos {
		pdf.CellFormat(30, 5, s.Transaccion.Fecha.Format("15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(70, 5, s.Transaccion.Descripcion, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 5, formatMonto(s.Transaccion.MontoCaja), "", 0, "R", false, 0, "")
		pdf.CellFormat(40, 5, formatMonto(s.Saldo), "", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}

// formatMonto renders minor units with two decimals for the report.
func formatMonto(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
