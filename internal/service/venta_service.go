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
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo         repository.VentaRepository
	caja         CajaService
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	movStockRepo repository.MovimientoStockRepository
}

func NewVentaService(
	repo repository.VentaRepository,
	caja CajaService,
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	movStockRepo repository.MovimientoStockRepository,
) VentaService {
	return &ventaService{
		repo:         repo,
		caja:         caja,
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		movStockRepo: movStockRepo,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Full ACID transaction:
//  1. Validate an open cash session exists
//  2. For each item: fetch product price, calc subtotal, check stock
//  3. Classify payment status; a partial or credit sale requires a customer
//  4. BEGIN TX: next ticket, create venta+items+pagos, descontar stock,
//     acumular el resto impago al saldo del cliente
//  5. COMMIT

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	// 1. Validate open session
	sesion, err := s.caja.ValidarSesionAbierta(ctx)
	if err != nil {
		return nil, err
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		cliente, err := s.clienteRepo.FindByID(ctx, cid)
		if err != nil {
			return nil, errors.New("cliente no encontrado")
		}
		if !cliente.Activo {
			return nil, errors.New("el cliente está inactivo")
		}
		clienteID = &cid
	}

	// 2. Resolve products and calculate totals (pre-flight, outside TX)
	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		precio     int64
		cantidad   int
		descuento  int64
		subtotal   int64
	}

	var resolved []resolvedItem
	var subtotal, descuentoTotal int64

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		if p.StockActual < item.Cantidad {
			return nil, fmt.Errorf("stock insuficiente de %s: quedan %d", p.Nombre, p.StockActual)
		}
		lineSubtotal := p.PrecioVenta*int64(item.Cantidad) - item.DescuentoItem
		if lineSubtotal < 0 {
			return nil, fmt.Errorf("descuento mayor al subtotal en %s", p.Nombre)
		}
		subtotal += lineSubtotal
		descuentoTotal += item.DescuentoItem
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.PrecioVenta,
			cantidad:   item.Cantidad,
			descuento:  item.DescuentoItem,
			subtotal:   lineSubtotal,
		})
	}

	total := subtotal

	// 3. Classify the payment. Overpayment becomes change; an unpaid
	// remainder accrues to the customer's account.
	var totalPagos int64
	for _, pago := range req.Pagos {
		totalPagos += pago.Monto
	}
	pagado := totalPagos
	var vuelto int64
	if pagado > total {
		vuelto = pagado - total
		pagado = total
	}
	estadoPago := ledger.ClasificarEstadoPago(pagado, total)
	if estadoPago != model.PagoCompleto && clienteID == nil {
		return nil, errors.New("una venta a crédito o parcial requiere un cliente")
	}

	// 4. ACID transaction
	var venta model.Venta
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		ticketNum, err := s.repo.NextTicketNumber(ctx, tx)
		if err != nil {
			return err
		}

		venta = model.Venta{
			NumeroTicket:   ticketNum,
			SesionCajaID:   sesion.ID,
			UsuarioID:      usuarioID,
			ClienteID:      clienteID,
			Subtotal:       subtotal,
			DescuentoTotal: descuentoTotal,
			Total:          total,
			MontoPagado:    pagado,
			EstadoPago:     estadoPago,
			Estado:         model.VentaCompletada,
			Nota:           req.Nota,
		}
		for _, r := range resolved {
			venta.Items = append(venta.Items, model.VentaItem{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio,
				DescuentoItem:  r.descuento,
				Subtotal:       r.subtotal,
			})
		}
		// Change is handed back out of the drawer, so cash tenders are
		// persisted net of vuelto: the till only keeps what stays in it.
		resto := vuelto
		for _, pago := range req.Pagos {
			monto := pago.Monto
			if pago.Metodo == ledger.MetodoEfectivo && resto > 0 {
				devuelto := min(resto, monto)
				monto -= devuelto
				resto -= devuelto
			}
			venta.Pagos = append(venta.Pagos, model.VentaPago{
				Metodo: pago.Metodo,
				Monto:  monto,
			})
		}

		if err := s.repo.Create(ctx, tx, &venta); err != nil {
			return err
		}

		// Descontar stock and record the movement
		for _, r := range resolved {
			stockAntes := 0
			if prodBefore, err := s.productoRepo.FindByIDTx(tx, r.productoID); err == nil {
				stockAntes = prodBefore.StockActual
			}

			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, -r.cantidad); err != nil {
				return fmt.Errorf("error descontando stock de %s: %w", r.nombre, err)
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "venta",
				Cantidad:      -r.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes - r.cantidad,
				Motivo:        fmt.Sprintf("Venta #%d", ticketNum),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movStockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Unpaid remainder accrues to the customer's account balance
		if pagado < total {
			if err := s.clienteRepo.AjustarSaldoTx(tx, *clienteID, total-pagado); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ventaToResponse(&venta)
	resp.Vuelto = vuelto
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

// ── AnularVenta ───────────────────────────────────────────────────────────────

func (s *ventaService) AnularVenta(ctx context.Context, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("venta no encontrada")
	}
	if venta.Estado == model.VentaAnulada {
		return fmt.Errorf("la venta ya está anulada: %w", ledger.ErrEstadoInvalido)
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Restore stock for each item and record movimiento
		for _, item := range venta.Items {
			stockAntes := 0
			if prodBefore, err := s.productoRepo.FindByIDTx(tx, item.ProductoID); err == nil {
				stockAntes = prodBefore.StockActual
			}

			if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return err
			}

			ventaRef := venta.ID
			mov := &model.MovimientoStock{
				ProductoID:    item.ProductoID,
				Tipo:          "restore_anulacion",
				Cantidad:      item.Cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + item.Cantidad,
				Motivo:        fmt.Sprintf("Anulación venta #%d — %s", venta.NumeroTicket, motivo),
				ReferenciaID:  &ventaRef,
			}
			if err := s.movStockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// The customer no longer owes the unpaid remainder
		if venta.ClienteID != nil && venta.MontoPagado < venta.Total {
			if err := s.clienteRepo.AjustarSaldoTx(tx, *venta.ClienteID, -(venta.Total - venta.MontoPagado)); err != nil {
				return err
			}
		}

		return s.repo.UpdateEstadoTx(tx, venta.ID, model.VentaAnulada)
	})
}

// ── ObtenerVenta / ListVentas ─────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	ventas, total, err := s.repo.List(ctx, repository.VentaFilter{
		Desde:  filter.Desde,
		Hasta:  filter.Hasta,
		Estado: filter.Estado,
		Page:   filter.Page,
		Limit:  filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Ventas: make([]dto.VentaResponse, len(ventas)),
		Total:  total,
		Page:   filter.Page,
		Limit:  filter.Limit,
	}
	for i := range ventas {
		resp.Ventas[i] = *ventaToResponse(&ventas[i])
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:             v.ID.String(),
		NumeroTicket:   v.NumeroTicket,
		SesionCajaID:   v.SesionCajaID.String(),
		Subtotal:       v.Subtotal,
		DescuentoTotal: v.DescuentoTotal,
		Total:          v.Total,
		MontoPagado:    v.MontoPagado,
		EstadoPago:     v.EstadoPago,
		Estado:         v.Estado,
		Nota:           v.Nota,
		CreatedAt:      v.CreatedAt.Format(time.RFC3339),
		Items:          make([]dto.VentaItemResponse, len(v.Items)),
		Pagos:          make([]dto.VentaPagoResponse, len(v.Pagos)),
	}
	if v.ClienteID != nil {
		cid := v.ClienteID.String()
		resp.ClienteID = &cid
	}
	if v.Cliente != nil {
		nombre := v.Cliente.Nombre
		resp.Cliente = &nombre
	}
	for i, item := range v.Items {
		resp.Items[i] = dto.VentaItemResponse{
			ProductoID:     item.ProductoID.String(),
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			DescuentoItem:  item.DescuentoItem,
			Subtotal:       item.Subtotal,
		}
		if item.Producto != nil {
			resp.Items[i].Producto = item.Producto.Nombre
		}
	}
	for i, pago := range v.Pagos {
		resp.Pagos[i] = dto.VentaPagoResponse{Metodo: pago.Metodo, Monto: pago.Monto}
	}
	return resp
}
