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

type CompraService interface {
	RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error)
	ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error)
	ListCompras(ctx context.Context, filter dto.CompraFilterRequest) (*dto.CompraListResponse, error)
}

type compraService struct {
	repo          repository.CompraRepository
	caja          CajaService
	proveedorRepo repository.ProveedorRepository
	productoRepo  repository.ProductoRepository
	movStockRepo  repository.MovimientoStockRepository
}

func NewCompraService(
	repo repository.CompraRepository,
	caja CajaService,
	proveedorRepo repository.ProveedorRepository,
	productoRepo repository.ProductoRepository,
	movStockRepo repository.MovimientoStockRepository,
) CompraService {
	return &compraService{
		repo:          repo,
		caja:          caja,
		proveedorRepo: proveedorRepo,
		productoRepo:  productoRepo,
		movStockRepo:  movStockRepo,
	}
}

// ── RegistrarCompra ───────────────────────────────────────────────────────────
// Receiving a purchase increments stock; the unpaid remainder accrues to the
// supplier's account. A cash payment requires an open session so it lands in
// the till ledger.

func (s *compraService) RegistrarCompra(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarCompraRequest) (*dto.CompraResponse, error) {
	proveedorID, err := uuid.Parse(req.ProveedorID)
	if err != nil {
		return nil, fmt.Errorf("proveedor_id inválido: %w", err)
	}
	proveedor, err := s.proveedorRepo.FindByID(ctx, proveedorID)
	if err != nil {
		return nil, errors.New("proveedor no encontrado")
	}
	if !proveedor.Activo {
		return nil, errors.New("el proveedor está inactivo")
	}

	var sesionID *uuid.UUID
	if req.MetodoPago == ledger.MetodoEfectivo && req.MontoPagado > 0 {
		sesion, err := s.caja.ValidarSesionAbierta(ctx)
		if err != nil {
			return nil, err
		}
		sesionID = &sesion.ID
	}

	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		cantidad   int
		costo      int64
		subtotal   int64
	}
	var resolved []resolvedItem
	var total int64
	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		lineSubtotal := item.CostoUnitario * int64(item.Cantidad)
		total += lineSubtotal
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			cantidad:   item.Cantidad,
			costo:      item.CostoUnitario,
			subtotal:   lineSubtotal,
		})
	}

	if req.MontoPagado > total {
		return nil, errors.New("el monto pagado excede el total de la compra")
	}
	estadoPago := ledger.ClasificarEstadoPago(req.MontoPagado, total)

	var compra model.Compra
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumeroCompra(ctx, tx)
		if err != nil {
			return err
		}

		compra = model.Compra{
			NumeroCompra: numero,
			ProveedorID:  proveedorID,
			SesionCajaID: sesionID,
			UsuarioID:    usuarioID,
			Total:        total,
			MontoPagado:  req.MontoPagado,
			MetodoPago:   req.MetodoPago,
			EstadoPago:   estadoPago,
			Nota:         req.Nota,
			Fecha:        time.Now(),
		}
		for _, r := range resolved {
			compra.Items = append(compra.Items, model.CompraItem{
				ProductoID:    r.productoID,
				Cantidad:      r.cantidad,
				CostoUnitario: r.costo,
				Subtotal:      r.subtotal,
			})
		}
		if err := s.repo.Create(ctx, tx, &compra); err != nil {
			return err
		}

		// Incoming stock, with movement record and cost refresh
		for _, r := range resolved {
			stockAntes := 0
			if prodBefore, err := s.productoRepo.FindByIDTx(tx, r.productoID); err == nil {
				stockAntes = prodBefore.StockActual
			}
			if err := s.productoRepo.UpdateStockTx(tx, r.productoID, r.cantidad); err != nil {
				return fmt.Errorf("error ingresando stock de %s: %w", r.nombre, err)
			}
			compraRef := compra.ID
			mov := &model.MovimientoStock{
				ProductoID:    r.productoID,
				Tipo:          "compra",
				Cantidad:      r.cantidad,
				StockAnterior: stockAntes,
				StockNuevo:    stockAntes + r.cantidad,
				Motivo:        fmt.Sprintf("Compra #%d", numero),
				ReferenciaID:  &compraRef,
			}
			if err := s.movStockRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}

		// Unpaid remainder accrues to the supplier's account
		if req.MontoPagado < total {
			if err := s.proveedorRepo.AjustarSaldoTx(tx, proveedorID, total-req.MontoPagado); err != nil {
				return err
			}
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := compraToResponse(&compra)
	resp.Proveedor = proveedor.RazonSocial
	for i, r := range resolved {
		resp.Items[i].Producto = r.nombre
	}
	return resp, nil
}

func (s *compraService) ObtenerCompra(ctx context.Context, id uuid.UUID) (*dto.CompraResponse, error) {
	compra, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("compra no encontrada")
	}
	return compraToResponse(compra), nil
}

func (s *compraService) ListCompras(ctx context.Context, filter dto.CompraFilterRequest) (*dto.CompraListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	repoFilter := repository.CompraFilter{
		Desde: filter.Desde,
		Hasta: filter.Hasta,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	if filter.ProveedorID != "" {
		pid, err := uuid.Parse(filter.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		repoFilter.ProveedorID = &pid
	}
	compras, total, err := s.repo.List(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	resp := &dto.CompraListResponse{
		Compras: make([]dto.CompraResponse, len(compras)),
		Total:   total,
		Page:    filter.Page,
		Limit:   filter.Limit,
	}
	for i := range compras {
		resp.Compras[i] = *compraToResponse(&compras[i])
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func compraToResponse(c *model.Compra) *dto.CompraResponse {
	resp := &dto.CompraResponse{
		ID:           c.ID.String(),
		NumeroCompra: c.NumeroCompra,
		ProveedorID:  c.ProveedorID.String(),
		Total:        c.Total,
		MontoPagado:  c.MontoPagado,
		MetodoPago:   c.MetodoPago,
		EstadoPago:   c.EstadoPago,
		Nota:         c.Nota,
		Fecha:        c.Fecha.Format(time.RFC3339),
		Items:        make([]dto.CompraItemResponse, len(c.Items)),
	}
	if c.Proveedor != nil {
		resp.Proveedor = c.Proveedor.RazonSocial
	}
	for i, item := range c.Items {
		resp.Items[i] = dto.CompraItemResponse{
			ProductoID:    item.ProductoID.String(),
			Cantidad:      item.Cantidad,
			CostoUnitario: item.CostoUnitario,
			Subtotal:      item.Subtotal,
		}
		if item.Producto != nil {
			resp.Items[i].Producto = item.Producto.Nombre
		}
	}
	return resp
}
