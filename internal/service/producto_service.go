package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"almapos/internal/dto"
	"almapos/internal/model"
	"almapos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	barcodeCachePrefix = "cache:producto:barcode:"
	barcodeCacheTTL    = 10 * time.Minute
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter repository.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error)
	Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
}

type productoService struct {
	repo         repository.ProductoRepository
	movStockRepo repository.MovimientoStockRepository
	rdb          *redis.Client
}

func NewProductoService(repo repository.ProductoRepository, movStockRepo repository.MovimientoStockRepository, rdb *redis.Client) ProductoService {
	return &productoService{repo: repo, movStockRepo: movStockRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	producto := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		StockActual:  req.StockActual,
		StockMinimo:  req.StockMinimo,
		Activo:       true,
	}
	if req.UnidadMedida != "" {
		producto.UnidadMedida = req.UnidadMedida
	} else {
		producto.UnidadMedida = "unidad"
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		producto.CategoriaID = &cid
	}
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		producto.ProveedorID = &pid
	}
	if err := s.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	return productoToResponse(producto), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	return productoToResponse(producto), nil
}

// ObtenerPorBarcode is the hot path of the register: scans hit Redis first,
// falling back to Postgres on a miss.
func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, barcodeCachePrefix+barcode).Result(); err == nil {
			var resp dto.ProductoResponse
			if err := json.Unmarshal([]byte(raw), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	producto, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	resp := productoToResponse(producto)

	if s.rdb != nil {
		if data, err := json.Marshal(resp); err == nil {
			_ = s.rdb.Set(ctx, barcodeCachePrefix+barcode, data, barcodeCacheTTL).Err()
		}
	}
	return resp, nil
}

func (s *productoService) Listar(ctx context.Context, filter repository.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.ProductoListResponse{
		Productos: make([]dto.ProductoResponse, len(productos)),
		Total:     total,
		Page:      filter.Page,
		Limit:     filter.Limit,
	}
	for i := range productos {
		resp.Productos[i] = *productoToResponse(&productos[i])
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	s.invalidarBarcode(ctx, producto.CodigoBarras)

	producto.CodigoBarras = req.CodigoBarras
	producto.Nombre = req.Nombre
	producto.Descripcion = req.Descripcion
	producto.PrecioCosto = req.PrecioCosto
	producto.PrecioVenta = req.PrecioVenta
	producto.StockMinimo = req.StockMinimo
	if req.UnidadMedida != "" {
		producto.UnidadMedida = req.UnidadMedida
	}
	if req.CategoriaID != nil {
		cid, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, fmt.Errorf("categoria_id inválido: %w", err)
		}
		producto.CategoriaID = &cid
	} else {
		producto.CategoriaID = nil
	}
	if req.ProveedorID != nil {
		pid, err := uuid.Parse(*req.ProveedorID)
		if err != nil {
			return nil, fmt.Errorf("proveedor_id inválido: %w", err)
		}
		producto.ProveedorID = &pid
	} else {
		producto.ProveedorID = nil
	}

	if err := s.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	s.invalidarBarcode(ctx, producto.CodigoBarras)
	return productoToResponse(producto), nil
}

// AjustarStock applies a manual correction (inventory count, breakage) and
// records the movement for the audit trail.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjusteStockRequest) (*dto.ProductoResponse, error) {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("producto no encontrado")
	}
	if producto.StockActual+req.Cantidad < 0 {
		return nil, fmt.Errorf("el ajuste dejaría stock negativo (actual %d)", producto.StockActual)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStockTx(tx, id, req.Cantidad); err != nil {
			return err
		}
		mov := &model.MovimientoStock{
			ProductoID:    id,
			Tipo:          "ajuste_manual",
			Cantidad:      req.Cantidad,
			StockAnterior: producto.StockActual,
			StockNuevo:    producto.StockActual + req.Cantidad,
			Motivo:        req.Motivo,
		}
		return s.movStockRepo.CreateTx(tx, mov)
	})
	if txErr != nil {
		return nil, txErr
	}

	producto.StockActual += req.Cantidad
	return productoToResponse(producto), nil
}

func (s *productoService) Movimientos(ctx context.Context, id uuid.UUID, limit int) ([]dto.MovimientoStockResponse, error) {
	movimientos, err := s.movStockRepo.ListPorProducto(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	resp := make([]dto.MovimientoStockResponse, len(movimientos))
	for i, m := range movimientos {
		resp[i] = dto.MovimientoStockResponse{
			ID:            m.ID.String(),
			Tipo:          m.Tipo,
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
	}
	return resp, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	producto, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("producto no encontrado")
	}
	s.invalidarBarcode(ctx, producto.CodigoBarras)
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	return s.repo.Reactivar(ctx, id)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func (s *productoService) invalidarBarcode(ctx context.Context, barcode string) {
	if s.rdb != nil && barcode != "" {
		_ = s.rdb.Del(ctx, barcodeCachePrefix+barcode).Err()
	}
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		UnidadMedida: p.UnidadMedida,
		Activo:       p.Activo,
	}
	if p.CategoriaID != nil {
		cid := p.CategoriaID.String()
		resp.CategoriaID = &cid
	}
	if p.Categoria != nil {
		nombre := p.Categoria.Nombre
		resp.Categoria = &nombre
	}
	if p.ProveedorID != nil {
		pid := p.ProveedorID.String()
		resp.ProveedorID = &pid
	}
	return resp
}
