package router

import (
	"time"

	"almapos/internal/config"
	"almapos/internal/handler"
	"almapos/internal/infra"
	"almapos/internal/middleware"
	"almapos/internal/repository"
	"almapos/internal/service"
	"almapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, tasasCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	tasasClient := infra.NewTasasClient(cfg.TasasProviderURL)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	proveedorRepo := repository.NewProveedorRepository(db)
	compraRepo := repository.NewCompraRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	monedaRepo := repository.NewMonedaRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	cajaSvc := service.NewCajaService(cajaRepo, ventaRepo, clienteRepo, proveedorRepo, compraRepo, gastoRepo, dispatcher, cfg.PDFStoragePath)
	ventaSvc := service.NewVentaService(ventaRepo, cajaSvc, productoRepo, clienteRepo, movimientoStockRepo)
	clienteSvc := service.NewClienteService(clienteRepo, ventaRepo, cajaSvc)
	proveedorSvc := service.NewProveedorService(proveedorRepo, compraRepo, cajaSvc)
	compraSvc := service.NewCompraService(compraRepo, cajaSvc, proveedorRepo, productoRepo, movimientoStockRepo)
	gastoSvc := service.NewGastoService(gastoRepo, cajaSvc)
	monedaSvc := service.NewMonedaService(monedaRepo, tasasClient, tasasCB, rdb)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo, rdb)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	ventasH := handler.NewVentaHandler(ventaSvc)
	clientesH := handler.NewClienteHandler(clienteSvc)
	proveedoresH := handler.NewProveedorHandler(proveedorSvc)
	comprasH := handler.NewCompraHandler(compraSvc)
	gastosH := handler.NewGastoHandler(gastoSvc)
	monedasH := handler.NewMonedaHandler(monedaSvc)
	productosH := handler.NewProductoHandler(productoSvc)
	categoriasH := handler.NewCategoriaHandler(categoriaSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		v1.GET("/auth/me", authH.Me)

		// Roles: cajero, supervisor, administrador — declared per-endpoint
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Abrir)
			caja.GET("/activa", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Activa)
			caja.GET("/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Obtener)
			caja.GET("/:id/libro", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Libro)
			caja.POST("/:id/cerrar", middleware.RequireRole("supervisor", "administrador"), cajaH.Cerrar)
			caja.GET("/:id/reporte", middleware.RequireRole("supervisor", "administrador"), cajaH.Reporte)
			caja.GET("/historial", middleware.RequireRole("supervisor", "administrador"), cajaH.Historial)
		}

		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Registrar)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Listar)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.Obtener)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.Anular)

		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.Obtener)
			clientes.PUT("/:id", clientesH.Actualizar)
			clientes.DELETE("/:id", middleware.RequireRole("supervisor", "administrador"), clientesH.Desactivar)
			clientes.POST("/:id/pagos", clientesH.RegistrarPago)
			clientes.GET("/:id/libro", clientesH.Libro)
		}

		prov := v1.Group("/proveedores", middleware.RequireRole("supervisor", "administrador"))
		{
			prov.POST("", proveedoresH.Crear)
			prov.GET("", proveedoresH.Listar)
			prov.GET("/:id", proveedoresH.Obtener)
			prov.PUT("/:id", proveedoresH.Actualizar)
			prov.DELETE("/:id", proveedoresH.Desactivar)
			prov.POST("/:id/pagos", proveedoresH.RegistrarPago)
			prov.GET("/:id/libro", proveedoresH.Libro)
		}

		v1.POST("/compras", middleware.RequireRole("supervisor", "administrador"), comprasH.Registrar)
		v1.GET("/compras", middleware.RequireRole("supervisor", "administrador"), comprasH.Listar)
		v1.GET("/compras/:id", middleware.RequireRole("supervisor", "administrador"), comprasH.Obtener)

		v1.POST("/gastos", middleware.RequireRole("cajero", "supervisor", "administrador"), gastosH.Registrar)
		v1.GET("/gastos", middleware.RequireRole("supervisor", "administrador"), gastosH.Listar)
		v1.GET("/gastos/:id", middleware.RequireRole("supervisor", "administrador"), gastosH.Obtener)
		v1.PUT("/gastos/:id", middleware.RequireRole("supervisor", "administrador"), gastosH.Actualizar)
		v1.DELETE("/gastos/:id", middleware.RequireRole("supervisor", "administrador"), gastosH.Eliminar)

		// Monedas — lectura y conversión abiertas a todo usuario autenticado
		v1.GET("/monedas", monedasH.Listar)
		v1.POST("/monedas/convertir", monedasH.Convertir)
		monedas := v1.Group("/monedas", middleware.RequireRole("administrador"))
		{
			monedas.POST("", monedasH.Crear)
			monedas.PUT("/:id", monedasH.Actualizar)
			monedas.DELETE("/:id", monedasH.Eliminar)
			monedas.PATCH("/:id/predeterminada", monedasH.SetPredeterminada)
			monedas.POST("/refrescar-tasas", monedasH.RefrescarTasas)
		}

		// Productos — lectura para todos, escritura administrador
		v1.GET("/productos", productosH.Listar)
		v1.GET("/productos/:id", productosH.Obtener)
		v1.GET("/productos/barcode/:barcode", productosH.PorBarcode)
		v1.GET("/productos/:id/movimientos", middleware.RequireRole("supervisor", "administrador"), productosH.Movimientos)
		v1.PATCH("/productos/:id/stock", middleware.RequireRole("supervisor", "administrador"), productosH.AjustarStock)
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Categorías — administrador can write, all authenticated can read
		v1.GET("/categorias", categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.PUT("/:id", categoriasH.Actualizar)
			categorias.DELETE("/:id", categoriasH.Eliminar)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
