package router

import (
	"time"

	"fondapos/internal/config"
	"fondapos/internal/handler"
	"fondapos/internal/middleware"
	"fondapos/internal/repository"
	"fondapos/internal/service"
	"fondapos/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	platilloRepo := repository.NewPlatilloRepository(db)
	pedidoRepo := repository.NewPedidoRepository(db)
	cajaRepo := repository.NewCajaRepository(db)
	mesaRepo := repository.NewMesaRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	categoriaSvc := service.NewCategoriaService(categoriaRepo)
	productoSvc := service.NewProductoService(productoRepo)
	platilloSvc := service.NewPlatilloService(platilloRepo, productoRepo)
	pedidoSvc := service.NewPedidoService(pedidoRepo, platilloRepo, productoRepo, dispatcher)
	cajaSvc := service.NewCajaService(cajaRepo, dispatcher)
	mesaSvc := service.NewMesaService(mesaRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	categoriasH := handler.NewCategoriasHandler(categoriaSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	platillosH := handler.NewPlatillosHandler(platilloSvc)
	pedidosH := handler.NewPedidosHandler(pedidoSvc)
	cajaH := handler.NewCajaHandler(cajaSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)

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
		// Registro de usuarios — administrador only
		v1.POST("/auth/registro", middleware.RequireRole("administrador"), authH.Registro)

		// Pedidos — meseros take orders, cajeros collect payments
		v1.POST("/pedidos", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), pedidosH.Crear)
		v1.GET("/pedidos", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), pedidosH.Listar)
		v1.GET("/pedidos/:id", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), pedidosH.ObtenerPorID)
		v1.PATCH("/pedidos/:id/estado", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), pedidosH.ActualizarEstado)
		v1.POST("/pedidos/:id/pagos", middleware.RequireRole("cajero", "supervisor", "administrador"), pedidosH.RegistrarPago)

		// Productos e inventario
		v1.GET("/productos", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), productosH.ObtenerPorID)
		v1.GET("/productos/:id/movimientos", middleware.RequireRole("supervisor", "administrador"), productosH.ListarMovimientos)
		v1.PATCH("/productos/:id/ajuste", middleware.RequireRole("supervisor", "administrador"), productosH.AjustarInventario)
		prods := v1.Group("/productos", middleware.RequireRole("supervisor", "administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
		}

		// Categorías — supervisores can write, all authenticated can read
		v1.GET("/categorias", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), categoriasH.Listar)
		categorias := v1.Group("/categorias", middleware.RequireRole("supervisor", "administrador"))
		{
			categorias.POST("", categoriasH.Crear)
			categorias.DELETE("/:id", categoriasH.Desactivar)
		}

		// Platillos — menú
		v1.GET("/platillos", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), platillosH.Listar)
		v1.GET("/platillos/:id", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), platillosH.ObtenerPorID)
		platillos := v1.Group("/platillos", middleware.RequireRole("supervisor", "administrador"))
		{
			platillos.POST("", platillosH.Crear)
			platillos.PUT("/:id", platillosH.Actualizar)
			platillos.DELETE("/:id", platillosH.Desactivar)
		}

		// Caja
		caja := v1.Group("/caja")
		{
			caja.POST("/abrir", middleware.RequireRole("supervisor", "administrador"), cajaH.Abrir)
			caja.GET("/actual", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.Actual)
			caja.GET("", middleware.RequireRole("supervisor", "administrador"), cajaH.Listar)
			caja.GET("/:id", middleware.RequireRole("supervisor", "administrador"), cajaH.ObtenerPorID)
			caja.POST("/:id/cerrar", middleware.RequireRole("supervisor", "administrador"), cajaH.Cerrar)
			caja.POST("/:id/transacciones", middleware.RequireRole("cajero", "supervisor", "administrador"), cajaH.RegistrarTransaccion)
		}

		// Mesas
		v1.GET("/mesas", middleware.RequireRole("mesero", "cajero", "supervisor", "administrador"), mesasH.Listar)
		mesas := v1.Group("/mesas", middleware.RequireRole("supervisor", "administrador"))
		{
			mesas.POST("", mesasH.Crear)
			mesas.PUT("/:id", mesasH.Actualizar)
			mesas.DELETE("/:id", mesasH.Desactivar)
		}

		// Usuarios — administrador only
		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.GET("", usuariosH.Listar)
			usuarios.GET("/:id", usuariosH.ObtenerPorID)
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
