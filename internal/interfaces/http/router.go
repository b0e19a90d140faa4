package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/casaempenos/prestamos-api/internal/application/contratos"
	"github.com/casaempenos/prestamos-api/internal/application/ordenes"
	"github.com/casaempenos/prestamos-api/internal/application/productos"
	"github.com/casaempenos/prestamos-api/internal/application/solicitudes"
	"github.com/casaempenos/prestamos-api/internal/application/usuarios"
	"github.com/casaempenos/prestamos-api/pkg/logger"
)

func ping(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// UsuariosRouterDeps dependencias del servicio de usuarios.
type UsuariosRouterDeps struct {
	UsuarioUC *usuarios.UseCase
	JWTSecret string
	Log       *logger.Logger
}

// RouterUsuarios registra las rutas del servicio de usuarios.
func RouterUsuarios(app *fiber.App, deps UsuariosRouterDeps) {
	app.Get("/ping", ping)

	api := app.Group("/api/usuarios")
	h := NewUsuarioHandler(deps.UsuarioUC, deps.Log)

	// Registro de clientes y login (público)
	api.Post("/", h.Registrar)
	api.Post("/login", h.Login)

	// Alta de empleados (personal)
	api.Post("/empleados", AuthMiddleware(deps.JWTSecret), RequireNivel(2), h.RegistrarEmpleado)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Get("/", RequireNivel(2), h.List)
	protected.Get("/cedula/:cedula", RequireNivel(2), h.GetByCedula)
	protected.Get("/:id", h.GetByID)
	protected.Put("/:id", h.Actualizar)
	protected.Delete("/:id", RequireAdmin(), h.Eliminar)
}

// ProductosRouterDeps dependencias del servicio de productos.
type ProductosRouterDeps struct {
	ProductoUC *productos.UseCase
	JWTSecret  string
	Log        *logger.Logger
}

// RouterProductos registra las rutas del servicio de productos.
func RouterProductos(app *fiber.App, deps ProductosRouterDeps) {
	app.Get("/ping", ping)

	api := app.Group("/api/productos")
	h := NewProductoHandler(deps.ProductoUC, deps.Log)

	// Catálogo (público)
	api.Get("/", h.Listar)
	api.Get("/categorias", h.ListarCategorias)
	api.Get("/sucursales", h.ListarSucursales)
	api.Get("/:id", h.GetByID)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/", h.Crear)
	protected.Put("/:id", h.Actualizar)
	protected.Patch("/:id/estado", h.CambiarEstado)
	protected.Patch("/:id/cantidad", h.CambiarCantidad)
	protected.Delete("/:id", h.Eliminar)
}

// OrdenesRouterDeps dependencias del servicio de órdenes.
type OrdenesRouterDeps struct {
	OrdenUC   *ordenes.UseCase
	JWTSecret string
	Log       *logger.Logger
}

// RouterOrdenes registra las rutas del servicio de órdenes de compra.
func RouterOrdenes(app *fiber.App, deps OrdenesRouterDeps) {
	app.Get("/ping", ping)

	api := app.Group("/api/ordenes", AuthMiddleware(deps.JWTSecret))
	h := NewOrdenHandler(deps.OrdenUC, deps.Log)

	api.Post("/", h.Crear)
	api.Get("/", h.Listar)
	api.Get("/:id", h.GetByID)
	api.Patch("/:id", h.CambiarEstado)
}

// SolicitudesRouterDeps dependencias del servicio de solicitudes.
type SolicitudesRouterDeps struct {
	SolicitudUC *solicitudes.UseCase
	JWTSecret   string
	Log         *logger.Logger
}

// RouterSolicitudes registra las rutas del servicio de solicitudes de empeño.
func RouterSolicitudes(app *fiber.App, deps SolicitudesRouterDeps) {
	app.Get("/ping", ping)

	api := app.Group("/api/solicitudes")
	h := NewSolicitudHandler(deps.SolicitudUC, deps.Log)

	api.Get("/", OptionalAuth(deps.JWTSecret), h.Listar)
	api.Get("/estado/:estado", h.ListarPorEstado)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/", h.Crear)
	protected.Get("/:id", h.GetByID)
	protected.Put("/:id/estado", RequireAdmin(), h.CambiarEstado)
}

// ContratosRouterDeps dependencias del servicio de contratos.
type ContratosRouterDeps struct {
	ContratoUC *contratos.UseCase
	LiquidezUC *contratos.LiquidezUseCase
	PagoUC     *contratos.PagoUseCase
	JWTSecret  string
	Log        *logger.Logger
}

// RouterContratos registra las rutas del servicio de contratos, liquidez
// y pagos.
func RouterContratos(app *fiber.App, deps ContratosRouterDeps) {
	app.Get("/ping", ping)

	api := app.Group("/api/contratos")
	h := NewContratoHandler(deps.ContratoUC, deps.LiquidezUC, deps.PagoUC, deps.Log)

	api.Get("/", OptionalAuth(deps.JWTSecret), h.Listar)

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Liquidez por sucursal. Va antes de /:id para que el prefijo no
	// caiga en el matcher numérico.
	protected.Get("/liquidez", h.ListarLiquidez)
	protected.Get("/liquidez/transferencias", h.ListarTransferencias)
	protected.Post("/liquidez/transferir", RequireAdmin(), h.TransferirLiquidez)
	protected.Put("/liquidez/:sucursal", RequireAdmin(), h.ActualizarLiquidez)

	protected.Post("/", h.Crear)
	protected.Get("/:id", h.GetByID)
	protected.Put("/:id", h.Actualizar)
	protected.Patch("/:id/estado", RequireAdmin(), h.CambiarEstado)
	protected.Patch("/:id/firmar", h.Firmar)
	protected.Patch("/:id/entregar", h.EntregarProducto)
	protected.Patch("/:id/desembolsar", h.Desembolsar)
	protected.Get("/:id/pdf", h.GetPDF)

	// Pagos
	protected.Post("/:id/pagos", h.RegistrarPago)
	protected.Get("/:id/pagos", h.ListarPagos)
	protected.Get("/:id/saldo", h.SaldoContrato)
}
