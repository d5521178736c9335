package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/indrhi/suministros-api/internal/application/analytics"
	"github.com/indrhi/suministros-api/internal/application/auth"
	"github.com/indrhi/suministros-api/internal/application/intake"
	"github.com/indrhi/suministros-api/internal/application/lifecycle"
	"github.com/indrhi/suministros-api/internal/application/usecase"
	"github.com/indrhi/suministros-api/internal/domain/entity"
	"github.com/indrhi/suministros-api/internal/infrastructure/metrics"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ArticleUC    *usecase.ArticleUseCase
	DepartmentUC *usecase.DepartmentUseCase
	UserUC       *usecase.UserUseCase
	AuthUC       *auth.AuthUseCase
	Lifecycle    *lifecycle.UseCase
	Intake       *intake.UseCase
	DashboardUC  *analytics.DashboardUseCase
	DB           Pinger
	JWTSecret    string
}

// Roles por grupo de rutas.
var (
	catalogEditors = []string{entity.RoleSuperAdmin, entity.RoleSupply}
	authorizers    = []string{entity.RoleSuperAdmin, entity.RoleAdmin}
	fulfillment    = []string{entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleSupply}
	userAdmins     = []string{entity.RoleSuperAdmin}
)

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.DB))
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	api := app.Group("/api")
	userHandler := NewUserHandler(deps.UserUC, deps.AuthUC)

	// Login (público)
	api.Post("/usuarios/login", userHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Artículos
	articleHandler := NewArticleHandler(deps.ArticleUC)
	articles := protected.Group("/articulos")
	articles.Get("/", articleHandler.List)
	articles.Get("/bajo-stock", articleHandler.LowStock)
	articles.Get("/:id", articleHandler.GetByID)
	articles.Post("/", RequireRole(catalogEditors...), articleHandler.Create)
	articles.Put("/:id", RequireRole(catalogEditors...), articleHandler.Update)
	articles.Delete("/:id", RequireRole(catalogEditors...), articleHandler.Delete)

	// Departamentos
	departmentHandler := NewDepartmentHandler(deps.DepartmentUC)
	departments := protected.Group("/departamentos")
	departments.Get("/", departmentHandler.List)
	departments.Get("/:id", departmentHandler.GetByID)
	departments.Post("/", RequireRole(catalogEditors...), departmentHandler.Create)
	departments.Put("/:id", RequireRole(catalogEditors...), departmentHandler.Update)
	departments.Delete("/:id", RequireRole(catalogEditors...), departmentHandler.Delete)

	// Solicitudes (cualquier rol; departamento limitado a lo suyo)
	requestHandler := NewRequestHandler(deps.Lifecycle)
	requests := protected.Group("/solicitudes")
	requests.Get("/", requestHandler.List)
	requests.Post("/", requestHandler.Create)
	requests.Get("/:id", requestHandler.GetByID)
	requests.Get("/:id/historial", requestHandler.History)
	requests.Post("/:id/enviar", requestHandler.Submit)
	requests.Delete("/:id", requestHandler.Delete)

	// Autorización
	authorize := protected.Group("/autorizar-solicitudes", RequireRole(authorizers...))
	authorize.Get("/", requestHandler.Queue(entity.StatusInAuthorization))
	authorize.Post("/aprobar", requestHandler.ApproveBatch)
	authorize.Post("/rechazar", requestHandler.RejectBatch)
	authorize.Post("/:id/aprobar", requestHandler.Approve)
	authorize.Post("/:id/rechazar", requestHandler.Reject)

	// Gestión y despacho
	approved := protected.Group("/solicitudes-aprobadas", RequireRole(fulfillment...))
	approved.Get("/", requestHandler.Queue(entity.StatusApproved))
	approved.Post("/:id/gestionar", requestHandler.Assign)

	managed := protected.Group("/solicitudes-gestionadas", RequireRole(fulfillment...))
	managed.Get("/", requestHandler.Queue(entity.StatusInManagement))
	managed.Post("/:id/despachar", requestHandler.Dispatch)

	dispatched := protected.Group("/solicitudes-despachadas", RequireRole(fulfillment...))
	dispatched.Get("/", requestHandler.Queue(entity.StatusDispatched))
	dispatched.Get("/:id/conduce", requestHandler.DispatchNote)

	// Entradas de mercancía
	entryHandler := NewEntryHandler(deps.Intake)
	entries := protected.Group("/entradas-mercancia", RequireRole(catalogEditors...))
	entries.Get("/", entryHandler.List)
	entries.Get("/siguiente-orden", entryHandler.NextOrder)
	entries.Post("/", entryHandler.Create)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Delete("/:id", entryHandler.Delete)

	// Usuarios
	users := protected.Group("/usuarios", RequireRole(userAdmins...))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Put("/:id", userHandler.Update)
	users.Put("/:id/password", userHandler.ChangePassword)
	users.Delete("/:id", userHandler.Delete)

	// Dashboard
	protected.Get("/dashboard", NewDashboardHandler(deps.DashboardUC).Summary)
}
