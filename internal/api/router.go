package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kazale/ponto-inteligente/docs"
	"github.com/kazale/ponto-inteligente/internal/api/handler"
	"github.com/kazale/ponto-inteligente/internal/api/middleware"
	"github.com/kazale/ponto-inteligente/internal/core/domain"
	"github.com/kazale/ponto-inteligente/internal/core/ports"
)

// Deps carries everything the router needs; services are built in main.
type Deps struct {
	Auth      ports.AuthService
	Entries   ports.EntryService
	Employees ports.EmployeeService
	Companies ports.CompanyService
	// Checks are run by GET /health/ready.
	Checks map[string]handler.Check
	// Docs mounts the Swagger UI.
	Docs bool
	// DocsAutoLogin also mounts GET /swagger/auth, which returns an admin
	// token without credentials. Only honoured together with Docs.
	DocsAutoLogin bool
	Log           zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// Request metrics live in a per-router registry; /metrics serves it next
	// to the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "ponto",
		Subsystem:  "http",
		Registerer: reg,
	}))
	e.Use(middleware.Authenticate(d.Auth, d.Log))

	authenticated := middleware.Guard(middleware.Authenticated(), d.Log)
	adminOnly := middleware.Guard(middleware.RequireRoles(domain.RoleAdmin), d.Log)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/auth", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh, authenticated)

	// --- Business routes ---
	entryHandler := handler.NewEntryHandler(d.Entries)
	employeeHandler := handler.NewEmployeeHandler(d.Employees)
	companyHandler := handler.NewCompanyHandler(d.Companies)

	secured := e.Group("/api", authenticated)
	secured.GET("/entries/employee/:employeeId", entryHandler.ListByEmployee)
	secured.GET("/entries/:id", entryHandler.Get)
	secured.POST("/entries", entryHandler.Create)
	secured.PUT("/entries/:id", entryHandler.Update)
	secured.DELETE("/entries/:id", entryHandler.Delete, adminOnly)
	secured.PUT("/employees/:id", employeeHandler.Update)
	secured.GET("/companies/cnpj/:cnpj", companyHandler.FindByCNPJ)

	// --- Health checks and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))

	// --- API docs (development only) ---
	if d.Docs {
		if d.DocsAutoLogin {
			e.GET("/swagger/auth", authHandler.DocsToken)
		}
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}
