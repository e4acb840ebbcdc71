package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/streamline-erp/ticket-service/internal/api/http/handlers"
	"github.com/streamline-erp/ticket-service/internal/auth"
	"github.com/streamline-erp/ticket-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	BackOffice     *handlers.BackOfficeHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)

	api.Get("/users", cfg.AuthMiddleware.Handle, cfg.Users.List)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:ticketId/history", cfg.Tickets.ListHistory)
	tickets.Get("/:ticketId", cfg.Tickets.GetTicket)
	tickets.Put("/:id", cfg.Tickets.UpdateTicket)

	if cfg.BackOffice != nil {
		api.Get("/dashboard", cfg.AuthMiddleware.Handle, cfg.BackOffice.Dashboard)
		api.Get("/sales", cfg.AuthMiddleware.Handle, cfg.BackOffice.ListSales)
		api.Get("/orders", cfg.AuthMiddleware.Handle, cfg.BackOffice.ListOrders)
		api.Get("/warehouses", cfg.AuthMiddleware.Handle, cfg.BackOffice.ListWarehouses)
		api.Get("/customers", cfg.AuthMiddleware.Handle, cfg.BackOffice.ListCustomers)
		api.Get("/inventory", cfg.AuthMiddleware.Handle, cfg.BackOffice.ListInventory)
	}
}
