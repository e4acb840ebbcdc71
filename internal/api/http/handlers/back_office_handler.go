package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streamline-erp/ticket-service/internal/api/dto"
	"github.com/streamline-erp/ticket-service/internal/service"
)

// BackOfficeHandler exposes the read-only dashboard and listings.
type BackOfficeHandler struct {
	svc *service.BackOfficeService
}

func NewBackOfficeHandler(svc *service.BackOfficeService) *BackOfficeHandler {
	return &BackOfficeHandler{svc: svc}
}

// Dashboard handles GET /dashboard.
func (h *BackOfficeHandler) Dashboard(c *fiber.Ctx) error {
	counts, err := h.svc.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.DashboardResponse{
		UserCount:      counts.Users,
		WarehouseCount: counts.Warehouses,
		OrderCount:     counts.Orders,
	})
}

// ListSales handles GET /sales?page=&limit=.
func (h *BackOfficeHandler) ListSales(c *fiber.Ctx) error {
	records, total, err := h.svc.ListSales(c.UserContext(), parseInt(c.Query("page"), 1), parseInt(c.Query("limit"), 0))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewSalesListResponse(records, total))
}

func (h *BackOfficeHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.svc.ListOrders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewOrderResponses(orders)})
}

func (h *BackOfficeHandler) ListWarehouses(c *fiber.Ctx) error {
	warehouses, err := h.svc.ListWarehouses(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWarehouseResponses(warehouses)})
}

func (h *BackOfficeHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := h.svc.ListCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponses(customers)})
}

func (h *BackOfficeHandler) ListInventory(c *fiber.Ctx) error {
	items, err := h.svc.ListInventory(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInventoryResponses(items)})
}
