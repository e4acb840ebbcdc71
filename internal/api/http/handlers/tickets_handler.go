package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/streamline-erp/ticket-service/internal/api/dto"
	"github.com/streamline-erp/ticket-service/internal/auth"
	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/service"
	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

// TicketsHandler manages ticket endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// CreateTicket POST /tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.CreateTicket(c.UserContext(), principal.Actor(), service.TicketCreateInput{
		UserID:      req.UserID,
		IssueType:   req.IssueType,
		Department:  req.Department,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Attachments: req.Attachments,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter := service.TicketListFilter{
		Sort:     c.Query("sort"),
		Page:     parseInt(c.Query("page"), 1),
		PageSize: parseInt(c.Query("page_size"), 0),
	}
	if v := c.Query("issueType"); v != "" {
		issueType := domain.IssueType(v)
		filter.IssueType = &issueType
	}
	if v := c.Query("department"); v != "" {
		department := domain.Department(v)
		filter.Department = &department
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.TicketPriority(v)
		filter.Priority = &priority
	}
	if v := c.Query("status"); v != "" {
		status := domain.TicketStatus(v)
		filter.Status = &status
	}

	tickets, total, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketResponse(&tickets[i]))
	}
	return c.JSON(dto.TicketListResponse{Data: items, TotalCount: total})
}

// GetTicket GET /tickets/:ticketId.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	detail, err := h.service.GetTicket(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	resp := dto.NewTicketResponse(detail.Ticket)
	resp.AssigneeEmail = detail.AssigneeEmail
	return c.JSON(fiber.Map{"data": resp})
}

// ListHistory GET /tickets/:ticketId/history.
func (h *TicketsHandler) ListHistory(c *fiber.Ctx) error {
	ticketID, err := ticketIDParam(c)
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewHistoryResponse(history)})
}

// UpdateTicket PUT /tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	ticket, err := h.service.UpdateTicket(c.UserContext(), c.Params("id"), service.TicketPatch{
		IssueType:   req.IssueType,
		Department:  req.Department,
		Priority:    req.Priority,
		Status:      req.Status,
		Subject:     req.Subject,
		Description: req.Description,
		AssignedTo:  service.OptionalString{Set: req.AssignedTo.Set, Value: req.AssignedTo.Value},
		Attachments: req.Attachments,
		Version:     req.Version,
	}, principal.Actor())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

func ticketIDParam(c *fiber.Ctx) (int, error) {
	raw := c.Params("ticketId")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidationError("ticketId must be numeric", map[string]any{"ticketId": raw})
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}
