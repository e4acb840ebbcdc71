package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streamline-erp/ticket-service/internal/api/http/handlers"
	"github.com/streamline-erp/ticket-service/internal/auth"
	"github.com/streamline-erp/ticket-service/internal/config"
	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/events"
	"github.com/streamline-erp/ticket-service/internal/observability"
	"github.com/streamline-erp/ticket-service/internal/persistence"
	"github.com/streamline-erp/ticket-service/internal/repository"
	"github.com/streamline-erp/ticket-service/internal/service"
	"github.com/streamline-erp/ticket-service/internal/ticketid"
)

type testServer struct {
	app     *fiber.App
	token   string
	records *repository.MemoryBackOfficeRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	tickets := repository.NewMemoryTicketRepository()
	users := repository.NewMemoryUserRepository()
	records := repository.NewMemoryBackOfficeRepository()

	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo: tickets,
		UserRepo:   users,
		IDs:        ticketid.NewAllocator(tickets, ticketid.Options{Metrics: metrics}),
		Dispatcher: events.NewInMemoryDispatcher(logger),
		Metrics:    metrics,
		Logger:     logger,
	})
	authService := service.NewAuthService(config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}, users)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health: handlers.NewHealthHandler("ticket-service", "test", map[string]handlers.Dependency{
			"postgres": &persistence.Postgres{},
			"redis":    &persistence.Redis{},
		}),
		Users:          handlers.NewUsersHandler(authService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		BackOffice:     handlers.NewBackOfficeHandler(service.NewBackOfficeService(records, users, logger)),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		Metrics:        metrics,
	})

	s := &testServer{app: app, records: records}
	resp := s.do(t, fiber.MethodPost, "/api/auth/register", map[string]any{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com", "password": "s3cret-pass",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, resp.raw)

	resp = s.do(t, fiber.MethodPost, "/api/auth/login", map[string]any{"email": "jane@example.com", "password": "s3cret-pass"})
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	s.token = resp.body["data"].(map[string]any)["auth"].(map[string]any)["token"].(string)
	return s
}

type response struct {
	status int
	raw    string
	body   map[string]any
}

func (s *testServer) do(t *testing.T, method, path string, payload any) response {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if s.token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, raw: string(raw)}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(raw, &out.body), string(raw))
	}
	return out
}

func (s *testServer) createTicket(t *testing.T) map[string]any {
	t.Helper()
	resp := s.do(t, fiber.MethodPost, "/api/tickets", map[string]any{
		"issueType":   "Bug",
		"department":  "Technical",
		"subject":     "Dashboard blank",
		"description": "charts never load",
		"priority":    "low",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, resp.raw)
	return resp.body["data"].(map[string]any)
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	s.token = ""
	resp := s.do(t, fiber.MethodGet, "/api/tickets", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
	assert.Equal(t, "UNAUTHORIZED", resp.body["error"].(map[string]any)["code"])
}

func TestUpdateAndHistoryFlow(t *testing.T) {
	s := newTestServer(t)
	ticket := s.createTicket(t)
	id := ticket["id"].(string)
	ticketID := int(ticket["ticketId"].(float64))
	assert.GreaterOrEqual(t, ticketID, ticketid.Min)
	assert.Equal(t, "open", ticket["status"])

	resp := s.do(t, fiber.MethodPut, "/api/tickets/"+id, map[string]any{"priority": "high"})
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Equal(t, "high", resp.body["data"].(map[string]any)["priority"])

	resp = s.do(t, fiber.MethodPut, "/api/tickets/"+id, map[string]any{"priority": "high"})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "NO_OP_UPDATE", resp.body["error"].(map[string]any)["code"])

	resp = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/tickets/%d/history", ticketID), nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	entries := resp.body["data"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "Updated ticket", entry["action"])
	assert.Equal(t, "jane@example.com", entry["actor"].(map[string]any)["email"])
	assert.Equal(t, []any{map[string]any{"field": "priority", "oldValue": "low", "newValue": "high"}}, entry["changes"])
}

func TestUpdateClearsAssigneeWithNull(t *testing.T) {
	s := newTestServer(t)
	ticket := s.createTicket(t)
	id := ticket["id"].(string)
	ticketID := int(ticket["ticketId"].(float64))

	resp := s.do(t, fiber.MethodPut, "/api/tickets/"+id, map[string]any{"assignedTo": "agent-9"})
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)

	resp = s.do(t, fiber.MethodPut, "/api/tickets/"+id, map[string]any{"assignedTo": nil})
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Nil(t, resp.body["data"].(map[string]any)["assignedTo"])

	resp = s.do(t, fiber.MethodGet, fmt.Sprintf("/api/tickets/%d/history", ticketID), nil)
	entries := resp.body["data"].([]any)
	require.Len(t, entries, 2)
	first := entries[0].(map[string]any)["changes"].([]any)[0].(map[string]any)
	assert.Nil(t, first["oldValue"])
	assert.Equal(t, "agent-9", first["newValue"])
}

func TestGetTicket(t *testing.T) {
	s := newTestServer(t)
	ticket := s.createTicket(t)

	resp := s.do(t, fiber.MethodGet, fmt.Sprintf("/api/tickets/%d", int(ticket["ticketId"].(float64))), nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Equal(t, ticket["id"], resp.body["data"].(map[string]any)["id"])

	resp = s.do(t, fiber.MethodGet, "/api/tickets/99", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	assert.Equal(t, "NOT_FOUND", resp.body["error"].(map[string]any)["code"])

	resp = s.do(t, fiber.MethodGet, "/api/tickets/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestListTickets(t *testing.T) {
	s := newTestServer(t)
	s.createTicket(t)
	s.createTicket(t)

	resp := s.do(t, fiber.MethodGet, "/api/tickets?priority=low&page_size=1", nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Equal(t, float64(2), resp.body["totalCount"])
	assert.Len(t, resp.body["data"].([]any), 1)

	resp = s.do(t, fiber.MethodGet, "/api/tickets?status=archived", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
}

func TestUpdateStaleVersionConflicts(t *testing.T) {
	s := newTestServer(t)
	ticket := s.createTicket(t)

	resp := s.do(t, fiber.MethodPut, "/api/tickets/"+ticket["id"].(string), map[string]any{"status": "closed", "version": 3})
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.Equal(t, "CONFLICT", resp.body["error"].(map[string]any)["code"])
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)
	s.token = ""

	resp := s.do(t, fiber.MethodGet, "/health/ready", nil)
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "disabled", resp.body["dependencies"].(map[string]any)["postgres"])

	resp = s.do(t, fiber.MethodGet, "/metrics", nil)
	assert.Equal(t, fiber.StatusOK, resp.status)
	assert.Contains(t, resp.raw, "http_requests_total")
}

func TestUnknownRouteKeepsStatus(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(t, fiber.MethodGet, "/api/nothing-here", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	assert.Equal(t, "NOT_FOUND", resp.body["error"].(map[string]any)["code"])
}

func TestDashboardCountsRoute(t *testing.T) {
	s := newTestServer(t)
	s.records.AddWarehouse(domain.Warehouse{WarehouseID: "WH-1", Name: "North"})
	s.records.AddOrder(domain.Order{OrderID: 1, Status: domain.OrderStatusPending})
	s.records.AddOrder(domain.Order{OrderID: 2, Status: domain.OrderStatusCancelled})

	resp := s.do(t, fiber.MethodGet, "/api/dashboard", nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Equal(t, float64(1), resp.body["userCount"])
	assert.Equal(t, float64(1), resp.body["warehouseCount"])
	assert.Equal(t, float64(2), resp.body["orderCount"])
}

func TestSalesRoutePaginates(t *testing.T) {
	s := newTestServer(t)
	for i := 0; i < 12; i++ {
		s.records.AddSale(domain.SalesRecord{FirstName: fmt.Sprintf("lead-%02d", i), Email: fmt.Sprintf("lead%d@example.com", i)})
	}

	resp := s.do(t, fiber.MethodGet, "/api/sales", nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	assert.Equal(t, float64(12), resp.body["totalCount"])
	assert.Len(t, resp.body["data"], 10)

	resp = s.do(t, fiber.MethodGet, "/api/sales?page=2&limit=5", nil)
	require.Equal(t, fiber.StatusOK, resp.status, resp.raw)
	data := resp.body["data"].([]any)
	require.Len(t, data, 5)
	assert.Equal(t, "lead-05", data[0].(map[string]any)["first_name"])

	resp = s.do(t, fiber.MethodGet, "/api/sales?page=9223372036854775807", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status, resp.raw)
}

func TestBackOfficeListsRequireTokenAndReturnArrays(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/orders", "/api/warehouses", "/api/customers", "/api/inventory"} {
		resp := s.do(t, fiber.MethodGet, path, nil)
		require.Equal(t, fiber.StatusOK, resp.status, path)
		assert.Equal(t, []any{}, resp.body["data"], path)
	}

	s.token = ""
	resp := s.do(t, fiber.MethodGet, "/api/dashboard", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)
}
