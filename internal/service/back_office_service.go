package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/repository"
	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

const (
	defaultSalesLimit = 10
	maxSalesLimit     = 100
)

// BackOfficeService serves the read-only dashboard and listings.
type BackOfficeService struct {
	records repository.BackOfficeRepository
	users   repository.UserRepository
	logger  *zap.Logger
}

func NewBackOfficeService(records repository.BackOfficeRepository, users repository.UserRepository, logger *zap.Logger) *BackOfficeService {
	return &BackOfficeService{records: records, users: users, logger: logger}
}

// Dashboard returns the user, warehouse and order counts.
func (s *BackOfficeService) Dashboard(ctx context.Context) (domain.DashboardCounts, error) {
	var counts domain.DashboardCounts
	var err error
	if counts.Users, err = s.users.Count(ctx); err != nil {
		return counts, s.internal("count users", err)
	}
	if counts.Warehouses, err = s.records.CountWarehouses(ctx); err != nil {
		return counts, s.internal("count warehouses", err)
	}
	if counts.Orders, err = s.records.CountOrders(ctx); err != nil {
		return counts, s.internal("count orders", err)
	}
	return counts, nil
}

// ListSales returns one page of sales records and the total count.
func (s *BackOfficeService) ListSales(ctx context.Context, page, limit int) ([]domain.SalesRecord, int, error) {
	if limit < 0 {
		return nil, 0, apperrors.NewValidationError("limit must be positive", map[string]any{"limit": limit})
	}
	limit = clampPageSize(limit, defaultSalesLimit, maxSalesLimit)
	offset, err := pageOffset(page, limit)
	if err != nil {
		return nil, 0, err
	}
	records, total, err := s.records.ListSales(ctx, limit, offset)
	if err != nil {
		return nil, 0, s.internal("list sales", err)
	}
	return records, total, nil
}

func (s *BackOfficeService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.records.ListOrders(ctx)
	if err != nil {
		return nil, s.internal("list orders", err)
	}
	return orders, nil
}

func (s *BackOfficeService) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	warehouses, err := s.records.ListWarehouses(ctx)
	if err != nil {
		return nil, s.internal("list warehouses", err)
	}
	return warehouses, nil
}

func (s *BackOfficeService) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.records.ListCustomers(ctx)
	if err != nil {
		return nil, s.internal("list customers", err)
	}
	return customers, nil
}

func (s *BackOfficeService) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	items, err := s.records.ListInventory(ctx)
	if err != nil {
		return nil, s.internal("list inventory", err)
	}
	return items, nil
}

func (s *BackOfficeService) internal(op string, err error) error {
	s.logger.Error("back-office read failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}
