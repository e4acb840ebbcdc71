package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/streamline-erp/ticket-service/internal/domain"
	"github.com/streamline-erp/ticket-service/internal/repository"
	apperrors "github.com/streamline-erp/ticket-service/pkg/util"
)

type failingBackOffice struct {
	*repository.MemoryBackOfficeRepository
}

func (failingBackOffice) CountOrders(context.Context) (int, error) {
	return 0, errors.New("connection reset")
}

func newBackOffice(t *testing.T, sales int) (*BackOfficeService, *repository.MemoryBackOfficeRepository, *repository.MemoryUserRepository) {
	t.Helper()
	records := repository.NewMemoryBackOfficeRepository()
	for i := 0; i < sales; i++ {
		records.AddSale(domain.SalesRecord{FirstName: fmt.Sprintf("lead-%02d", i), Email: fmt.Sprintf("lead%d@example.com", i)})
	}
	users := repository.NewMemoryUserRepository()
	return NewBackOfficeService(records, users, zap.NewNop()), records, users
}

func TestDashboardCounts(t *testing.T) {
	svc, records, users := newBackOffice(t, 0)
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &domain.User{Email: "jane@example.com"}))
	records.AddWarehouse(domain.Warehouse{Name: "north"})
	records.AddWarehouse(domain.Warehouse{Name: "south"})
	records.AddOrder(domain.Order{OrderID: 7, Status: domain.OrderStatusDelivered})

	counts, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.DashboardCounts{Users: 1, Warehouses: 2, Orders: 1}, counts)
}

func TestDashboardSurfacesStoreFailure(t *testing.T) {
	svc := NewBackOfficeService(failingBackOffice{repository.NewMemoryBackOfficeRepository()}, repository.NewMemoryUserRepository(), zap.NewNop())

	_, err := svc.Dashboard(context.Background())
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInternal))
}

func TestListSalesPaging(t *testing.T) {
	svc, _, _ := newBackOffice(t, 25)
	ctx := context.Background()

	first, total, err := svc.ListSales(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	require.Len(t, first, defaultSalesLimit)
	assert.Equal(t, "lead-00", first[0].FirstName)

	last, _, err := svc.ListSales(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, last, 5)
	assert.Equal(t, "lead-20", last[0].FirstName)

	capped, _, err := svc.ListSales(ctx, 1, 1000)
	require.NoError(t, err)
	assert.Len(t, capped, 25)
}

func TestListSalesRejectsBadPaging(t *testing.T) {
	svc, _, _ := newBackOffice(t, 1)
	ctx := context.Background()

	_, _, err := svc.ListSales(ctx, 1, -1)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, _, err = svc.ListSales(ctx, 1<<62, 10)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
}

func TestBackOfficeListsReturnEmptySlices(t *testing.T) {
	svc, records, _ := newBackOffice(t, 0)
	ctx := context.Background()
	records.AddInventory(domain.InventoryItem{Name: "widget", Quantity: 3})

	warehouses, err := svc.ListWarehouses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, warehouses)
	assert.Empty(t, warehouses)

	customers, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	assert.Empty(t, customers)

	orders, err := svc.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)

	items, err := svc.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "widget", items[0].Name)
}
