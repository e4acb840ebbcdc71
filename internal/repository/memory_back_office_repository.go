package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

// MemoryBackOfficeRepository keeps back-office records in insertion order.
type MemoryBackOfficeRepository struct {
	mu         sync.RWMutex
	sales      []domain.SalesRecord
	orders     []domain.Order
	warehouses []domain.Warehouse
	customers  []domain.Customer
	inventory  []domain.InventoryItem
}

// NewMemoryBackOfficeRepository creates an empty store.
func NewMemoryBackOfficeRepository() *MemoryBackOfficeRepository {
	return &MemoryBackOfficeRepository{}
}

func (r *MemoryBackOfficeRepository) AddSale(s domain.SalesRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.sales = append(r.sales, s)
}

func (r *MemoryBackOfficeRepository) AddOrder(o domain.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	r.orders = append(r.orders, o)
}

func (r *MemoryBackOfficeRepository) AddWarehouse(w domain.Warehouse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	r.warehouses = append(r.warehouses, w)
}

func (r *MemoryBackOfficeRepository) AddCustomer(c domain.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	r.customers = append(r.customers, c)
}

func (r *MemoryBackOfficeRepository) AddInventory(i domain.InventoryItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	r.inventory = append(r.inventory, i)
}

func (r *MemoryBackOfficeRepository) CountWarehouses(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.warehouses), nil
}

func (r *MemoryBackOfficeRepository) CountOrders(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), nil
}

func (r *MemoryBackOfficeRepository) ListSales(_ context.Context, limit, offset int) ([]domain.SalesRecord, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := len(r.sales)
	if offset >= total {
		return []domain.SalesRecord{}, total, nil
	}
	end := total
	if limit < total-offset {
		end = offset + limit
	}
	return append([]domain.SalesRecord(nil), r.sales[offset:end]...), total, nil
}

func (r *MemoryBackOfficeRepository) ListOrders(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Order{}, r.orders...), nil
}

func (r *MemoryBackOfficeRepository) ListWarehouses(_ context.Context) ([]domain.Warehouse, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Warehouse{}, r.warehouses...), nil
}

func (r *MemoryBackOfficeRepository) ListCustomers(_ context.Context) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Customer{}, r.customers...), nil
}

func (r *MemoryBackOfficeRepository) ListInventory(_ context.Context) ([]domain.InventoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.InventoryItem{}, r.inventory...), nil
}
