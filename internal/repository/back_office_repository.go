package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

// BackOfficeRepository serves the read-only back-office listings.
type BackOfficeRepository interface {
	CountWarehouses(ctx context.Context) (int, error)
	CountOrders(ctx context.Context) (int, error)
	ListSales(ctx context.Context, limit, offset int) ([]domain.SalesRecord, int, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	ListWarehouses(ctx context.Context) ([]domain.Warehouse, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	ListInventory(ctx context.Context) ([]domain.InventoryItem, error)
}

type backOfficeRepository struct {
	pool *pgxpool.Pool
}

// NewBackOfficeRepository returns a Postgres-backed implementation.
func NewBackOfficeRepository(pool *pgxpool.Pool) BackOfficeRepository {
	return &backOfficeRepository{pool: pool}
}

func (r *backOfficeRepository) count(ctx context.Context, table string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n)
	return n, err
}

func (r *backOfficeRepository) CountWarehouses(ctx context.Context) (int, error) {
	return r.count(ctx, "warehouses")
}

func (r *backOfficeRepository) CountOrders(ctx context.Context) (int, error) {
	return r.count(ctx, "orders")
}

func (r *backOfficeRepository) ListSales(ctx context.Context, limit, offset int) ([]domain.SalesRecord, int, error) {
	total, err := r.count(ctx, "sales")
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, first_name, last_name, email, age, created_at
        FROM sales ORDER BY seq LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SalesRecord, error) {
		var s domain.SalesRecord
		err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Age, &s.CreatedAt)
		return s, err
	})
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func (r *backOfficeRepository) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, order_id, customer_id, order_date, shipping_date, status,
               total_amount, tax_amount, discount, net_amount, payment_method,
               payment_status, shipping_address, billing_address, created_by,
               updated_by, notes
        FROM orders ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		err := row.Scan(&o.ID, &o.OrderID, &o.CustomerID, &o.OrderDate, &o.ShippingDate, &o.Status,
			&o.TotalAmount, &o.TaxAmount, &o.Discount, &o.NetAmount, &o.PaymentMethod,
			&o.PaymentStatus, &o.ShippingAddress, &o.BillingAddress, &o.CreatedBy,
			&o.UpdatedBy, &o.Notes)
		return o, err
	})
}

func (r *backOfficeRepository) ListWarehouses(ctx context.Context) ([]domain.Warehouse, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, warehouse_id, name, location, capacity, current_stock
        FROM warehouses ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Warehouse, error) {
		var w domain.Warehouse
		err := row.Scan(&w.ID, &w.WarehouseID, &w.Name, &w.Location, &w.Capacity, &w.CurrentStock)
		return w, err
	})
}

func (r *backOfficeRepository) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, email, phone, address, created_at
        FROM customers ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Customer, error) {
		var c domain.Customer
		err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt)
		return c, err
	})
}

func (r *backOfficeRepository) ListInventory(ctx context.Context) ([]domain.InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, name, description, category, quantity, price, supplier,
               warehouse, date_added, expiry_date
        FROM inventory ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.InventoryItem, error) {
		var i domain.InventoryItem
		err := row.Scan(&i.ID, &i.Name, &i.Description, &i.Category, &i.Quantity, &i.Price,
			&i.Supplier, &i.Warehouse, &i.DateAdded, &i.ExpiryDate)
		return i, err
	})
}
