package domain

import "time"

// SalesRecord is one row of the sales contact list.
type SalesRecord struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Age       *int
	CreatedAt time.Time
}

// OrderStatus enumerates order fulfilment states.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a customer order header. Line items are not tracked by this service.
type Order struct {
	ID              string
	OrderID         int
	CustomerID      string
	OrderDate       time.Time
	ShippingDate    *time.Time
	Status          OrderStatus
	TotalAmount     float64
	TaxAmount       float64
	Discount        float64
	NetAmount       float64
	PaymentMethod   string
	PaymentStatus   string
	ShippingAddress string
	BillingAddress  string
	CreatedBy       string
	UpdatedBy       string
	Notes           string
}

// Warehouse is a storage site.
type Warehouse struct {
	ID           string
	WarehouseID  string
	Name         string
	Location     string
	Capacity     int
	CurrentStock int
}

// Customer is a buyer referenced by orders.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}

// InventoryItem is a stocked product line.
type InventoryItem struct {
	ID          string
	Name        string
	Description string
	Category    string
	Quantity    int
	Price       float64
	Supplier    string
	Warehouse   string
	DateAdded   time.Time
	ExpiryDate  time.Time
}

// DashboardCounts are the headline numbers on the dashboard.
type DashboardCounts struct {
	Users      int
	Warehouses int
	Orders     int
}
