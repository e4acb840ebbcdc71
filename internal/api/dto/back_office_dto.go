package dto

import (
	"time"

	"github.com/streamline-erp/ticket-service/internal/domain"
)

// DashboardResponse carries the headline counts.
type DashboardResponse struct {
	UserCount      int `json:"userCount"`
	WarehouseCount int `json:"warehouseCount"`
	OrderCount     int `json:"orderCount"`
}

type SalesRecordResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Age       *int      `json:"age,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SalesListResponse is one page of sales plus the overall count.
type SalesListResponse struct {
	Data       []SalesRecordResponse `json:"data"`
	TotalCount int                   `json:"totalCount"`
}

type OrderResponse struct {
	ID              string             `json:"id"`
	OrderID         int                `json:"orderId"`
	CustomerID      string             `json:"customerId"`
	OrderDate       time.Time          `json:"orderDate"`
	ShippingDate    *time.Time         `json:"shippingDate,omitempty"`
	Status          domain.OrderStatus `json:"status"`
	TotalAmount     float64            `json:"totalAmount"`
	TaxAmount       float64            `json:"taxAmount"`
	Discount        float64            `json:"discount"`
	NetAmount       float64            `json:"netAmount"`
	PaymentMethod   string             `json:"paymentMethod"`
	PaymentStatus   string             `json:"paymentStatus"`
	ShippingAddress string             `json:"shippingAddress"`
	BillingAddress  string             `json:"billingAddress"`
	CreatedBy       string             `json:"createdBy"`
	UpdatedBy       string             `json:"updatedBy"`
	Notes           string             `json:"notes,omitempty"`
}

type WarehouseResponse struct {
	ID           string `json:"id"`
	WarehouseID  string `json:"warehouse_id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	Capacity     int    `json:"capacity"`
	CurrentStock int    `json:"current_stock"`
}

type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

type InventoryItemResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Supplier    string    `json:"supplier"`
	Warehouse   string    `json:"warehouse"`
	DateAdded   time.Time `json:"dateAdded"`
	ExpiryDate  time.Time `json:"expiryDate"`
}

func NewSalesRecordResponse(s domain.SalesRecord) SalesRecordResponse {
	return SalesRecordResponse{ID: s.ID, FirstName: s.FirstName, LastName: s.LastName, Email: s.Email, Age: s.Age, CreatedAt: s.CreatedAt}
}

func NewOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:              o.ID,
		OrderID:         o.OrderID,
		CustomerID:      o.CustomerID,
		OrderDate:       o.OrderDate,
		ShippingDate:    o.ShippingDate,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		TaxAmount:       o.TaxAmount,
		Discount:        o.Discount,
		NetAmount:       o.NetAmount,
		PaymentMethod:   o.PaymentMethod,
		PaymentStatus:   o.PaymentStatus,
		ShippingAddress: o.ShippingAddress,
		BillingAddress:  o.BillingAddress,
		CreatedBy:       o.CreatedBy,
		UpdatedBy:       o.UpdatedBy,
		Notes:           o.Notes,
	}
}

func NewWarehouseResponse(w domain.Warehouse) WarehouseResponse {
	return WarehouseResponse{ID: w.ID, WarehouseID: w.WarehouseID, Name: w.Name, Location: w.Location, Capacity: w.Capacity, CurrentStock: w.CurrentStock}
}

func NewCustomerResponse(c domain.Customer) CustomerResponse {
	return CustomerResponse{ID: c.ID, Name: c.Name, Email: c.Email, Phone: c.Phone, Address: c.Address, CreatedAt: c.CreatedAt}
}

func NewInventoryItemResponse(i domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		Category:    i.Category,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Supplier:    i.Supplier,
		Warehouse:   i.Warehouse,
		DateAdded:   i.DateAdded,
		ExpiryDate:  i.ExpiryDate,
	}
}

// mapAll converts a slice, returning an empty (non-nil) slice for no input.
func mapAll[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func NewSalesListResponse(records []domain.SalesRecord, total int) SalesListResponse {
	return SalesListResponse{Data: mapAll(records, NewSalesRecordResponse), TotalCount: total}
}

func NewOrderResponses(orders []domain.Order) []OrderResponse {
	return mapAll(orders, NewOrderResponse)
}

func NewWarehouseResponses(warehouses []domain.Warehouse) []WarehouseResponse {
	return mapAll(warehouses, NewWarehouseResponse)
}

func NewCustomerResponses(customers []domain.Customer) []CustomerResponse {
	return mapAll(customers, NewCustomerResponse)
}

func NewInventoryResponses(items []domain.InventoryItem) []InventoryItemResponse {
	return mapAll(items, NewInventoryItemResponse)
}
