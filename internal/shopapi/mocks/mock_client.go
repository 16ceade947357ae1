package mocks

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
)

// MockClient is an in-memory collaborator for testing. It keeps products and
// orders, decrements stock on order creation, and records every call.
type MockClient struct {
	mu       sync.Mutex
	products map[int64]shopapi.Product
	order    []int64 // product ids in insertion order
	orders   map[int64]shopapi.Order
	nextID   int64
	now      func() time.Time

	// For tracking calls in tests
	Calls []Call

	// Errors returned by the named method (e.g. "CreateOrder") instead of
	// performing it. The call is still recorded.
	Errs map[string]error

	// BeforeCreateOrder runs before an order is placed; tests use it to
	// simulate a competing shopper.
	BeforeCreateOrder func()
}

// Call records one method invocation
type Call struct {
	Method string
	Args   []any
}

// NewMockClient creates a new MockClient
func NewMockClient() *MockClient {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	return &MockClient{
		products: make(map[int64]shopapi.Product),
		orders:   make(map[int64]shopapi.Order),
		nextID:   1,
		Errs:     make(map[string]error),
		now: func() time.Time {
			tick++
			return start.Add(time.Duration(tick) * time.Minute)
		},
	}
}

// AddProduct seeds a product and returns its id.
func (m *MockClient) AddProduct(name string, price string, stock int) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.products[id] = shopapi.Product{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	}
	m.order = append(m.order, id)
	return id
}

// SetOrder seeds an order as-is.
func (m *MockClient) SetOrder(o shopapi.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[o.ID] = o
}

// Product returns the stored product.
func (m *MockClient) Product(id int64) (shopapi.Product, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	return p, ok
}

// Order returns the stored order.
func (m *MockClient) Order(id int64) (shopapi.Order, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	return o, ok
}

// CallCount returns how many times method was called.
func (m *MockClient) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Reset clears recorded calls and injected errors
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
	m.Errs = make(map[string]error)
	m.BeforeCreateOrder = nil
}

func (m *MockClient) record(method string, args ...any) error {
	m.Calls = append(m.Calls, Call{Method: method, Args: args})
	return m.Errs[method]
}

func (m *MockClient) ListProducts(ctx context.Context) ([]shopapi.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListProducts"); err != nil {
		return nil, err
	}
	out := make([]shopapi.Product, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.products[id])
	}
	return out, nil
}

func (m *MockClient) GetProduct(ctx context.Context, id int64) (*shopapi.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("GetProduct", id); err != nil {
		return nil, err
	}
	p, ok := m.products[id]
	if !ok {
		return nil, notFound("fetch product")
	}
	return &p, nil
}

func (m *MockClient) CreateProduct(ctx context.Context, in shopapi.ProductInput) (*shopapi.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateProduct", in); err != nil {
		return nil, err
	}
	id := m.nextID
	m.nextID++
	p := productFromInput(id, in)
	m.products[id] = p
	m.order = append(m.order, id)
	return &p, nil
}

func (m *MockClient) UpdateProduct(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateProduct", id, in); err != nil {
		return nil, err
	}
	if _, ok := m.products[id]; !ok {
		return nil, notFound("update product")
	}
	p := productFromInput(id, in)
	m.products[id] = p
	return &p, nil
}

func (m *MockClient) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteProduct", id); err != nil {
		return err
	}
	if _, ok := m.products[id]; !ok {
		return notFound("delete product")
	}
	delete(m.products, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockClient) ListOrders(ctx context.Context) ([]shopapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("ListOrders"); err != nil {
		return nil, err
	}
	out := make([]shopapi.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	// Oldest first, so callers have to do their own ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *MockClient) CreateOrder(ctx context.Context, sub shopapi.OrderSubmission) (*shopapi.Order, error) {
	if m.BeforeCreateOrder != nil {
		m.BeforeCreateOrder()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("CreateOrder", sub); err != nil {
		return nil, err
	}
	if len(sub.Items) == 0 {
		return nil, badRequest("No items provided")
	}

	items := make([]shopapi.OrderItem, 0, len(sub.Items))
	total := decimal.Zero
	for _, it := range sub.Items {
		p, ok := m.products[it.ProductID]
		if !ok {
			return nil, badRequest(fmt.Sprintf("Product %d does not exist", it.ProductID))
		}
		if p.Stock < it.Quantity {
			return nil, badRequest(fmt.Sprintf("Insufficient stock for %s. Available: %d, Requested: %d", p.Name, p.Stock, it.Quantity))
		}
	}
	for _, it := range sub.Items {
		p := m.products[it.ProductID]
		p.Stock -= it.Quantity
		m.products[it.ProductID] = p
		items = append(items, shopapi.OrderItem{Product: p, Quantity: it.Quantity})
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	id := m.nextID
	m.nextID++
	o := shopapi.Order{
		ID:              id,
		CreatedAt:       m.now(),
		TotalPrice:      total,
		CustomerName:    sub.CustomerName,
		CustomerPhone:   sub.CustomerPhone,
		CustomerAddress: sub.CustomerAddress,
		Status:          "pending",
		Items:           items,
	}
	m.orders[id] = o
	return &o, nil
}

func (m *MockClient) UpdateOrderStatus(ctx context.Context, id int64, status string) (*shopapi.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("UpdateOrderStatus", id, status); err != nil {
		return nil, err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, notFound("update order")
	}
	o.Status = status
	m.orders[id] = o
	return &o, nil
}

func (m *MockClient) DeleteOrder(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("DeleteOrder", id); err != nil {
		return err
	}
	if _, ok := m.orders[id]; !ok {
		return notFound("delete order")
	}
	delete(m.orders, id)
	return nil
}

func productFromInput(id int64, in shopapi.ProductInput) shopapi.Product {
	return shopapi.Product{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		Category:    in.Category,
		Image:       in.Image,
	}
}

func notFound(op string) error {
	return &shopapi.RequestError{Op: op, StatusCode: http.StatusNotFound, Message: "Not found."}
}

func badRequest(msg string) error {
	return &shopapi.RequestError{Op: "create order", StatusCode: http.StatusBadRequest, Message: msg}
}
