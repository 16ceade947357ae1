package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
)

type memoryOrder struct {
	order shopapi.Order
	items []memoryItem
}

type memoryItem struct {
	productID int64
	quantity  int
}

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps everything in process memory. It is used when no
// database is configured and in tests.
type MemoryStore struct {
	mu            sync.RWMutex
	products      map[int64]shopapi.Product
	orders        map[int64]*memoryOrder
	nextProductID int64
	nextOrderID   int64
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:      make(map[int64]shopapi.Product),
		orders:        make(map[int64]*memoryOrder),
		nextProductID: 1,
		nextOrderID:   1,
		now:           time.Now,
	}
}

func (s *MemoryStore) ListProducts(ctx context.Context) ([]shopapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shopapi.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetProduct(ctx context.Context, id int64) (*shopapi.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) CreateProduct(ctx context.Context, in shopapi.ProductInput) (*shopapi.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := productFromInput(s.nextProductID, in)
	s.nextProductID++
	s.products[p.ID] = p
	return &p, nil
}

func (s *MemoryStore) UpdateProduct(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return nil, ErrNotFound
	}
	p := productFromInput(id, in)
	s.products[id] = p
	return &p, nil
}

// DeleteProduct also removes the product's order lines.
func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return ErrNotFound
	}
	delete(s.products, id)
	for _, o := range s.orders {
		o.items = slices.DeleteFunc(o.items, func(it memoryItem) bool { return it.productID == id })
	}
	return nil
}

func (s *MemoryStore) ListOrders(ctx context.Context) ([]shopapi.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]shopapi.Order, 0, len(s.orders))
	for _, o := range s.orders {
		out = append(out, s.render(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetOrder(ctx context.Context, id int64) (*shopapi.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := s.render(o)
	return &out, nil
}

func (s *MemoryStore) PlaceOrder(ctx context.Context, sub shopapi.OrderSubmission) (*shopapi.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	remaining, total, err := reserve(sub.Items, s.products)
	if err != nil {
		return nil, err
	}

	items := make([]memoryItem, 0, len(sub.Items))
	for _, it := range sub.Items {
		items = append(items, memoryItem{productID: it.ProductID, quantity: it.Quantity})
	}
	for id, left := range remaining {
		p := s.products[id]
		p.Stock = left
		s.products[id] = p
	}

	o := &memoryOrder{
		order: shopapi.Order{
			ID:              s.nextOrderID,
			CreatedAt:       s.now().UTC(),
			TotalPrice:      total,
			CustomerName:    sub.CustomerName,
			CustomerPhone:   sub.CustomerPhone,
			CustomerAddress: sub.CustomerAddress,
			Status:          "pending",
		},
		items: items,
	}
	s.nextOrderID++
	s.orders[o.order.ID] = o

	out := s.render(o)
	return &out, nil
}

func (s *MemoryStore) UpdateOrderStatus(ctx context.Context, id int64, status string) (*shopapi.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	o.order.Status = status
	out := s.render(o)
	return &out, nil
}

func (s *MemoryStore) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[id]; !ok {
		return ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

// render nests the current product records into the order, like the
// database join does.
func (s *MemoryStore) render(o *memoryOrder) shopapi.Order {
	out := o.order
	out.Items = make([]shopapi.OrderItem, 0, len(o.items))
	for _, it := range o.items {
		out.Items = append(out.Items, shopapi.OrderItem{
			Product:  s.products[it.productID],
			Quantity: it.quantity,
		})
	}
	return out
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
