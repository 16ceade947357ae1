package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/plant-shop/internal/command"
	"github.com/example/plant-shop/internal/infrastructure/store"
	"github.com/example/plant-shop/internal/query"
	"github.com/example/plant-shop/internal/shopapi"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	handlers := NewHandlers(command.NewHandler(st, nil, nil, nil), query.NewHandler(st, nil, nil), nil)
	srv := httptest.NewServer(NewRouter(handlers, nil))
	t.Cleanup(srv.Close)
	return srv, st
}

func newTestClient(t *testing.T, srv *httptest.Server) *shopapi.Client {
	t.Helper()
	client, err := shopapi.NewClient(srv.URL+"/api/", shopapi.WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var payload map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	return resp, payload
}

func seed(t *testing.T, st *store.MemoryStore, name, price string, stock int) *shopapi.Product {
	t.Helper()
	p, err := st.CreateProduct(context.Background(), shopapi.ProductInput{
		Name:        name,
		Description: name,
		Price:       decimal.RequireFromString(price),
		Stock:       stock,
	})
	require.NoError(t, err)
	return p
}

// ============================================
// Product Handler Tests
// ============================================

func TestHandlers_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, payload := do(t, srv, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", payload["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestHandlers_ProductLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newTestClient(t, srv)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, shopapi.ProductInput{
		Name:        "Fern",
		Description: "Leafy",
		Price:       decimal.RequireFromString("12.50"),
		Stock:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, "Fern", created.Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(created.Price))

	in := created.Input()
	in.Stock = 9
	updated, err := client.UpdateProduct(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Stock)

	got, err := client.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Stock)

	list, err := client.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))
	_, err = client.GetProduct(ctx, created.ID)
	assert.True(t, shopapi.IsNotFound(err))
	assert.EqualError(t, err, "Not found.")
}

func TestHandlers_CreateProduct_DefaultStock(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, payload := do(t, srv, http.MethodPost, "/api/products/create/",
		`{"name":"Cactus","description":"Spiky","price":"5.50"}`)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(command.DefaultStock), payload["stock"])
}

func TestHandlers_CreateProduct_Invalid(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, payload := do(t, srv, http.MethodPost, "/api/products/create/", `{"name":"Cactus","description":"Spiky"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "price: This field is required.", payload["error"])
}

func TestHandlers_InvalidJSON(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, payload := do(t, srv, http.MethodPost, "/api/orders/create/", `{"items":`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON body", payload["error"])
}

func TestHandlers_NonNumericID(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, payload := do(t, srv, http.MethodGet, "/api/products/abc/", "")

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not found.", payload["error"])
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, _ := do(t, srv, http.MethodPost, "/api/products/", "{}")

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// ============================================
// Order Handler Tests
// ============================================

func TestHandlers_PlaceOrder(t *testing.T) {
	srv, st := newTestServer(t)
	client := newTestClient(t, srv)
	fern := seed(t, st, "Fern", "10.00", 5)
	cactus := seed(t, st, "Cactus", "5.50", 3)

	order, err := client.CreateOrder(context.Background(), shopapi.OrderSubmission{
		Items: []shopapi.SubmissionItem{
			{ProductID: fern.ID, Quantity: 2},
			{ProductID: cactus.ID, Quantity: 1},
		},
		CustomerName:    "Ali",
		CustomerPhone:   "0100",
		CustomerAddress: "Cairo",
	})

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.50").Equal(order.TotalPrice))
	assert.Equal(t, "pending", order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Fern", order.Items[0].Product.Name)

	p, err := client.GetProduct(context.Background(), fern.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, p.Stock)
}

func TestHandlers_PlaceOrder_Errors(t *testing.T) {
	srv, st := newTestServer(t)
	cactus := seed(t, st, "Cactus", "5.50", 1)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "no items",
			body:    `{"items":[],"customer_name":"Ali","customer_phone":"0100","customer_address":"Cairo"}`,
			message: "No items provided",
		},
		{
			name:    "missing customer",
			body:    `{"items":[{"product_id":1,"quantity":1}]}`,
			message: "Customer information is required (name, phone, address)",
		},
		{
			name:    "unknown product",
			body:    `{"items":[{"product_id":99,"quantity":1}],"customer_name":"Ali","customer_phone":"0100","customer_address":"Cairo"}`,
			message: "Product 99 does not exist",
		},
		{
			name:    "insufficient stock",
			body:    `{"items":[{"product_id":1,"quantity":3}],"customer_name":"Ali","customer_phone":"0100","customer_address":"Cairo"}`,
			message: "Insufficient stock for Cactus. Available: 1, Requested: 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, payload := do(t, srv, http.MethodPost, "/api/orders/create/", tt.body)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.message, payload["error"])
		})
	}

	p, err := st.GetProduct(context.Background(), cactus.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, p.Stock)
}

func TestHandlers_OrderStatusAndDelete(t *testing.T) {
	srv, st := newTestServer(t)
	client := newTestClient(t, srv)
	ctx := context.Background()
	fern := seed(t, st, "Fern", "1", 5)
	order, err := client.CreateOrder(ctx, shopapi.OrderSubmission{
		Items:           []shopapi.SubmissionItem{{ProductID: fern.ID, Quantity: 1}},
		CustomerName:    "Ali",
		CustomerPhone:   "0100",
		CustomerAddress: "Cairo",
	})
	require.NoError(t, err)

	updated, err := client.UpdateOrderStatus(ctx, order.ID, "completed")
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)

	_, err = client.UpdateOrderStatus(ctx, order.ID, "shipped")
	var reqErr *shopapi.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusBadRequest, reqErr.StatusCode)

	orders, err := client.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "completed", orders[0].Status)

	require.NoError(t, client.DeleteOrder(ctx, order.ID))
	err = client.DeleteOrder(ctx, order.ID)
	assert.True(t, shopapi.IsNotFound(err))
}

func TestHandlers_ListOrders_EmptyIsArray(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := srv.Client().Get(srv.URL + "/api/orders/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var orders []shopapi.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}
