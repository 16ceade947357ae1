package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/example/plant-shop/internal/shopapi"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	productColumns = "id, name, description, price, stock, category, image"
	orderColumns   = "id, created_at, total_price, customer_name, customer_phone, customer_address, status"
)

// PostgreSQL error codes mapped to ErrInvalidValue.
const (
	pqCheckViolation    = "23514"
	pqNumericOutOfRange = "22003"
	pqStringTooLong     = "22001"
)

var _ Store = (*PostgresStore)(nil)

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// ConnectPostgres establishes a connection to PostgreSQL
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate applies the embedded schema migrations.
func Migrate(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{
		MigrationsTable: "shop_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (shopapi.Product, error) {
	var p shopapi.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image)
	return p, err
}

func scanOrder(row rowScanner) (shopapi.Order, error) {
	var o shopapi.Order
	err := row.Scan(&o.ID, &o.CreatedAt, &o.TotalPrice, &o.CustomerName, &o.CustomerPhone, &o.CustomerAddress, &o.Status)
	o.Items = []shopapi.OrderItem{}
	return o, err
}

// mapError turns constraint violations into ErrInvalidValue and wraps
// everything else with op.
func mapError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqCheckViolation, pqNumericOutOfRange, pqStringTooLong:
			return fmt.Errorf("%w: %s", ErrInvalidValue, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]shopapi.Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := []shopapi.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (*shopapi.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query product by id: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, in shopapi.ProductInput) (*shopapi.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`INSERT INTO products (name, description, price, stock, category, image)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+productColumns,
		in.Name, in.Description, in.Price, in.Stock, in.Category, in.Image,
	))
	if err != nil {
		return nil, mapError("insert product", err)
	}
	return &p, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, in shopapi.ProductInput) (*shopapi.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx,
		`UPDATE products
		 SET name = $2, description = $3, price = $4, stock = $5, category = $6, image = $7, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+productColumns,
		id, in.Name, in.Description, in.Price, in.Stock, in.Category, in.Image,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, mapError("update product", err)
	}
	return &p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "DELETE FROM products WHERE id = $1", id)
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]shopapi.Order, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+orderColumns+" FROM orders ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	orders := []shopapi.Order{}
	ids := []int64{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order row: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := s.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		if lines, ok := items[orders[i].ID]; ok {
			orders[i].Items = lines
		}
	}
	return orders, nil
}

func (s *PostgresStore) GetOrder(ctx context.Context, id int64) (*shopapi.Order, error) {
	o, err := scanOrder(s.db.QueryRowContext(ctx, "SELECT "+orderColumns+" FROM orders WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order by id: %w", err)
	}

	items, err := s.loadItems(ctx, []int64{id})
	if err != nil {
		return nil, err
	}
	if lines, ok := items[id]; ok {
		o.Items = lines
	}
	return &o, nil
}

// loadItems returns the lines of the given orders with their products.
func (s *PostgresStore) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]shopapi.OrderItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT oi.order_id, oi.quantity, p.id, p.name, p.description, p.price, p.stock, p.category, p.image
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = ANY($1)
		 ORDER BY oi.id`,
		pq.Array(orderIDs),
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]shopapi.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var it shopapi.OrderItem
		p := &it.Product
		if err := rows.Scan(&orderID, &it.Quantity, &p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Image); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items[orderID] = append(items[orderID], it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// PlaceOrder locks every referenced product row, in id order, before
// checking stock, so concurrent orders for the same product serialise and
// cannot oversell.
func (s *PostgresStore) PlaceOrder(ctx context.Context, sub shopapi.OrderSubmission) (*shopapi.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ids := productIDs(sub.Items)
	locked := make(map[int64]shopapi.Product, len(ids))
	for _, id := range ids {
		p, err := scanProduct(tx.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("lock product %d: %w", id, err)
		}
		locked[id] = p
	}

	remaining, total, err := reserve(sub.Items, locked)
	if err != nil {
		return nil, err
	}

	var orderID int64
	if err := tx.QueryRowContext(ctx,
		`INSERT INTO orders (total_price, customer_name, customer_phone, customer_address, status)
		 VALUES ($1, $2, $3, $4, 'pending')
		 RETURNING id`,
		total, sub.CustomerName, sub.CustomerPhone, sub.CustomerAddress,
	).Scan(&orderID); err != nil {
		return nil, mapError("insert order", err)
	}

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1",
			id, remaining[id],
		); err != nil {
			return nil, mapError("decrement stock", err)
		}
	}

	for _, it := range sub.Items {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO order_items (order_id, product_id, quantity) VALUES ($1, $2, $3)",
			orderID, it.ProductID, it.Quantity,
		); err != nil {
			return nil, mapError("insert order item", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order: %w", err)
	}
	return s.GetOrder(ctx, orderID)
}

func (s *PostgresStore) UpdateOrderStatus(ctx context.Context, id int64, status string) (*shopapi.Order, error) {
	res, err := s.db.ExecContext(ctx, "UPDATE orders SET status = $2 WHERE id = $1", id, status)
	if err != nil {
		return nil, mapError("update order status", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return s.GetOrder(ctx, id)
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, "DELETE FROM orders WHERE id = $1", id)
}

func (s *PostgresStore) deleteByID(ctx context.Context, query string, id int64) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// productIDs returns the distinct product ids of items in ascending order.
func productIDs(items []shopapi.SubmissionItem) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, it := range items {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
