package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/comparely/backend/internal/domain"
)

const productColumns = `id, name, description, price, category, brand, image,
	in_stock, stock_quantity, features, specifications, owner_id, created_at, updated_at`

// ProductRepo persists canonical products in Postgres. Features and
// specifications live in JSONB columns.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo creates a product repository
func NewProductRepo(db *sql.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

// List returns all products owned by the given user
func (r *ProductRepo) List(ctx context.Context, ownerID int64) ([]domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE owner_id = $1 ORDER BY id", productColumns)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// ListAll returns every product regardless of owner (admin listing)
func (r *ProductRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products ORDER BY id", productColumns)
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// GetByID returns a single product or domain.ErrProductNotFound
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return p, nil
}

// GetByIDs returns the products matching the given ids; missing ids are
// simply absent from the result
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = ANY($1) ORDER BY id", productColumns)
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Create inserts a product and fills in its generated id
func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	features, specs, err := encodeJSONFields(p)
	if err != nil {
		return err
	}

	err = r.db.QueryRowContext(ctx, `
		INSERT INTO products (name, description, price, category, brand, image,
			in_stock, stock_quantity, features, specifications, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		p.Name, p.Description, p.Price, p.Category, p.Brand, p.Image,
		p.InStock, p.StockQuantity, features, specs, p.OwnerID, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the full record
func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	features, specs, err := encodeJSONFields(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE products SET name = $1, description = $2, price = $3, category = $4,
			brand = $5, image = $6, in_stock = $7, stock_quantity = $8,
			features = $9, specifications = $10, updated_at = $11
		WHERE id = $12`,
		p.Name, p.Description, p.Price, p.Category, p.Brand, p.Image,
		p.InStock, p.StockQuantity, features, specs, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	return requireRow(result)
}

// UpdatePrice changes only the price of a product
func (r *ProductRepo) UpdatePrice(ctx context.Context, id int64, price float64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE products SET price = $1, updated_at = NOW() WHERE id = $2", price, id)
	if err != nil {
		return fmt.Errorf("failed to update price: %w", err)
	}
	return requireRow(result)
}

// Delete removes a product
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

func encodeJSONFields(p *domain.Product) ([]byte, []byte, error) {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	specs := p.Specifications
	if specs == nil {
		specs = map[string]string{}
	}

	encodedFeatures, err := json.Marshal(features)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode features: %w", err)
	}
	encodedSpecs, err := json.Marshal(specs)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode specifications: %w", err)
	}
	return encodedFeatures, encodedSpecs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	var features, specs []byte

	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Category, &p.Brand,
		&p.Image, &p.InStock, &p.StockQuantity, &features, &specs,
		&p.OwnerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	if err := json.Unmarshal(specs, &p.Specifications); err != nil {
		return nil, fmt.Errorf("failed to decode specifications: %w", err)
	}
	return &p, nil
}

func scanProducts(rows *sql.Rows) ([]domain.Product, error) {
	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}
