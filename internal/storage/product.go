package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gnat1923/ecommerce/internal/domain/models"
)

// ProductStorage описывает методы для работы с каталогом товаров.
type ProductStorage interface {
	CreateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) (*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context, active bool) ([]*models.Product, error)
	SetProductActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

const productColumns = "id, name, price, active, created_at"

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	p := &models.Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Active, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) (*models.Product, error) {
	err := tx.QueryRowContext(ctx,
		"INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id, price, active, created_at",
		product.Name, product.Price,
	).Scan(&product.ID, &product.Price, &product.Active, &product.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// GetProductByID возвращает товар независимо от флага active
func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) ListProducts(ctx context.Context, active bool) ([]*models.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+productColumns+" FROM products WHERE active = $1 ORDER BY id", active)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []*models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) SetProductActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error {
	return setActive(ctx, tx, "products", id, active, ErrProductNotFound)
}
