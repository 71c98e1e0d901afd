package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gnat1923/ecommerce/internal/domain/models"
)

// CustomerStorage описывает методы для работы с таблицей покупателей.
type CustomerStorage interface {
	CreateCustomer(ctx context.Context, tx *sql.Tx, customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	// LockCustomerByIDTx читает покупателя внутри транзакции и не даёт удалить его до коммита.
	LockCustomerByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Customer, error)
	ListCustomers(ctx context.Context, active bool) ([]*models.Customer, error)
	SetCustomerActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error
}

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) CustomerStorage {
	return &customerRepository{db: db}
}

const customerColumns = "id, name, email, active, pass_hash, created_at"

func scanCustomer(row interface{ Scan(...any) error }) (*models.Customer, error) {
	c := &models.Customer{}
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Active, &c.PassHash, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) CreateCustomer(ctx context.Context, tx *sql.Tx, customer *models.Customer) (*models.Customer, error) {
	var passHash any
	if customer.HasCredentials() {
		passHash = customer.PassHash
	}
	err := tx.QueryRowContext(ctx,
		"INSERT INTO customers (name, email, pass_hash) VALUES ($1, $2, $3) RETURNING id, active, created_at",
		customer.Name, customer.Email, passHash,
	).Scan(&customer.ID, &customer.Active, &customer.CreatedAt)
	if err != nil {
		if isPQCode(err, pqUniqueViolation) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (r *customerRepository) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1", id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE email = $1", email)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) LockCustomerByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Customer, error) {
	row := tx.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customers WHERE id = $1 FOR SHARE", id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) ListCustomers(ctx context.Context, active bool) ([]*models.Customer, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE active = $1 ORDER BY id", active)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []*models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *customerRepository) SetCustomerActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error {
	return setActive(ctx, tx, "customers", id, active, ErrCustomerNotFound)
}
