package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// CatalogService управляет покупателями и товарами и их мягким удалением.
type CatalogService interface {
	CreateCustomer(ctx context.Context, name, email, password string) (*models.Customer, error)
	CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*models.Product, error)
	GetCustomer(ctx context.Context, id int64) (*models.Customer, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	// ListCustomers при active=false возвращает только мягко удалённых.
	ListCustomers(ctx context.Context, active bool) ([]*models.Customer, error)
	ListProducts(ctx context.Context, active bool) ([]*models.Product, error)
	SoftDelete(ctx context.Context, kind models.EntityKind, id int64) error
	Restore(ctx context.Context, kind models.EntityKind, id int64) error
}

// maxPrice - первая сумма, не влезающая в NUMERIC(12,2)
var maxPrice = decimal.New(1, 10)

type catalogService struct {
	log          *slog.Logger
	db           *sql.DB
	customerRepo storage.CustomerStorage
	productRepo  storage.ProductStorage
	validate     *validator.Validate
}

func NewCatalogService(log *slog.Logger, db *sql.DB, customerRepo storage.CustomerStorage, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{
		log:          log,
		db:           db,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		validate:     validator.New(),
	}
}

// CreateCustomer создаёт покупателя. Пароль необязателен: без него покупатель не сможет войти,
// но заказы на него оформлять можно.
func (s *catalogService) CreateCustomer(ctx context.Context, name, email, password string) (*models.Customer, error) {
	const op = "service.CatalogService.CreateCustomer"
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	logger := s.log.With(slog.String("op", op), slog.String("email", email))

	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, ErrValidation)
	}
	if err := s.validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("%s: %w: a valid email is required", op, ErrValidation)
	}

	customer := &models.Customer{Name: name, Email: email}
	if password != "" {
		passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", slog.Any("error", err))
			return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
		}
		customer.PassHash = passHash
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	customer, err = s.customerRepo.CreateCustomer(ctx, tx, customer)
	if err != nil {
		rollback(tx, logger)
		if errors.Is(err, storage.ErrEmailTaken) {
			logger.Warn("email already registered")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrDuplicate, err)
		}
		logger.Error("failed to create customer", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	logger.Info("customer created", slog.Int64("customerID", customer.ID))
	return customer, nil
}

func (s *catalogService) CreateProduct(ctx context.Context, name string, price decimal.Decimal) (*models.Product, error) {
	const op = "service.CatalogService.CreateProduct"
	name = strings.TrimSpace(name)
	logger := s.log.With(slog.String("op", op), slog.String("name", name))

	if name == "" {
		return nil, fmt.Errorf("%s: %w: name is required", op, ErrValidation)
	}
	if !price.IsPositive() {
		return nil, fmt.Errorf("%s: %w: price must be positive", op, ErrValidation)
	}
	// колонка NUMERIC(12,2): лишние знаки округлились бы молча, большие суммы не поместятся
	if !price.Equal(price.Round(2)) {
		return nil, fmt.Errorf("%s: %w: price must have at most two decimal places", op, ErrValidation)
	}
	if price.GreaterThanOrEqual(maxPrice) {
		return nil, fmt.Errorf("%s: %w: price must be less than %s", op, ErrValidation, maxPrice)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	product, err := s.productRepo.CreateProduct(ctx, tx, &models.Product{Name: name, Price: price})
	if err != nil {
		rollback(tx, logger)
		logger.Error("failed to create product", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	logger.Info("product created", slog.Int64("productID", product.ID))
	return product, nil
}

func (s *catalogService) GetCustomer(ctx context.Context, id int64) (*models.Customer, error) {
	const op = "service.CatalogService.GetCustomer"
	customer, err := s.customerRepo.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(op, err)
	}
	return customer, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, wrapLookupErr(op, err)
	}
	return product, nil
}

func (s *catalogService) ListCustomers(ctx context.Context, active bool) ([]*models.Customer, error) {
	const op = "service.CatalogService.ListCustomers"
	customers, err := s.customerRepo.ListCustomers(ctx, active)
	if err != nil {
		s.log.Error("failed to list customers", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return customers, nil
}

func (s *catalogService) ListProducts(ctx context.Context, active bool) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"
	products, err := s.productRepo.ListProducts(ctx, active)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) SoftDelete(ctx context.Context, kind models.EntityKind, id int64) error {
	return s.setActive(ctx, "service.CatalogService.SoftDelete", kind, id, false)
}

func (s *catalogService) Restore(ctx context.Context, kind models.EntityKind, id int64) error {
	return s.setActive(ctx, "service.CatalogService.Restore", kind, id, true)
}

func (s *catalogService) setActive(ctx context.Context, op string, kind models.EntityKind, id int64, active bool) error {
	logger := s.log.With(slog.String("op", op), slog.String("kind", string(kind)), slog.Int64("id", id))

	var update func(context.Context, *sql.Tx, int64, bool) error
	switch kind {
	case models.KindCustomer:
		update = s.customerRepo.SetCustomerActive
	case models.KindProduct:
		update = s.productRepo.SetProductActive
	default:
		return fmt.Errorf("%s: %w: unknown entity kind %q", op, ErrValidation, kind)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	if err := update(ctx, tx, id, active); err != nil {
		rollback(tx, logger)
		if isNotFound(err) {
			logger.Warn("entity not found")
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		}
		logger.Error("failed to update active flag", slog.Any("error", err))
		return fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return fmt.Errorf("%s: %w: %w", op, ErrTransaction, err)
	}

	logger.Info("active flag updated", slog.Bool("active", active))
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrCustomerNotFound) ||
		errors.Is(err, storage.ErrProductNotFound) ||
		errors.Is(err, storage.ErrOrderNotFound)
}

func wrapLookupErr(op string, err error) error {
	if isNotFound(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
