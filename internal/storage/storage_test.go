package storage_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customerCols = []string{"id", "name", "email", "active", "pass_hash", "created_at"}
	productCols  = []string{"id", "name", "price", "active", "created_at"}
	orderCols    = []string{"id", "customer_id", "created_at"}
	itemCols     = []string{"id", "order_id", "product_id", "quantity", "unit_price"}
)

func TestCreateCustomer_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)
	ctx := context.Background()
	now := time.Now()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	// Без пароля в pass_hash уходит NULL
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers (name, email, pass_hash) VALUES ($1, $2, $3) RETURNING id, active, created_at")).
		WithArgs("Ada", "ada@x.com", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "active", "created_at"}).AddRow(1, true, now))

	customer, err := repo.CreateCustomer(ctx, tx, &models.Customer{Name: "Ada", Email: "ada@x.com"})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), customer.ID)
	assert.True(t, customer.Active)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateCustomer_DuplicateEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO customers").
		WithArgs("Ada", "ada@x.com", []byte("hash")).
		WillReturnError(&pq.Error{Code: "23505"})

	customer, err := repo.CreateCustomer(context.Background(), tx, &models.Customer{
		Name: "Ada", Email: "ada@x.com", PassHash: []byte("hash"),
	})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
	assert.Nil(t, customer)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByID_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(customerCols).AddRow(7, "Ada", "ada@x.com", false, nil, now)
	mock.ExpectQuery("SELECT id, name, email, active, pass_hash, created_at FROM customers WHERE id = \\$1").
		WithArgs(int64(7)).WillReturnRows(rows)

	customer, err := repo.GetCustomerByID(context.Background(), 7)
	assert.NoError(t, err)
	assert.Equal(t, "Ada", customer.Name)
	// неактивный покупатель всё равно доступен по id
	assert.False(t, customer.Active)
	assert.False(t, customer.HasCredentials())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByID_NoRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)

	mock.ExpectQuery("FROM customers WHERE id = \\$1").
		WithArgs(int64(2)).WillReturnRows(sqlmock.NewRows(customerCols))

	customer, err := repo.GetCustomerByID(context.Background(), 2)
	assert.ErrorIs(t, err, storage.ErrCustomerNotFound)
	assert.Nil(t, customer)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCustomerByEmail_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)
	rows := sqlmock.NewRows(customerCols).AddRow(3, "Ada", "ada@x.com", true, []byte("hash"), time.Now())
	mock.ExpectQuery("FROM customers WHERE email = \\$1").WithArgs("ada@x.com").WillReturnRows(rows)

	customer, err := repo.GetCustomerByEmail(context.Background(), "ada@x.com")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), customer.ID)
	assert.True(t, customer.HasCredentials())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockCustomerByIDTx_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery("FROM customers WHERE id = \\$1 FOR SHARE").
		WithArgs(int64(99)).WillReturnRows(sqlmock.NewRows(customerCols))

	customer, err := repo.LockCustomerByIDTx(context.Background(), tx, 99)
	assert.ErrorIs(t, err, storage.ErrCustomerNotFound)
	assert.Nil(t, customer)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListCustomers_Inactive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)
	rows := sqlmock.NewRows(customerCols).
		AddRow(1, "Ada", "ada@x.com", false, nil, time.Now()).
		AddRow(4, "Bob", "bob@x.com", false, nil, time.Now())
	mock.ExpectQuery("FROM customers WHERE active = \\$1 ORDER BY id").WithArgs(false).WillReturnRows(rows)

	customers, err := repo.ListCustomers(context.Background(), false)
	assert.NoError(t, err)
	assert.Len(t, customers, 2)
	assert.Equal(t, "Bob", customers[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetCustomerActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewCustomerRepository(db)
	ctx := context.Background()

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	query := regexp.QuoteMeta("UPDATE customers SET active = $1 WHERE id = $2")
	mock.ExpectExec(query).WithArgs(false, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(false, int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WithArgs(true, int64(42)).WillReturnResult(sqlmock.NewResult(0, 0))

	// повторное удаление не считается ошибкой
	assert.NoError(t, repo.SetCustomerActive(ctx, tx, 1, false))
	assert.NoError(t, repo.SetCustomerActive(ctx, tx, 1, false))
	assert.ErrorIs(t, repo.SetCustomerActive(ctx, tx, 42, true), storage.ErrCustomerNotFound)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateProduct_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	price := decimal.RequireFromString("9.99")

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO products (name, price) VALUES ($1, $2) RETURNING id, price, active, created_at")).
		WithArgs("Widget", price).
		WillReturnRows(sqlmock.NewRows([]string{"id", "price", "active", "created_at"}).AddRow(5, "9.99", true, time.Now()))

	product, err := repo.CreateProduct(context.Background(), tx, &models.Product{Name: "Widget", Price: price})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), product.ID)
	assert.Equal(t, "9.99", product.Price.StringFixed(2))
	assert.True(t, product.Active)

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetProductByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)

	mock.ExpectQuery("SELECT id, name, price, active, created_at FROM products WHERE id = \\$1").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(productCols).AddRow(5, "Widget", "9.99", true, time.Now()))
	mock.ExpectQuery("FROM products WHERE id = \\$1").
		WithArgs(int64(6)).
		WillReturnRows(sqlmock.NewRows(productCols))

	product, err := repo.GetProductByID(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, "9.99", product.Price.String())

	product, err = repo.GetProductByID(context.Background(), 6)
	assert.ErrorIs(t, err, storage.ErrProductNotFound)
	assert.Nil(t, product)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListProducts_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewProductRepository(db)
	mock.ExpectQuery("FROM products WHERE active = \\$1").WithArgs(true).WillReturnError(errors.New("db error"))

	products, err := repo.ListProducts(context.Background(), true)
	assert.Error(t, err)
	assert.Nil(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderAndItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	ctx := context.Background()
	price := decimal.RequireFromString("9.99")

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO orders (customer_id) VALUES ($1) RETURNING id, created_at")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(10, time.Now()))
	mock.ExpectQuery("INSERT INTO order_items \\(order_id, product_id, quantity, unit_price\\)").
		WithArgs(int64(10), int64(5), 2, price).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))

	order, err := repo.CreateOrder(ctx, tx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), order.ID)

	item, err := repo.CreateOrderItem(ctx, tx, order.ID, models.StagedItem{
		ProductID: 5, ProductName: "Widget", UnitPrice: price, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), item.ID)
	assert.Equal(t, int64(10), item.OrderID)
	assert.Equal(t, "19.98", item.Subtotal().String())

	mock.ExpectCommit()
	assert.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOrderItem_ForeignKeyViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)

	mock.ExpectQuery("INSERT INTO order_items").WillReturnError(&pq.Error{Code: "23503"})

	item, err := repo.CreateOrderItem(context.Background(), tx, 10, models.StagedItem{ProductID: 404, Quantity: 1})
	assert.Error(t, err)
	assert.True(t, storage.IsForeignKeyViolation(err))
	assert.Nil(t, item)

	mock.ExpectRollback()
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_WithItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectQuery("SELECT id, customer_id, created_at FROM orders WHERE id = \\$1").
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(orderCols).AddRow(10, 1, time.Now()))
	mock.ExpectQuery("FROM order_items WHERE order_id = ANY\\(\\$1\\) ORDER BY id").
		WithArgs(pq.Array([]int64{10})).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(100, 10, 5, 2, "9.99").
			AddRow(101, 10, 5, 1, "9.99"))

	order, err := repo.GetOrderByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.CustomerID)
	assert.Len(t, order.Items, 2)
	assert.Equal(t, "29.97", order.Total().String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrderByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)
	mock.ExpectQuery("FROM orders WHERE id = \\$1").WithArgs(int64(3)).WillReturnRows(sqlmock.NewRows(orderCols))

	order, err := repo.GetOrderByID(context.Background(), 3)
	assert.ErrorIs(t, err, storage.ErrOrderNotFound)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByCustomerID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	mock.ExpectQuery("FROM orders WHERE customer_id = \\$1 ORDER BY id").
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow(10, 1, time.Now()).
			AddRow(11, 1, time.Now()))
	mock.ExpectQuery("FROM order_items").
		WithArgs(pq.Array([]int64{10, 11})).
		WillReturnRows(sqlmock.NewRows(itemCols).
			AddRow(100, 10, 5, 2, "9.99").
			AddRow(101, 11, 6, 1, "1.50"))

	orders, err := repo.ListOrdersByCustomerID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, int64(10), orders[0].ID)
	assert.Equal(t, int64(5), orders[0].Items[0].ProductID)
	assert.Equal(t, int64(6), orders[1].Items[0].ProductID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListOrdersByProductID_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := storage.NewOrderRepository(db)

	// без заказов второй запрос за позициями не выполняется
	mock.ExpectQuery("FROM orders o WHERE EXISTS").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(orderCols))

	orders, err := repo.ListOrdersByProductID(context.Background(), 5)
	assert.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
	assert.NoError(t, mock.ExpectationsWereMet())
}
