package service_test

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/gnat1923/ecommerce/internal/domain/models"
	"github.com/gnat1923/ecommerce/internal/storage"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

type fakeCustomerRepo struct {
	customers map[int64]*models.Customer
	nextID    int64
}

var _ storage.CustomerStorage = (*fakeCustomerRepo)(nil)

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: make(map[int64]*models.Customer)}
}

func (f *fakeCustomerRepo) CreateCustomer(ctx context.Context, tx *sql.Tx, customer *models.Customer) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == customer.Email {
			return nil, storage.ErrEmailTaken
		}
	}
	f.nextID++
	customer.ID = f.nextID
	customer.Active = true
	customer.CreatedAt = time.Now()
	f.customers[customer.ID] = customer
	return customer, nil
}

func (f *fakeCustomerRepo) GetCustomerByID(ctx context.Context, id int64) (*models.Customer, error) {
	c, ok := f.customers[id]
	if !ok {
		return nil, storage.ErrCustomerNotFound
	}
	return c, nil
}

func (f *fakeCustomerRepo) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range f.customers {
		if c.Email == email {
			return c, nil
		}
	}
	return nil, storage.ErrCustomerNotFound
}

func (f *fakeCustomerRepo) LockCustomerByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Customer, error) {
	return f.GetCustomerByID(ctx, id)
}

func (f *fakeCustomerRepo) ListCustomers(ctx context.Context, active bool) ([]*models.Customer, error) {
	out := []*models.Customer{}
	for _, c := range f.customers {
		if c.Active == active {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCustomerRepo) SetCustomerActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error {
	c, ok := f.customers[id]
	if !ok {
		return storage.ErrCustomerNotFound
	}
	c.Active = active
	return nil
}

type fakeProductRepo struct {
	products map[int64]*models.Product
	nextID   int64
}

var _ storage.ProductStorage = (*fakeProductRepo)(nil)

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[int64]*models.Product)}
}

func (f *fakeProductRepo) CreateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) (*models.Product, error) {
	f.nextID++
	product.ID = f.nextID
	product.Active = true
	product.CreatedAt = time.Now()
	f.products[product.ID] = product
	return product, nil
}

func (f *fakeProductRepo) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, storage.ErrProductNotFound
	}
	// копия, чтобы изменение цены в тесте не меняло уже выданные значения
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) ListProducts(ctx context.Context, active bool) ([]*models.Product, error) {
	out := []*models.Product{}
	for _, p := range f.products {
		if p.Active == active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProductRepo) SetProductActive(ctx context.Context, tx *sql.Tx, id int64, active bool) error {
	p, ok := f.products[id]
	if !ok {
		return storage.ErrProductNotFound
	}
	p.Active = active
	return nil
}

type fakeOrderRepo struct {
	orders     []*models.Order
	nextID     int64
	nextItemID int64
}

var _ storage.OrderStorage = (*fakeOrderRepo)(nil)

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{}
}

func (f *fakeOrderRepo) CreateOrder(ctx context.Context, tx *sql.Tx, customerID int64) (*models.Order, error) {
	f.nextID++
	order := &models.Order{ID: f.nextID, CustomerID: customerID, CreatedAt: time.Now()}
	f.orders = append(f.orders, order)
	return &models.Order{ID: order.ID, CustomerID: customerID, CreatedAt: order.CreatedAt}, nil
}

func (f *fakeOrderRepo) CreateOrderItem(ctx context.Context, tx *sql.Tx, orderID int64, item models.StagedItem) (*models.OrderItem, error) {
	f.nextItemID++
	orderItem := models.OrderItem{
		ID:        f.nextItemID,
		OrderID:   orderID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
	}
	for _, o := range f.orders {
		if o.ID == orderID {
			o.Items = append(o.Items, orderItem)
		}
	}
	return &orderItem, nil
}

func (f *fakeOrderRepo) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, storage.ErrOrderNotFound
}

func (f *fakeOrderRepo) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return append([]*models.Order{}, f.orders...), nil
}

func (f *fakeOrderRepo) ListOrdersByCustomerID(ctx context.Context, customerID int64) ([]*models.Order, error) {
	out := []*models.Order{}
	for _, o := range f.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListOrdersByProductID(ctx context.Context, productID int64) ([]*models.Order, error) {
	out := []*models.Order{}
	for _, o := range f.orders {
		for _, item := range o.Items {
			if item.ProductID == productID {
				out = append(out, o)
				break
			}
		}
	}
	return out, nil
}
