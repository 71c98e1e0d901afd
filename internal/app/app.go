package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gnat1923/ecommerce/internal/cart"
	"github.com/gnat1923/ecommerce/internal/config"
	"github.com/gnat1923/ecommerce/internal/service"
	"github.com/gnat1923/ecommerce/internal/storage"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	Logger *slog.Logger
	DB     *sql.DB
	Redis  *redis.Client // nil, если корзины хранятся в памяти
	Carts  cart.Store
}

// NewApp создаёт новый экземпляр App
func NewApp(log *slog.Logger, cfg *config.Config) (*App, error) {
	// реализуем подключение к БД через DSN
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	app := &App{
		Config: cfg,
		Logger: log,
		DB:     db,
	}

	var redisClient redis.Cmdable
	if cfg.Cart.Backend == config.CartBackendRedis {
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, errors.Wrap(err, "failed to ping redis")
		}
		redisClient = app.Redis
	}

	app.Carts, err = NewCartStore(cfg.Cart, redisClient)
	if err != nil {
		app.Close()
		return nil, err
	}
	log.Info("cart store ready", slog.String("backend", cfg.Cart.Backend))

	return app, nil
}

// NewCartStore выбирает хранилище корзин по конфигу
func NewCartStore(cfg config.CartConfig, client redis.Cmdable) (cart.Store, error) {
	switch cfg.Backend {
	case config.CartBackendMemory, "":
		return cart.NewMemoryStore(cfg.TTL), nil
	case config.CartBackendRedis:
		if client == nil {
			return nil, errors.New("redis cart backend requires a redis client")
		}
		return cart.NewRedisStore(client, "", cfg.TTL), nil
	default:
		return nil, errors.Errorf("unknown cart backend %q", cfg.Backend)
	}
}

// Handler собирает слои хранения, сервисы и роутер
func (a *App) Handler() http.Handler {
	// реализация слоев по работе с БД по каждому направлению
	customerRepo := storage.NewCustomerRepository(a.DB)
	productRepo := storage.NewProductRepository(a.DB)
	orderRepo := storage.NewOrderRepository(a.DB)

	tokenTTL := time.Duration(a.Config.JWT.TokenTTL) * time.Minute
	svc := Services{
		Auth:    service.NewAuthService(a.Logger, customerRepo, a.Config.JWT.Secret, tokenTTL),
		Catalog: service.NewCatalogService(a.Logger, a.DB, customerRepo, productRepo),
		Cart:    service.NewCartService(a.Logger, a.Carts, productRepo),
		Orders:  service.NewOrderService(a.Logger, a.DB, customerRepo, productRepo, orderRepo, a.Carts),
	}
	return NewRouter(a.Logger, svc, a.Config.JWT.Secret, a.Config.Cart.TTL)
}

func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("failed to close redis client", slog.Any("error", err))
		}
	}
	if err := a.DB.Close(); err != nil {
		a.Logger.Error("failed to close database", slog.Any("error", err))
	}
}
