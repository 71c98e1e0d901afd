package app_test

import (
	"testing"
	"time"

	"github.com/gnat1923/ecommerce/internal/app"
	"github.com/gnat1923/ecommerce/internal/cart"
	"github.com/gnat1923/ecommerce/internal/config"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCartStore(t *testing.T) {
	store, err := app.NewCartStore(config.CartConfig{Backend: config.CartBackendMemory, TTL: time.Hour}, nil)
	require.NoError(t, err)
	assert.IsType(t, &cart.MemoryStore{}, store)

	client, _ := redismock.NewClientMock()
	store, err = app.NewCartStore(config.CartConfig{Backend: config.CartBackendRedis, TTL: time.Hour}, client)
	require.NoError(t, err)
	assert.IsType(t, &cart.RedisStore{}, store)
}

func TestNewCartStore_Errors(t *testing.T) {
	_, err := app.NewCartStore(config.CartConfig{Backend: config.CartBackendRedis}, nil)
	assert.Error(t, err)

	_, err = app.NewCartStore(config.CartConfig{Backend: "memcached"}, nil)
	assert.Error(t, err)
}
