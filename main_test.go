package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopkart/internal/config"
	"shopkart/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, overrides map[string]interface{}) config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("DATABASE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	for key, value := range overrides {
		v.Set(key, value)
	}
	return config.FromViper(v)
}

func newTestApp(t *testing.T, overrides map[string]interface{}) *App {
	t.Helper()
	app, err := NewApp(testConfig(t, overrides), hclog.NewNullLogger())
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		assert.NoError(t, app.Shutdown(ctx))
	})
	return app
}

func get(t *testing.T, app *App, target string) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Fiber.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestNewAppServesHealth(t *testing.T) {
	app := newTestApp(t, nil)

	resp, raw := get(t, app, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "disabled", body["rabbitmq"])
}

func TestNewAppExposesMetrics(t *testing.T) {
	app := newTestApp(t, nil)

	payload, err := json.Marshal(map[string]interface{}{
		"name":        "Widget",
		"description": "A fine widget",
		"price":       9.5,
		"imageUrl":    "https://x.io/w.png",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(payload))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, raw := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "products_operations_total")
}

func TestNewAppSeedsProducts(t *testing.T) {
	app := newTestApp(t, map[string]interface{}{"SEED_PRODUCTS": true})

	resp, raw := get(t, app, "/api/products")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Laptop", products[0].Name)
}

func TestNewAppAuthRoutes(t *testing.T) {
	app := newTestApp(t, map[string]interface{}{"AUTH_ENABLED": true, "JWT_SECRET": "test_jwt_secret"})

	resp, _ := get(t, app, "/api/products")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNewAppRefusesDefaultSecretWithAuth(t *testing.T) {
	_, err := NewApp(testConfig(t, map[string]interface{}{"AUTH_ENABLED": true}), hclog.NewNullLogger())
	assert.ErrorIs(t, err, config.ErrDefaultJWTSecret)
}

func TestNewAppMemoryProductStore(t *testing.T) {
	app := newTestApp(t, map[string]interface{}{"PRODUCT_STORE": config.ProductStoreMemory, "SEED_PRODUCTS": true})

	resp, raw := get(t, app, "/api/products")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.Unmarshal(raw, &products))
	require.Len(t, products, 3)
	assert.Equal(t, int64(1), products[0].ID)

	req := httptest.NewRequest(http.MethodDelete, "/api/products/1", nil)
	resp, err := app.Fiber.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, app, "/api/products/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestNewAppRejectsUnknownDriver(t *testing.T) {
	_, err := NewApp(testConfig(t, map[string]interface{}{"DB_DRIVER": "oracle"}), hclog.NewNullLogger())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
