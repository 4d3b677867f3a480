package health

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"certledger-backend/internal/middleware"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type okPinger struct{}

func (okPinger) Ping() error { return nil }

func setupHealthTest(t *testing.T) (*Handlers, *redis.Client) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rdb.Close()
		mr.Close()
	})
	return &Handlers{Rdb: rdb, DB: okPinger{}, HealthAdminKey: "secret"}, rdb
}

func TestJSON(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/health/json", h.JSON)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, "certledger-api", out["service"])
	assert.Equal(t, "ok", out["status"])
}

func TestReset_RequiresKey(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Post("/health/reset", h.Reset)

	resp, err := app.Test(httptest.NewRequest("POST", "/health/reset", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("POST", "/health/reset?key=wrong", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestReset_ClearsCounters(t *testing.T) {
	h, rdb := setupHealthTest(t)
	app := fiber.New()
	app.Post("/health/reset", h.Reset)

	ctx := context.Background()
	require.NoError(t, rdb.Set(ctx, middleware.KeyReqTotal, "99", 0).Err())

	resp, err := app.Test(httptest.NewRequest("POST", "/health/reset?key=secret", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, err = rdb.Get(ctx, middleware.KeyReqTotal).Result()
	assert.ErrorIs(t, err, redis.Nil)
}

func TestErrors_Empty(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/health/errors", h.Errors)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/errors", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	b, _ := io.ReadAll(resp.Body)
	var out []interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Empty(t, out)
}

func TestDashboard_HTML(t *testing.T) {
	h, _ := setupHealthTest(t)
	app := fiber.New()
	app.Get("/health", h.Dashboard)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "CertLedger")
}
