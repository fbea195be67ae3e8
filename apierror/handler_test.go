package apierror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(production bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: Handler(zerolog.Nop(), production)})
	app.Use(requestid.New(requestid.Config{ContextKey: RequestIDKey}))
	app.Use(recover.New())

	app.Get("/validation", func(c *fiber.Ctx) error {
		return Validation("name is required", "price must be 0 or greater")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return NotFound("")
	})
	app.Get("/unauthorized", func(c *fiber.Ctx) error {
		return Unauthorized()
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return fmt.Errorf("load basket: %w", errors.New("redis: connection refused"))
	})
	app.Get("/panic", func(c *fiber.Ctx) error {
		panic("kaboom")
	})
	return app
}

func call(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestValidationErrorIs400(t *testing.T) {
	status, body := call(t, newApp(false), "/validation")
	assert.Equal(t, 400, status)
	assert.EqualValues(t, 400, body["statusCode"])
	assert.Equal(t, DefaultMessage(400), body["message"])
	assert.Equal(t, []any{"name is required", "price must be 0 or greater"}, body["errors"])
}

func TestClientErrors(t *testing.T) {
	app := newApp(false)

	status, body := call(t, app, "/missing")
	assert.Equal(t, 404, status)
	assert.Equal(t, DefaultMessage(404), body["message"])

	status, body = call(t, app, "/unauthorized")
	assert.Equal(t, 401, status)
	assert.Equal(t, DefaultMessage(401), body["message"])

	status, body = call(t, app, "/no-such-route")
	assert.Equal(t, 404, status)
	assert.EqualValues(t, 404, body["statusCode"])
}

func TestInternalErrorInDevelopment(t *testing.T) {
	status, body := call(t, newApp(false), "/boom")
	assert.Equal(t, 500, status)
	assert.Equal(t, DefaultMessage(500), body["message"])
	assert.Equal(t, "load basket: redis: connection refused", body["details"])
	assert.NotEmpty(t, body["traceId"])
}

func TestInternalErrorInProduction(t *testing.T) {
	status, body := call(t, newApp(true), "/boom")
	assert.Equal(t, 500, status)
	assert.Equal(t, DefaultMessage(500), body["message"])
	assert.NotContains(t, body, "details")
	assert.NotEmpty(t, body["traceId"])
}

func TestPanicIsRecovered(t *testing.T) {
	status, body := call(t, newApp(false), "/panic")
	assert.Equal(t, 500, status)
	assert.Contains(t, body["details"], "kaboom")
}

func TestDefaultMessageFallsBackToStatusText(t *testing.T) {
	assert.Equal(t, "Conflict", DefaultMessage(409))
	assert.Equal(t, "custom", NewApiResponse(400, "custom").Message)
}
