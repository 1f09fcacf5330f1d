package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDReusesInboundHeader(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error {
		require.Equal(t, "abc-123", CorrelationIDFromContext(c.UserContext()))
		return c.SendString(GetCorrelationID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, "abc-123", resp.Header.Get(CorrelationHeader))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "abc-123", string(body))
}

func TestCorrelationIDGeneratesWhenMissing(t *testing.T) {
	app := fiber.New()
	app.Use(CorrelationID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Len(t, resp.Header.Get(CorrelationHeader), 36)
}

func TestViewerResolvesHeaderAndCredential(t *testing.T) {
	app := fiber.New()
	app.Use(Viewer())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"viewer": GetViewer(c), "credential": GetCredential(c)})
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ViewerHeader, "dashboard-1")
	req.Header.Set("Authorization", "Bearer token-value")
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.JSONEq(t, `{"viewer":"dashboard-1","credential":"token-value"}`, string(body))
}

func TestViewerFallsBackToClientIP(t *testing.T) {
	app := fiber.New()
	app.Use(Viewer())
	app.Get("/", func(c *fiber.Ctx) error {
		require.Equal(t, c.IP(), GetViewer(c))
		require.Empty(t, GetCredential(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestRateLimitIgnoresRotatedViewer(t *testing.T) {
	app := fiber.New()
	app.Use(Viewer())
	app.Get("/export", RateLimit("export", 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	var statuses []int
	for _, viewer := range []string{"a", "b", "c", "d"} {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.Header.Set(ViewerHeader, viewer)
		resp, err := app.Test(req)
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}

	require.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests, fiber.StatusTooManyRequests}, statuses)
}

func TestRateLimitIsPerClientIP(t *testing.T) {
	app := fiber.New(fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor})
	app.Get("/export", RateLimit("export", 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/export", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	require.Equal(t, fiber.StatusOK, call("10.0.0.1"))
	require.Equal(t, fiber.StatusTooManyRequests, call("10.0.0.1"))
	require.Equal(t, fiber.StatusOK, call("10.0.0.2"))
}

func TestLatencyBucket(t *testing.T) {
	require.Equal(t, "<=25ms", latencyBucket(10*time.Millisecond))
	require.Equal(t, "<=500ms", latencyBucket(300*time.Millisecond))
	require.Equal(t, ">1s", latencyBucket(2*time.Second))
}
