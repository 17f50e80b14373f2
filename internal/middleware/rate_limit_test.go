package middleware

import (
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func newRateLimitedApp(t *testing.T, maxPerMin int) *fiber.App {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Post("/auth", AuthRateLimit(cache, maxPerMin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestAuthRateLimitAllowsUnderLimit(t *testing.T) {
	app := newRateLimitedApp(t, 3)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/auth", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: status %d, want %d", i, resp.StatusCode, fiber.StatusOK)
		}
	}
}

func TestAuthRateLimitBlocksOverLimit(t *testing.T) {
	app := newRateLimitedApp(t, 2)

	for i := 0; i < 2; i++ {
		if _, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/auth", nil)); err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
	}

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/auth", nil))
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	if resp.StatusCode != fiber.StatusTooManyRequests {
		t.Fatalf("status %d, want %d", resp.StatusCode, fiber.StatusTooManyRequests)
	}
}

func TestAuthRateLimitNoopWithoutRedis(t *testing.T) {
	app := fiber.New()
	app.Post("/auth", AuthRateLimit(nil, 1), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/auth", nil))
		if err != nil {
			t.Fatalf("request %d: %v", i, err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("request %d: status %d, want %d", i, resp.StatusCode, fiber.StatusOK)
		}
	}
}
