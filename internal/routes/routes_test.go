package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/agri-connect/agri_connect/internal/admin"
	"github.com/agri-connect/agri_connect/internal/auth"
	"github.com/agri-connect/agri_connect/internal/config"
	"github.com/agri-connect/agri_connect/internal/logging"
	"github.com/agri-connect/agri_connect/internal/token"
)

func testConfig() config.Config {
	return config.Config{
		AppName:       "agriconnect-test",
		AppEnv:        "dev",
		JWTSecret:     "test-secret",
		AdminTokenTTL: time.Hour,
		OTPRateLimit:  100,
	}
}

func newTestApp(t *testing.T) (*fiber.App, config.Config) {
	t.Helper()

	cfg := testConfig()
	verifier := token.NewStaticVerifier(map[string]token.Identity{
		"good-token": {SubjectID: "uid123", PhoneNumber: "+911234567890"},
	})

	app := fiber.New()
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard(), Verifier: verifier}); err != nil {
		t.Fatalf("routes.Setup: %v", err)
	}
	return app, cfg
}

func adminToken(t *testing.T, cfg config.Config) string {
	t.Helper()
	session, err := auth.NewService(cfg).IssueAdminSession(admin.Admin{ID: "admin-1", Email: "ops@example.com"})
	if err != nil {
		t.Fatalf("issue admin session: %v", err)
	}
	return session.Token
}

func doJSON(t *testing.T, app *fiber.App, method, target, authz, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authz != "" {
		req.Header.Set(fiber.HeaderAuthorization, authz)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 && json.Valid(raw) {
		json.Unmarshal(raw, &decoded)
	}
	return resp.StatusCode, decoded
}

func TestVerifyOTPAndRoleChangeFlow(t *testing.T) {
	app, cfg := newTestApp(t)

	// First login provisions a FARMER profile.
	status, body := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/verify-otp", "Bearer good-token", "")
	if status != http.StatusOK {
		t.Fatalf("first login: status %d", status)
	}
	if body["userId"] != "uid123" || body["role"] != "FARMER" {
		t.Fatalf("first login body = %v", body)
	}

	// An admin promotes the user out-of-band.
	tok := adminToken(t, cfg)
	status, body = doJSON(t, app, fiber.MethodPatch, "/api/v1/users/uid123/role", "Bearer "+tok, `{"role":"OFFICIAL"}`)
	if status != http.StatusOK {
		t.Fatalf("role update: status %d body %v", status, body)
	}
	if body["role"] != "OFFICIAL" {
		t.Fatalf("role update body = %v", body)
	}

	// The next login reflects the changed role without overwriting it.
	status, body = doJSON(t, app, fiber.MethodPost, "/api/v1/auth/verify-otp", "Bearer good-token", "")
	if status != http.StatusOK {
		t.Fatalf("second login: status %d", status)
	}
	if body["userId"] != "uid123" || body["role"] != "OFFICIAL" {
		t.Fatalf("second login body = %v", body)
	}
}

func TestUserRoutesRequireAdminToken(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/api/v1/users/uid123", "", "")
	if status != http.StatusUnauthorized {
		t.Fatalf("unauthenticated lookup: status %d, want 401", status)
	}

	status, _ = doJSON(t, app, fiber.MethodPatch, "/api/v1/users/uid123/role", "Bearer bogus", `{"role":"OFFICIAL"}`)
	if status != http.StatusUnauthorized {
		t.Fatalf("bogus token: status %d, want 401", status)
	}
}

func TestUserLookupAndValidation(t *testing.T) {
	app, cfg := newTestApp(t)
	tok := adminToken(t, cfg)

	// Provision first.
	if status, _ := doJSON(t, app, fiber.MethodPost, "/api/v1/auth/verify-otp", "Bearer good-token", ""); status != http.StatusOK {
		t.Fatalf("provision: status %d", status)
	}

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/users/uid123", "Bearer "+tok, "")
	if status != http.StatusOK {
		t.Fatalf("lookup: status %d", status)
	}
	if body["phone"] != "+911234567890" {
		t.Fatalf("lookup body = %v", body)
	}

	status, _ = doJSON(t, app, fiber.MethodGet, "/api/v1/users/ghost", "Bearer "+tok, "")
	if status != http.StatusNotFound {
		t.Fatalf("unknown user: status %d, want 404", status)
	}

	status, _ = doJSON(t, app, fiber.MethodPatch, "/api/v1/users/uid123/role", "Bearer "+tok, `{"role":"SUPREME_LEADER"}`)
	if status != http.StatusBadRequest {
		t.Fatalf("unknown role: status %d, want 400", status)
	}
}

func TestPing(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := doJSON(t, app, fiber.MethodGet, "/api/v1/ping", "", "")
	if status != http.StatusOK {
		t.Fatalf("ping: status %d", status)
	}
	if body["status"] != "ok" {
		t.Fatalf("ping body = %v", body)
	}
}

func TestHealthz(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/healthz", "", "")
	if status != http.StatusOK {
		t.Fatalf("healthz: status %d", status)
	}
}

func TestSetupRequiresBackendsOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.AppEnv = "production"

	app := fiber.New()
	err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard(), Verifier: token.NewStaticVerifier(nil)})
	if err == nil {
		t.Fatal("expected Setup to fail without database and redis in production")
	}
}
