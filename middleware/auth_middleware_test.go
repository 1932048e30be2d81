package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"pharmapos/config"
	"pharmapos/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

func makeApp() *fiber.App {
	app := fiber.New()
	app.Get("/test", Authenticate, func(c *fiber.Ctx) error {
		return c.SendString(UserCode(c))
	})
	return app
}

func signToken(t *testing.T, secret string, expiry time.Duration) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID:       "u1",
		UserCode:     "U123",
		BusinessName: "Thabo Pharmacy",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp()

	req := httptest.NewRequest("GET", "/test", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "not-a-bearer-token")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for malformed header, got %d", resp.StatusCode)
	}
}

func TestAuthenticate_ValidToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200 with valid token, got %d", resp.StatusCode)
	}
}

func TestAuthenticate_WrongSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for wrong signing secret, got %d", resp.StatusCode)
	}
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	app := makeApp()

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", -time.Hour))
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app test error: %v", err)
	}
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 for expired token, got %d", resp.StatusCode)
	}
}
