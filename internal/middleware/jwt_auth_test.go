package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/tanvirio/openblog/backend/internal/models"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "reader@example.com",
		Role:   models.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func invokeMiddleware(mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	handler := mw(func(c echo.Context) error { return nil })
	return c, handler(c)
}

func TestOptionalJWTAllowsAnonymous(t *testing.T) {
	c, err := invokeMiddleware(OptionalJWTAuthMiddleware(), "")
	if err != nil {
		t.Fatalf("anonymous request should pass, got %v", err)
	}
	if c.Get("user") != nil {
		t.Fatalf("anonymous request should carry no claims")
	}
}

func TestOptionalJWTExtractsClaims(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "test-secret", 7)

	c, err := invokeMiddleware(OptionalJWTAuthMiddleware(), "Bearer "+token)
	if err != nil {
		t.Fatalf("valid token should pass, got %v", err)
	}
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims.UserID != 7 {
		t.Fatalf("expected claims for user 7, got %#v", c.Get("user"))
	}
}

func TestOptionalJWTRejectsInvalidToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	token := signToken(t, "wrong-secret", 7)

	_, err := invokeMiddleware(OptionalJWTAuthMiddleware(), "Bearer "+token)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("invalid token should get 401, got %v", err)
	}
}

func TestJWTAuthRequiresHeader(t *testing.T) {
	_, err := invokeMiddleware(JWTAuthMiddleware(), "")
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("missing header should get 401, got %v", err)
	}
}
