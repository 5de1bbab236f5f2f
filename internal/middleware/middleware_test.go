package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/agrimitra/farmer-assist/internal/middleware"
	"github.com/agrimitra/farmer-assist/internal/utils"
)

func runRequest(mw echo.MiddlewareFunc, prep func(c echo.Context), header string) (*httptest.ResponseRecorder, bool) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if prep != nil {
		prep(c)
	}

	reached := false
	h := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	_ = h(c)
	return rec, reached
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, reached := runRequest(middleware.JWTAuth("secret"), nil, "")
	if reached {
		t.Fatalf("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	rec, reached := runRequest(middleware.JWTAuth("secret"), nil, "Bearer not-a-jwt")
	if reached {
		t.Fatalf("handler must not run with a bad token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 1, "farmer", 1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	rec, reached := runRequest(middleware.JWTAuth("secret"), nil, "Bearer "+tok.Token)
	if reached {
		t.Fatalf("handler must not run with a foreign token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken("secret", 9, "officer", 1)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotID, gotRole interface{}
	h := middleware.JWTAuth("secret")(func(c echo.Context) error {
		gotID = c.Get("user_id")
		gotRole = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if gotID == nil || gotID.(float64) != 9 {
		t.Fatalf("unexpected user_id claim: %v", gotID)
	}
	if gotRole != "officer" {
		t.Fatalf("unexpected role claim: %v", gotRole)
	}
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	mw := middleware.RequireRole("farmer", "officer")
	_, reached := runRequest(mw, func(c echo.Context) { c.Set("role", "farmer") }, "")
	if !reached {
		t.Fatalf("farmer must pass a farmer/officer gate")
	}
}

func TestRequireRoleBlocksOthers(t *testing.T) {
	mw := middleware.RequireRole("officer")
	rec, reached := runRequest(mw, func(c echo.Context) { c.Set("role", "farmer") }, "")
	if reached {
		t.Fatalf("farmer must not pass an officer-only gate")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRoleBlocksMissingRole(t *testing.T) {
	mw := middleware.RequireRole("officer")
	rec, reached := runRequest(mw, nil, "")
	if reached {
		t.Fatalf("missing role must not pass")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
