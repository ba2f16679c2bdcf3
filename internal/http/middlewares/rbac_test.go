package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/max31337/salesoptimizer-sub001/internal/authz"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

func doWithClaims(h http.Handler, claims *jwtx.Claims) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	if claims != nil {
		req = req.WithContext(WithClaims(req.Context(), claims))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequirePermission_Allowed(t *testing.T) {
	called := false
	h := RequirePermission(authz.PermManageUsers)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := doWithClaims(h, &jwtx.Claims{UserID: "u1", Role: "org_admin"})
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("status = %d, called = %v", rec.Code, called)
	}
}

func TestRequirePermission_Forbidden(t *testing.T) {
	h := RequirePermission(authz.PermManageUsers)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := doWithClaims(h, &jwtx.Claims{UserID: "u1", Role: "sales_rep"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequirePermission_NoClaims(t *testing.T) {
	h := RequirePermission(authz.PermViewReports)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	rec := doWithClaims(h, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAll_Conjunction(t *testing.T) {
	h := RequireAll(authz.PermManageUsers, authz.PermManageSystem)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// org_admin tiene MANAGE_USERS pero no MANAGE_SYSTEM
	if rec := doWithClaims(h, &jwtx.Claims{UserID: "u1", Role: "org_admin"}); rec.Code != http.StatusForbidden {
		t.Fatalf("org_admin: status = %d, want 403", rec.Code)
	}
	if rec := doWithClaims(h, &jwtx.Claims{UserID: "u2", Role: "super_admin"}); rec.Code != http.StatusOK {
		t.Fatalf("super_admin: status = %d, want 200", rec.Code)
	}
}
