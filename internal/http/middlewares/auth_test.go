package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/max31337/salesoptimizer-sub001/internal/http/helpers"
	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

type fakeVerifier struct {
	claims *jwtx.Claims
	err    error

	gotToken string
}

func (f *fakeVerifier) VerifyAccess(_ context.Context, raw string) (*jwtx.Claims, error) {
	f.gotToken = raw
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func okHandler(t *testing.T, wantUser string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetUserID(r.Context()); got != wantUser {
			t.Fatalf("user in context = %q, want %q", got, wantUser)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Code
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	v := &fakeVerifier{claims: &jwtx.Claims{UserID: "user-1", Role: "sales_rep"}}
	h := RequireAuth(v)(okHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer some-access-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if v.gotToken != "some-access-token" {
		t.Fatalf("verifier got %q", v.gotToken)
	}
}

func TestRequireAuth_CookieFallback(t *testing.T) {
	v := &fakeVerifier{claims: &jwtx.Claims{UserID: "user-1"}}
	h := RequireAuth(v)(okHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if v.gotToken != "cookie-token" {
		t.Fatalf("verifier got %q", v.gotToken)
	}
}

func TestRequireAuth_HeaderWinsOverCookie(t *testing.T) {
	v := &fakeVerifier{claims: &jwtx.Claims{UserID: "user-1"}}
	h := RequireAuth(v)(okHandler(t, "user-1"))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer header-token")
	req.AddCookie(&http.Cookie{Name: helpers.AccessCookieName, Value: "cookie-token"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if v.gotToken != "header-token" {
		t.Fatalf("header must take precedence, verifier got %q", v.gotToken)
	}
}

func TestRequireAuth_MissingToken(t *testing.T) {
	v := &fakeVerifier{}
	h := RequireAuth(v)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Fatal("401 must carry WWW-Authenticate")
	}
	if code := errCode(t, rec); code != "TOKEN_MISSING" {
		t.Fatalf("error code = %q", code)
	}
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	v := &fakeVerifier{err: jwtx.ErrTokenExpired}
	h := RequireAuth(v)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer stale-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errCode(t, rec); code != "TOKEN_EXPIRED" {
		t.Fatalf("error code = %q", code)
	}
}

func TestRequireAuth_VerifierRejection(t *testing.T) {
	v := &fakeVerifier{err: jwtx.ErrTokenMalformed}
	h := RequireAuth(v)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
	if code := errCode(t, rec); code != "TOKEN_INVALID" {
		t.Fatalf("error code = %q", code)
	}
}
