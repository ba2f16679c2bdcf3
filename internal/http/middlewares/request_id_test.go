package middlewares

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func serveWithRequestID(t *testing.T, req *http.Request) (string, string) {
	t.Helper()
	var inCtx string
	h := WithRequestID()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		inCtx = GetRequestID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return inCtx, rec.Header().Get("X-Request-ID")
}

func TestRequestID_PropagatesClientHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil)
	req.Header.Set("X-Request-ID", "trace-abc-123")

	inCtx, echoed := serveWithRequestID(t, req)
	if inCtx != "trace-abc-123" || echoed != "trace-abc-123" {
		t.Fatalf("ctx = %q, header = %q, want the client id in both", inCtx, echoed)
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	inCtx, echoed := serveWithRequestID(t, httptest.NewRequest(http.MethodGet, "/v1/sessions", nil))
	if inCtx == "" || inCtx != echoed {
		t.Fatalf("ctx = %q, header = %q, want the same generated id", inCtx, echoed)
	}
	if _, err := uuid.Parse(inCtx); err != nil {
		t.Fatalf("generated id %q is not a uuid: %v", inCtx, err)
	}
}

func TestRequestID_ReplacesOversizedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions", nil)
	req.Header.Set("X-Request-ID", strings.Repeat("x", 256))

	inCtx, _ := serveWithRequestID(t, req)
	if _, err := uuid.Parse(inCtx); err != nil {
		t.Fatalf("oversized client id must be replaced by a uuid, got %q", inCtx)
	}
}
