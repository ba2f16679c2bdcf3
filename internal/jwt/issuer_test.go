package jwt_test

import (
	"errors"
	"testing"
	"time"

	jwtx "github.com/max31337/salesoptimizer-sub001/internal/jwt"
)

func newTestIssuer() *jwtx.Issuer {
	return jwtx.NewIssuer("salesoptimizer-test", []byte("test-secret-0123456789"))
}

func TestIssueAccess_RoundTrip(t *testing.T) {
	iss := newTestIssuer()

	raw, issued, err := iss.IssueAccess("user-1", "org_admin", "tenant-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "org_admin" || claims.TenantID != "tenant-1" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.TokenType != jwtx.TokenAccess {
		t.Fatalf("expected typ=access, got %q", claims.TokenType)
	}
	if claims.JTI != issued.JTI {
		t.Fatalf("jti mismatch: %q vs %q", claims.JTI, issued.JTI)
	}
}

func TestIssueRefresh_TypeAndTenantlessPlatformUser(t *testing.T) {
	iss := newTestIssuer()

	raw, _, err := iss.IssueRefresh("user-2", "super_admin", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := iss.Parse(raw)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.TokenType != jwtx.TokenRefresh {
		t.Fatalf("expected typ=refresh, got %q", claims.TokenType)
	}
	if claims.TenantID != "" {
		t.Fatalf("platform user must have empty tid, got %q", claims.TenantID)
	}
}

func TestJTI_UniquePerToken(t *testing.T) {
	iss := newTestIssuer()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		_, c, err := iss.IssueAccess("user-1", "manager", "")
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		if seen[c.JTI] {
			t.Fatalf("jti repeated: %q", c.JTI)
		}
		seen[c.JTI] = true
	}
}

func TestParse_Expired(t *testing.T) {
	iss := newTestIssuer()
	iss.AccessTTL = time.Minute

	// Emitir en el pasado y parsear con el reloj real: ya venció.
	past := time.Now().Add(-2 * time.Hour)
	iss.Now = func() time.Time { return past }
	raw, _, err := iss.IssueAccess("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	iss.Now = nil
	if _, err := iss.Parse(raw); !errors.Is(err, jwtx.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestParse_WrongSecret(t *testing.T) {
	raw, _, err := newTestIssuer().IssueAccess("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := jwtx.NewIssuer("salesoptimizer-test", []byte("another-secret"))
	if _, err := other.Parse(raw); !errors.Is(err, jwtx.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParse_WrongIssuer(t *testing.T) {
	raw, _, err := newTestIssuer().IssueAccess("user-1", "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := jwtx.NewIssuer("someone-else", []byte("test-secret-0123456789"))
	if _, err := other.Parse(raw); !errors.Is(err, jwtx.ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}

func TestParse_Garbage(t *testing.T) {
	iss := newTestIssuer()
	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := iss.Parse(raw); !errors.Is(err, jwtx.ErrTokenMalformed) {
			t.Fatalf("expected ErrTokenMalformed for %q, got %v", raw, err)
		}
	}
}
