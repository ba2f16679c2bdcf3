package helpers

import (
	"net/http"
	"testing"
	"time"
)

func TestParseSameSite(t *testing.T) {
	cases := map[string]http.SameSite{
		"lax":     http.SameSiteLaxMode,
		"Strict":  http.SameSiteStrictMode,
		" NONE ":  http.SameSiteNoneMode,
		"":        http.SameSiteLaxMode,
		"unknown": http.SameSiteLaxMode,
	}
	for in, want := range cases {
		if got := ParseSameSite(in); got != want {
			t.Fatalf("ParseSameSite(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuildCookie(t *testing.T) {
	ck := BuildCookie(AccessCookieName, "tok", "example.com", "strict", true, time.Hour)

	if ck.Name != "access_token" || ck.Value != "tok" {
		t.Fatalf("name/value: %q/%q", ck.Name, ck.Value)
	}
	if !ck.HttpOnly || !ck.Secure {
		t.Fatal("auth cookies must be HttpOnly and Secure")
	}
	if ck.Path != "/" || ck.Domain != "example.com" {
		t.Fatalf("path/domain: %q/%q", ck.Path, ck.Domain)
	}
	if ck.SameSite != http.SameSiteStrictMode {
		t.Fatalf("samesite: %v", ck.SameSite)
	}
	if ck.MaxAge != 3600 {
		t.Fatalf("maxage: %d", ck.MaxAge)
	}
}

func TestBuildCookie_NoDomain(t *testing.T) {
	ck := BuildCookie(RefreshCookieName, "tok", "  ", "lax", false, time.Minute)
	if ck.Domain != "" {
		t.Fatalf("blank domain must be omitted, got %q", ck.Domain)
	}
}

func TestBuildDeletionCookie(t *testing.T) {
	ck := BuildDeletionCookie(RefreshCookieName, "", "lax", false)
	if ck.Value != "" || ck.MaxAge != -1 {
		t.Fatalf("deletion cookie: value=%q maxage=%d", ck.Value, ck.MaxAge)
	}
	if !ck.Expires.Before(time.Now()) {
		t.Fatal("deletion cookie must expire in the past")
	}
}
