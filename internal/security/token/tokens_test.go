package tokens

import (
	"strings"
	"testing"
)

func TestGenerateOpaqueToken(t *testing.T) {
	a, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	b, err := GenerateOpaqueToken(32)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if a == b {
		t.Fatal("two tokens must differ")
	}
	// 32 bytes -> 43 chars base64url sin padding
	if len(a) != 43 {
		t.Fatalf("unexpected token length: %d", len(a))
	}
	if strings.ContainsAny(a, "+/=") {
		t.Fatalf("token is not url-safe: %q", a)
	}
}

func TestSHA256Base64URL(t *testing.T) {
	h1 := SHA256Base64URL("some-token")
	h2 := SHA256Base64URL("some-token")
	if h1 != h2 {
		t.Fatal("hash must be deterministic")
	}
	if h1 == SHA256Base64URL("other-token") {
		t.Fatal("different inputs must hash differently")
	}
	// sha256 -> 32 bytes -> 43 chars sin padding
	if len(h1) != 43 {
		t.Fatalf("unexpected hash length: %d", len(h1))
	}
	if strings.ContainsAny(h1, "+/=") {
		t.Fatalf("hash is not url-safe: %q", h1)
	}
}
