package password

import (
	"strings"
	"testing"
)

// Parámetros bajos para que los tests no tarden.
var testParams = Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func TestHashVerify_RoundTrip(t *testing.T) {
	phc, err := Hash(testParams, "hunter2!secret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(phc, "$argon2id$v=19$") {
		t.Fatalf("unexpected PHC prefix: %q", phc)
	}
	if !Verify("hunter2!secret", phc) {
		t.Fatal("expected password to verify")
	}
	if Verify("hunter2!wrong", phc) {
		t.Fatal("wrong password must not verify")
	}
}

func TestHash_RandomSalt(t *testing.T) {
	a, err := Hash(testParams, "same-password")
	if err != nil {
		t.Fatalf("hash a: %v", err)
	}
	b, err := Hash(testParams, "same-password")
	if err != nil {
		t.Fatalf("hash b: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password must differ (random salt)")
	}
	if !Verify("same-password", a) || !Verify("same-password", b) {
		t.Fatal("both hashes must still verify")
	}
}

func TestHash_EmptyPassword(t *testing.T) {
	if _, err := Hash(testParams, ""); err == nil {
		t.Fatal("empty password must be rejected")
	}
}

func TestVerify_MalformedPHC(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=8192,t=1,p=1$c2FsdA$ZGs",     // wrong variant
		"$argon2id$v=18$m=8192,t=1,p=1$c2FsdA$ZGs",    // wrong version
		"$argon2id$v=19$m=8192,t=1,p=1$!!notb64!!$ZGs", // bad salt
		"$argon2id$v=19$m=8192,t=1,p=1$c2FsdA",        // missing digest
		"$argon2id$v=19$garbage$c2FsdA$ZGs",           // bad params
	}
	for _, phc := range malformed {
		if Verify("whatever", phc) {
			t.Fatalf("malformed PHC verified: %q", phc)
		}
	}
}
