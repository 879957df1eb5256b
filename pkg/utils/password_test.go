package utils

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}

	if parts := strings.Split(hash, "."); len(parts) != 2 {
		t.Fatalf("expected salt.hash encoding, got %q", hash)
	}

	if err := VerifyPassword("s3cret-pass", hash); err != nil {
		t.Errorf("VerifyPassword rejected correct password: %v", err)
	}

	if err := VerifyPassword("wrong-pass", hash); err == nil {
		t.Error("VerifyPassword accepted wrong password")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	first, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword("same-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Error("expected different hashes for the same password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if err := VerifyPassword("whatever", "not-a-valid-encoding"); err == nil {
		t.Error("expected error for malformed stored hash")
	}
}
