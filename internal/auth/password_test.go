package auth

import (
	"strings"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	hasher := NewHasher(4)

	hash, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if hash == "Str0ng!Pass" {
		t.Fatal("hash must not equal the password")
	}
	if !strings.HasPrefix(hash, "$2a$") {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}

	if !hasher.Compare(hash, "Str0ng!Pass") {
		t.Fatal("correct password rejected")
	}
	if hasher.Compare(hash, "Wr0ng!Pass") {
		t.Fatal("wrong password accepted")
	}
}

func TestHashesAreSalted(t *testing.T) {
	hasher := NewHasher(4)

	first, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	second, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct salts for repeated hashes")
	}
}

func TestNewHasherFallsBackOnInvalidCost(t *testing.T) {
	hasher := NewHasher(0)

	hash, err := hasher.Hash("Str0ng!Pass")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	if !hasher.Compare(hash, "Str0ng!Pass") {
		t.Fatal("correct password rejected")
	}
}
