package security

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(string(hash), "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatal("expected correct password to verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	b, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if string(a) == string(b) {
		t.Fatal("expected distinct salts to produce distinct hashes")
	}
}

func TestVerifyPasswordOwnEncoding(t *testing.T) {
	hash, err := HashPassword("secret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("secret-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword errored on its own hash: %v", err)
	}
	if !ok {
		t.Fatal("expected own hash to verify")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"garbage", "not-a-hash"},
		{"wrong algorithm", "$argon2d$v=19$t=3,m=65536,p=2$c2FsdA==$aGFzaA=="},
		{"wrong version", "$argon2id$v=18$t=3,m=65536,p=2$c2FsdA==$aGFzaA=="},
		{"missing fields", "$argon2id$v=19$t=3,m=65536,p=2$c2FsdA=="},
		{"bad params", "$argon2id$v=19$nonsense$c2FsdA==$aGFzaA=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := VerifyPassword("anything", []byte(tt.hash)); err == nil {
				t.Fatal("expected malformed hash to error")
			}
		})
	}
}
