package crypto

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if string(hash) == "hunter2" {
		t.Fatal("hash must not equal the plaintext")
	}
	if err := VerifyPassword(hash, "hunter2"); err != nil {
		t.Fatalf("VerifyPassword rejected correct password: %v", err)
	}
	if err := VerifyPassword(hash, "hunter3"); err == nil {
		t.Fatal("VerifyPassword accepted wrong password")
	}
}
