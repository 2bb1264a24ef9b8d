package utils

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "password123" {
		t.Fatal("expected the password hashed, not stored in the clear")
	}

	if !CheckPassword(hash, "password123") {
		t.Fatal("expected the right password to verify")
	}
	if CheckPassword(hash, "wrong-password") {
		t.Fatal("expected a wrong password rejected")
	}
	if CheckPassword("not-a-hash", "password123") {
		t.Fatal("expected a malformed hash rejected")
	}
}
