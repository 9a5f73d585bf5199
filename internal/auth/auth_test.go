package auth

import (
	"testing"

	"marketingcrm/internal/config"
)

func TestJWTRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	token, err := GenerateJWT("alice")
	if err != nil {
		t.Fatal(err)
	}

	username, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if username != "alice" {
		t.Errorf("subject = %q, want alice", username)
	}
}

func TestValidateJWT_Invalid(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"

	if _, err := ValidateJWT("not-a-token"); err == nil {
		t.Error("expected error for garbage token")
	}

	token, err := GenerateJWT("alice")
	if err != nil {
		t.Fatal(err)
	}
	config.AppConfig.JWTSecret = "different-secret"
	if _, err := ValidateJWT(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "s3cret" {
		t.Error("hash must not equal the plain password")
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Error("correct password rejected")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Error("wrong password accepted")
	}
}
