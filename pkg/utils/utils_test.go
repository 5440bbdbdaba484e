package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashPassword(t *testing.T) {
	password := "Str0ng!Pass"
	hash, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !CheckPassword(password, hash) {
		t.Errorf("Expected password check to pass")
	}

	if CheckPassword("wrongpassword", hash) {
		t.Errorf("Expected password check to fail")
	}
}

func TestHashPasswordClampsCost(t *testing.T) {
	hash, err := HashPassword("secret", 0)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !CheckPassword("secret", hash) {
		t.Errorf("Expected password check to pass")
	}
}

func TestJWT(t *testing.T) {
	secret := "supersecret"
	userID := "2b1c8a5e-7d0f-4a43-9c61-0f4f1f3b8e27"

	token, err := GenerateToken(userID, true, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if claims.UserID != userID {
		t.Errorf("Expected UserID %s, got %s", userID, claims.UserID)
	}

	if !claims.IsAdmin {
		t.Errorf("Expected IsAdmin to be true")
	}

	if ttl := time.Until(claims.ExpiresAt.Time); ttl < TokenTTL-time.Minute || ttl > TokenTTL {
		t.Errorf("Expected expiry about 7 days out, got %v", ttl)
	}

	_, err = ValidateToken(token, "wrongsecret")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestValidateTokenRejectsExpiredAndMissingSecret(t *testing.T) {
	secret := "supersecret"
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, err := ValidateToken(signed, secret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := ValidateToken(signed, ""); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}

	if _, err := GenerateToken("u1", false, ""); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}
}
