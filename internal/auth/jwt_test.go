package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/urban-services/api/internal/auth"
)

func TestGenerateAndValidateToken(t *testing.T) {
	secret := "test-secret"

	token, err := auth.GenerateToken(secret, 42, "user@urban.com", "USER", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := auth.ValidateToken(secret, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("user ID: got %v, want 42", claims.UserID)
	}
	if claims.Email != "user@urban.com" {
		t.Errorf("email: got %v, want user@urban.com", claims.Email)
	}
	if claims.Role != "USER" {
		t.Errorf("role: got %v, want USER", claims.Role)
	}
	if _, err := uuid.Parse(claims.RegisteredClaims.ID); err != nil {
		t.Errorf("jti should be a uuid, got %q", claims.RegisteredClaims.ID)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("lifetime: got %v, want 1h", got)
	}
}

func TestGenerateToken_UniqueJTI(t *testing.T) {
	a, _ := auth.GenerateToken("s", 1, "a@urban.com", "USER", time.Hour)
	b, _ := auth.GenerateToken("s", 1, "a@urban.com", "USER", time.Hour)
	if a == b {
		t.Error("two tokens for the same account should differ")
	}
}

func TestValidateTokenWithWrongSecret(t *testing.T) {
	token, err := auth.GenerateToken("secret-a", 1, "agent@urban.com", "AGENT", time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret-b", token)
	if err == nil {
		t.Fatal("expected error validating with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := auth.GenerateToken("secret", 1, "user@urban.com", "USER", -time.Minute)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	_, err = auth.ValidateToken("secret", token)
	if err == nil {
		t.Fatal("expected error validating expired token")
	}
}

func TestValidateTokenRejectsNoneAlg(t *testing.T) {
	claims := auth.Claims{UserID: 1, Role: "USER"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := auth.ValidateToken("secret", token); err == nil {
		t.Fatal("expected error for unsigned token")
	}
}

func TestValidateTokenWithInvalidString(t *testing.T) {
	_, err := auth.ValidateToken("secret", "not-a-jwt")
	if err == nil {
		t.Fatal("expected error validating invalid token string")
	}
}
