package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("secret", "invoice-generator", "u-1", "admin", "admin", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken error = %v", err)
	}

	claims, err := ParseToken("secret", tok)
	if err != nil {
		t.Fatalf("ParseToken error = %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "admin" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != "invoice-generator" {
		t.Errorf("issuer = %q", claims.Issuer)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	tok, _ := GenerateToken("secret", "", "u-1", "a", "user", time.Hour)
	if _, err := ParseToken("other", tok); err == nil {
		t.Error("ParseToken with wrong secret should fail")
	}
}

func TestParseToken_Expired(t *testing.T) {
	claims := &Claims{
		UserID: "u-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if _, err := ParseToken("secret", tok); err == nil {
		t.Error("expired token accepted")
	}
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{UserID: "u-1"}
	tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if _, err := ParseToken("secret", tok); err == nil {
		t.Error("HS512 token accepted")
	}
}
