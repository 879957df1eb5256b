package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestSignToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	tokenString, err := SignToken(42, "asha")
	if err != nil {
		t.Fatalf("SignToken returned error: %v", err)
	}

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		t.Fatalf("failed to parse signed token: %v", err)
	}
	if !parsed.Valid {
		t.Fatal("expected a valid token")
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("expected map claims")
	}
	if uid, _ := claims["uid"].(float64); int(uid) != 42 {
		t.Errorf("uid claim = %v, want 42", claims["uid"])
	}
	if user, _ := claims["user"].(string); user != "asha" {
		t.Errorf("user claim = %v, want asha", claims["user"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("missing exp claim")
	}
}
