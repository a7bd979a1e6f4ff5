package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestInspectAccessToken(t *testing.T) {
	exp := time.Now().Add(5 * time.Minute).Truncate(time.Second)
	tok := signed(t, jwt.MapClaims{"user_id": 42, "token_type": "access", "exp": exp.Unix()})

	claims, err := InspectAccessToken(tok)
	if err != nil {
		t.Fatalf("InspectAccessToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d", claims.UserID)
	}
	if !claims.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %s, want %s", claims.ExpiresAt, exp)
	}
	if r := claims.Remaining(exp.Add(-time.Minute)); r != time.Minute {
		t.Errorf("Remaining = %s", r)
	}
}

func TestInspectAccessTokenWithoutExpiry(t *testing.T) {
	claims, err := InspectAccessToken(signed(t, jwt.MapClaims{"user_id": "7"}))
	if err != nil {
		t.Fatalf("InspectAccessToken: %v", err)
	}
	if claims.UserID != 7 || claims.Remaining(time.Now()) != 0 {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestInspectAccessTokenRejects(t *testing.T) {
	if _, err := InspectAccessToken("not-a-jwt"); err == nil {
		t.Error("expected error for malformed token")
	}
	if _, err := InspectAccessToken(signed(t, jwt.MapClaims{"token_type": "refresh"})); err == nil {
		t.Error("expected error for refresh token")
	}
}
