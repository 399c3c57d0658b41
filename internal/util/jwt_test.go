package util

import (
	"testing"
	"time"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/model"
)

func testUser() *model.User {
	u := &model.User{
		Name:  "Test Teacher",
		Email: "teacher@example.com",
		Role:  model.Teacher,
	}
	u.ID = 42
	return u
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}

	claims, err := ParseJWT(token, "secret")
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.UserID != 42 || claims.Role != model.Teacher || claims.Email != "teacher@example.com" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "other"); err == nil {
		t.Error("expected parse failure with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	token, err := GenerateJWT(testUser(), "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	if _, err := ParseJWT(token, "secret"); err == nil {
		t.Error("expected parse failure for expired token")
	}
}
