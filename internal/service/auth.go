package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 24 * time.Hour

var jwtSecret []byte

func InitJWT(secret string) {
	if secret == "" {
		panic("JWT secret is required")
	}
	jwtSecret = []byte(secret)
}

type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AdminLogin checks the presented credentials against the configured
// admin username and bcrypt password hash and issues a bearer token.
func AdminLogin(username, password, wantUser, passHash string) (string, error) {
	if subtle.ConstantTimeCompare([]byte(username), []byte(wantUser)) != 1 {
		return "", AuthError{Msg: "unauthorized"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(passHash), []byte(password)); err != nil {
		return "", AuthError{Msg: "unauthorized"}
	}

	claims := AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(adminTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

func ValidateAdminToken(tokenString string) (AdminClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (any, error) {
		return jwtSecret, nil
	})
	if err != nil {
		return AdminClaims{}, AuthError{Msg: "unauthorized"}
	}

	claims, ok := token.Claims.(*AdminClaims)
	if !ok || !token.Valid {
		return AdminClaims{}, AuthError{Msg: "unauthorized"}
	}

	return *claims, nil
}

// Context helpers

type claimsKey struct{}

func ContextWithClaims(ctx context.Context, claims AdminClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func ClaimsFromContext(ctx context.Context) (AdminClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(AdminClaims)
	return claims, ok
}
