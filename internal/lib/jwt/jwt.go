package jwtlib

import (
	"context"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

const RoleAdmin = "admin"

type claimsKey struct{}

type TokenManager struct {
	tokenTTL time.Duration
	secret   string
}

func New(tokenTTL time.Duration, secret string) *TokenManager {
	return &TokenManager{
		tokenTTL: tokenTTL,
		secret:   secret,
	}
}

// NewToken signs a token for one shop. Admin tokens may pass an empty shop.
func (t *TokenManager) NewToken(shop string, role string) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["shop"] = shop
	claims["role"] = role
	claims["exp"] = time.Now().Add(t.tokenTTL).Unix()

	tokenString, err := token.SignedString([]byte(t.secret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (t *TokenManager) ValidateTokenAndGetClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(t.secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("token validation error: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to get claims from token")
	}

	return claims, nil
}

func ContextWithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func GetClaimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(claimsKey{}).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("failed to get claims from context")
	}
	return claims, nil
}

// CanAccessShop reports whether the claims allow reading sessions of shop.
func CanAccessShop(claims jwt.MapClaims, shop string) bool {
	if role, _ := claims["role"].(string); role == RoleAdmin {
		return true
	}

	tokenShop, _ := claims["shop"].(string)
	return tokenShop != "" && tokenShop == shop
}
