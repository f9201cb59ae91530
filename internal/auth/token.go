package auth

import (
	"fmt"
	"time"

	"github.com/budgetflow/budgetflow/internal/apperror"
	"github.com/budgetflow/budgetflow/internal/config"
	"github.com/budgetflow/budgetflow/internal/utils"
	"github.com/budgetflow/budgetflow/pkg/user"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by issued tokens. The subject is the user's uid.
type Claims struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HMAC-SHA256 bearer tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	clock  utils.Clock
}

func NewTokenIssuer(cfg config.Auth, clock utils.Clock) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.TokenTTLHours) * time.Hour,
		clock:  clock,
	}
}

func (t *TokenIssuer) Issue(u user.User) (string, error) {
	now := t.clock.Now()
	claims := Claims{
		Email:      u.Email,
		Name:       u.FullName(),
		Department: u.Department,
		Role:       string(u.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (t *TokenIssuer) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.clock.Now))
	if err != nil || !token.Valid {
		return nil, apperror.Auth("invalid or expired token")
	}
	return claims, nil
}
