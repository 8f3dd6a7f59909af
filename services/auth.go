package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/feira-troca/backend/models"
	"github.com/feira-troca/backend/store"
)

// Claims carried by trader tokens.
type Claims struct {
	Name       string `json:"name"`
	FeiranteID uint64 `json:"feirante_id"`
	jwt.RegisteredClaims
}

// AuthService issues and verifies HS256 tokens for traders.
type AuthService struct {
	store  store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(s store.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{store: s, secret: []byte(secret), ttl: ttl, now: time.Now}
}

var errBadCredentials = &UnauthorizedError{Message: "invalid name or password"}

// Login checks the trader's password and returns a signed token.
func (s *AuthService) Login(ctx context.Context, name, password string) (string, *models.Trader, error) {
	if name == "" || password == "" {
		return "", nil, &ValidationError{Message: "name and password are required"}
	}

	trader, err := s.store.Traders().FindByName(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil, errBadCredentials
	}
	if err != nil {
		return "", nil, persistence("failed to log in", err)
	}
	if !trader.CheckPassword(password) {
		return "", nil, errBadCredentials
	}

	now := s.now()
	claims := &Claims{
		Name:       trader.Name,
		FeiranteID: trader.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, &PersistenceError{Message: "failed to create login token", Err: err}
	}
	return token, trader, nil
}

// ParseToken validates a token's signature and expiry.
func (s *AuthService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, &UnauthorizedError{Message: "invalid token"}
	}
	if claims.Name == "" {
		return nil, &UnauthorizedError{Message: "token has no trader name"}
	}
	return claims, nil
}
