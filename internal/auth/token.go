package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kadankyi1/amforex/internal/config"
	"github.com/kadankyi1/amforex/internal/scope"
)

var ErrInvalidToken = errors.New("invalid token")

// Principal is the authenticated caller of a request, decoded from the
// bearer token. Handlers and services receive it explicitly instead of
// reading ambient auth state.
type Principal struct {
	UserType  string
	ID        int64
	Scope     scope.Set
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TTL returns how long the presented token remains valid, used as the
// retention window when the token is revoked.
func (p *Principal) TTL() time.Duration {
	return time.Until(p.ExpiresAt)
}

type tokenClaims struct {
	UserType string   `json:"user_type"`
	Scope    []string `json:"scope"`
	jwt.RegisteredClaims
}

// Manager issues and parses HS256 access tokens.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

func NewManager(cfg *config.Config) (*Manager, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("jwt secret is not configured")
	}
	return &Manager{
		secret:   []byte(cfg.Auth.JWTSecret),
		lifetime: cfg.Auth.TokenLifetime,
	}, nil
}

func (m *Manager) Issue(userType string, userID int64, scopes scope.Set) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserType: userType,
		Scope:    scopes.Strings(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (m *Manager) Parse(tokenString string) (*Principal, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" || claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	caps := make([]scope.Capability, 0, len(claims.Scope))
	for _, s := range claims.Scope {
		caps = append(caps, scope.Capability(s))
	}

	return &Principal{
		UserType:  claims.UserType,
		ID:        userID,
		Scope:     scope.NewSet(caps...),
		JTI:       claims.ID,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
