package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"

	"github.com/Matesfu/Mela-rent/internal/models"
)

var ErrInvalidToken = errors.New("token is invalid or expired")

type Manager struct {
	signingKey string
}

func NewManager(signingKey string) (*Manager, error) {
	if signingKey == "" {
		return nil, errors.New("empty signing key")
	}

	return &Manager{signingKey: signingKey}, nil
}

// NewJWT signs an access token carrying the user's id and role.
func (m *Manager) NewJWT(user models.User, now time.Time, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, models.Claims{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Subject:   strconv.Itoa(user.ID),
		},
	})

	return token.SignedString([]byte(m.signingKey))
}

// Parse verifies an access token and returns its claims.
func (m *Manager) Parse(accessToken string) (models.Claims, error) {
	var claims models.Claims
	token, err := jwt.ParseWithClaims(accessToken, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.signingKey), nil
	})
	if err != nil || !token.Valid {
		return models.Claims{}, ErrInvalidToken
	}
	if claims.UserID <= 0 || !claims.Role.Valid() {
		return models.Claims{}, ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) NewRefreshToken() string {
	return uuid.NewString()
}
