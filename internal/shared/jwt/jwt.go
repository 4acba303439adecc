package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ride-entitlement/internal/shared/apperrors"
	"ride-entitlement/internal/shared/models"
)

type Manager struct {
	key []byte
}

func NewManager(secret string) *Manager {
	return &Manager{key: []byte(secret)}
}

// Generate mints an HS256 token for subject (driver/passenger/admin id) and
// role. Token issuance normally lives in the auth service; this is kept for
// local setups and tests.
func (m *Manager) Generate(subject, role string) (string, error) {
	expirationTime := time.Now().Add(15 * time.Hour)
	claims := &models.Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString(m.key)
}

func (m *Manager) Parse(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.key, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrUnauthorized
	}

	return claims, nil
}
