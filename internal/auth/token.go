package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/awaaz-labs/civic-portal/internal/domain"
)

// TokenManager handles issuing and validating JWT session tokens. Admin
// sessions expire sooner than citizen ones.
type TokenManager struct {
	secret     []byte
	citizenTTL time.Duration
	adminTTL   time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, citizenTTLHours, adminTTLHours int) *TokenManager {
	if citizenTTLHours <= 0 {
		citizenTTLHours = 168
	}
	if adminTTLHours <= 0 {
		adminTTLHours = 24
	}
	return &TokenManager{
		secret:     []byte(secret),
		citizenTTL: time.Duration(citizenTTLHours) * time.Hour,
		adminTTL:   time.Duration(adminTTLHours) * time.Hour,
	}
}

// Claims describes the JWT payload. Identity is re-derived from these claims
// on each request without a store round trip.
type Claims struct {
	UserID string      `json:"user_id"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TTLFor returns the session lifetime for a role.
func (tm *TokenManager) TTLFor(role domain.Role) time.Duration {
	if role == domain.RoleAdmin {
		return tm.adminTTL
	}
	return tm.citizenTTL
}

// GenerateToken builds and signs a session token for the user.
func (tm *TokenManager) GenerateToken(userID, email string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.TTLFor(role))
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates the signature and expiry and returns the claims.
func (tm *TokenManager) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
