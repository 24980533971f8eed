package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenManager signs and checks the access tokens handed out at login.
// The key is used to "sign" tokens so we know they are real.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// TTL is how long a freshly issued token stays valid.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// GenerateToken creates a new JWT for a given user ID.
func (m *TokenManager) GenerateToken(userID int64) (string, error) {
	// 1. Create the claims.
	now := m.now()
	claims := jwt.MapClaims{
		"sub": userID,                // "sub" (Subject) is the standard claim for User ID
		"exp": now.Add(m.ttl).Unix(), // Expiry
		"iat": now.Unix(),            // "iat" (Issued At)
	}

	// 2. Sign it with HS256 and our secret key.
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ValidateToken parses and validates a JWT token string.
// It returns the user ID (subject) if the token is valid.
func (m *TokenManager) ValidateToken(tokenString string) (int64, error) {
	// 1. Parse the token string, accepting only HMAC signatures.
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		return 0, err // Token parsing failed (e.g., expired, malformed)
	}

	// 2. Get the user ID ("sub") from the claims.
	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		userIDFloat, ok := claims["sub"].(float64)
		if !ok {
			return 0, errors.New("invalid subject claim")
		}
		// Convert the float64 (JSON's number type) to int64
		return int64(userIDFloat), nil
	}

	return 0, errors.New("invalid token")
}
