package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/ogrusev/bookmart/internal/models"
)

const tokenDuration = 24 * time.Hour

var (
	ErrInvalidToken     = errors.New("token is invalid")
	ErrUnexpectedMethod = errors.New("unexpected token signing method")
)

// AuthToken issues and verifies HMAC-signed auth tokens carrying the user
// identity and role
type AuthToken struct {
	key []byte
}

// NewAuthToken creates new AuthToken instance with the signing key
func NewAuthToken(key []byte) *AuthToken {
	return &AuthToken{key: key}
}

type tokenClaims struct {
	UserID uint64 `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// CreateToken creates a signed token for the user
func (t *AuthToken) CreateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Login,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.key)
}

// VerifyToken validates the token string and extracts its payload
func (t *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnexpectedMethod
		}
		return t.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return &models.TokenPayload{
		UserID: claims.UserID,
		Role:   claims.Role,
	}, nil
}
