package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "innovatube"

// ErrInvalidSession é retornado para qualquer token que não possa ser aceito:
// assinatura inválida, token malformado, algoritmo inesperado ou expirado.
var ErrInvalidSession = errors.New("invalid session")

// Claims struct to be encoded to JWT
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenManager emite e valida os tokens de sessão (HS256).
type TokenManager struct {
	key      []byte
	lifespan time.Duration
	now      func() time.Time
}

// NewTokenManager cria o emissor de sessões. A ausência da chave é um erro de inicialização.
func NewTokenManager(secret string, lifespan time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret key must not be empty")
	}
	if lifespan <= 0 {
		return nil, fmt.Errorf("invalid token lifespan %s", lifespan)
	}
	return &TokenManager{key: []byte(secret), lifespan: lifespan, now: time.Now}, nil
}

// GenerateToken generates a new JWT token for a given user.
func (tm *TokenManager) GenerateToken(userID uuid.UUID) (string, error) {
	now := tm.now()
	claims := &Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.lifespan)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.key)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken validates a JWT token string and returns the user it was issued for.
func (tm *TokenManager) ValidateToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return tm.key, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if !token.Valid {
		return uuid.Nil, ErrInvalidSession
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user_id claim", ErrInvalidSession)
	}
	return userID, nil
}
