package auth

import (
	"context"
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

var errInvalidCredentials = errors.New("invalid credentials")

type service struct {
	secret    []byte
	operators map[string]string // operator id -> bcrypt PIN hash
	tokenTTL  time.Duration
}

// NewService creates the static operator gate. operators maps operator ids
// to bcrypt hashes of their PINs.
func NewService(secret string, operators map[string]string) Service {
	return &service{
		secret:    []byte(secret),
		operators: operators,
		tokenTTL:  24 * time.Hour,
	}
}

func (s *service) Login(ctx context.Context, operatorID, pin string) (string, error) {
	hash, ok := s.operators[operatorID]
	if !ok {
		return "", errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)); err != nil {
		return "", errInvalidCredentials
	}

	claims := &jwt.StandardClaims{
		Subject:   operatorID,
		ExpiresAt: time.Now().Add(s.tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *service) Verify(tokenString string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidCredentials
	}
	if _, ok := s.operators[claims.Subject]; !ok {
		return "", errInvalidCredentials
	}
	return claims.Subject, nil
}
