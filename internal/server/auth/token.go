// Package auth proves and carries caller identity: bcrypt password hashing,
// HS256 bearer tokens and the per-request identity resolved from them.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/linkfeed/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed claim set: the registered claims (only exp is used)
// and the subject user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"userId"`
}

// TokenService issues and verifies stateless bearer tokens. The secret is
// fixed at construction and only read afterwards, so one instance is shared
// by all requests.
type TokenService struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

// NewTokenService builds a service signing with secret. A zero validity
// issues tokens without an exp claim.
func NewTokenService(secret []byte, validity time.Duration) *TokenService {
	s := make([]byte, len(secret))
	copy(s, secret)
	return &TokenService{secret: s, validity: validity, now: time.Now}
}

// Issue returns a signed token bound to userID.
func (s *TokenService) Issue(userID int64) (string, error) {
	claims := Claims{UserID: userID}
	if s.validity > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(s.now().Add(s.validity))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and, when present, expiry. It returns
// common.ErrTokenExpired for expired tokens and common.ErrInvalidToken for
// every other failure.
func (s *TokenService) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID <= 0 {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
