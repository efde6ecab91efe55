// Package auth issues and verifies the bearer tokens handed out at login.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/dmitrijs2005/kynetix/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims are the registered JWT claims plus the numeric user id.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"uid"`
}

// Issuer signs HS256 tokens with a process-wide secret.
type Issuer struct {
	secret   []byte
	validity time.Duration
	now      func() time.Time
}

func NewIssuer(secret []byte, validity time.Duration) *Issuer {
	return &Issuer{secret: secret, validity: validity, now: time.Now}
}

// Issue returns a signed token for userID that expires after the issuer's
// validity window.
func (i *Issuer) Issue(userID int64) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.validity)),
		},
		UserID: userID,
	})

	return token.SignedString(i.secret)
}

// Verify checks signature, algorithm and expiry and returns the user id.
// Expired tokens yield common.ErrTokenExpired, anything else that fails
// common.ErrInvalidToken.
func (i *Issuer) Verify(tokenString string) (int64, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, common.ErrTokenExpired
		}
		return 0, common.ErrInvalidToken
	}

	if !token.Valid {
		return 0, common.ErrInvalidToken
	}

	if claims.Subject != strconv.FormatInt(claims.UserID, 10) {
		return 0, common.ErrInvalidToken
	}

	return claims.UserID, nil
}
