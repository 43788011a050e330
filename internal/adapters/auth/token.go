package auth

import (
	"fmt"
	"time"

	"eventfinder/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenExpiry is the lifetime of an issued session token.
const DefaultTokenExpiry = 6 * time.Hour

// jwtClaims carries exactly the user id plus the registered iat/exp claims.
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"id"`
}

// JWT issues and verifies HS256 session tokens signed with a shared secret.
type JWT struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

var (
	_ domain.TokenIssuer   = (*JWT)(nil)
	_ domain.TokenVerifier = (*JWT)(nil)
)

// NewJWT returns a JWT signer/verifier. A non-positive expiry falls back to DefaultTokenExpiry.
func NewJWT(secret string, expiry time.Duration) *JWT {
	if expiry <= 0 {
		expiry = DefaultTokenExpiry
	}
	return &JWT{secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (j *JWT) Issue(userID int64) (string, error) {
	now := j.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiry)),
		},
		UserID: userID,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// Verify checks signature, algorithm and expiry and returns the asserted user id.
func (j *JWT) Verify(tokenString string) (int64, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return j.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.UserID <= 0 {
		return 0, fmt.Errorf("%w: token has no user id", domain.ErrUnauthorized)
	}
	return claims.UserID, nil
}
