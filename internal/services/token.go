package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every reason a session token is refused.
var ErrInvalidToken = errors.New("could not validate credentials")

// Claims is the verified content of a session token.
type Claims struct {
	UserID    int64
	HubID     *int64
	ExpiresAt time.Time
}

type sessionClaims struct {
	Hub *int64 `json:"hub"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies stateless session tokens.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer accepts the HMAC algorithms HS256, HS384 and HS512.
func NewTokenIssuer(secret, alg string, ttl time.Duration) (*TokenIssuer, error) {
	method, ok := jwt.GetSigningMethod(alg).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", alg)
	}
	if secret == "" {
		return nil, errors.New("token secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &TokenIssuer{
		secret: []byte(secret),
		method: method,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue signs a token for userID bound to hubID (which may be nil).
func (ti *TokenIssuer) Issue(userID int64, hubID *int64) (string, error) {
	now := ti.now()
	claims := sessionClaims{
		Hub: hubID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(ti.method, claims).SignedString(ti.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and decodes the claims.
func (ti *TokenIssuer) Verify(token string) (Claims, error) {
	var sc sessionClaims
	_, err := jwt.ParseWithClaims(token, &sc,
		func(*jwt.Token) (interface{}, error) { return ti.secret, nil },
		jwt.WithValidMethods([]string{ti.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(ti.now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(sc.Subject, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: subject is not a user id", ErrInvalidToken)
	}

	return Claims{
		UserID:    userID,
		HubID:     sc.Hub,
		ExpiresAt: sc.ExpiresAt.Time,
	}, nil
}
