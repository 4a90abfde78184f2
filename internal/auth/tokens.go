package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"recruit-backend/internal/shared/apperr"
)

const (
	accessTokenTTL  = 12 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// TokenIssuer mints and verifies the access/refresh token pair. Access and
// refresh tokens are signed with separate symmetric secrets so one cannot be
// presented in place of the other.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

// NewTokenIssuer constructs a TokenIssuer. Missing secrets are a fatal
// configuration error, not a request-level failure.
func NewTokenIssuer(accessSecret, refreshSecret string) (*TokenIssuer, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, errors.New("token signing secrets are not configured")
	}
	return &TokenIssuer{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}, nil
}

// IssueAccessToken returns a signed token embedding the account id, valid for
// twelve hours.
func (t *TokenIssuer) IssueAccessToken(accountID string) (string, error) {
	return t.sign(accountID, t.accessSecret, accessTokenTTL)
}

// IssueRefreshToken returns a signed token embedding the account id, valid
// for seven days.
func (t *TokenIssuer) IssueRefreshToken(accountID string) (string, error) {
	return t.sign(accountID, t.refreshSecret, refreshTokenTTL)
}

// ParseAccessToken verifies an access token and returns the account id.
func (t *TokenIssuer) ParseAccessToken(token string) (string, error) {
	return t.parse(token, t.accessSecret)
}

// ParseRefreshToken verifies a refresh token and returns the account id.
func (t *TokenIssuer) ParseRefreshToken(token string) (string, error) {
	return t.parse(token, t.refreshSecret)
}

func (t *TokenIssuer) sign(accountID string, secret []byte, ttl time.Duration) (string, error) {
	now := t.now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (t *TokenIssuer) parse(token string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", apperr.New(apperr.KindUnauthenticated, "credentials expired")
		}
		return "", apperr.New(apperr.KindUnauthenticated, "credentials invalid")
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", apperr.New(apperr.KindUnauthenticated, "credentials invalid")
	}
	return claims.Subject, nil
}
