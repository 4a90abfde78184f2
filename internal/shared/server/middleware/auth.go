package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/shared/apperr"
	"recruit-backend/internal/shared/server/respond"
)

const (
	accountKey  = "account"
	userIDKey   = "userId"
	rawTokenKey = "rawToken"

	// AccessTokenCookie and RefreshTokenCookie carry bearer credentials when
	// the Authorization header is absent. Values are prefixed "Bearer ".
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Account is the resolved identity attached to the request context by the
// auth middlewares.
type Account struct {
	ID    string
	Email string
	Name  string
	Role  string
}

// TokenParser verifies a signed token and returns the embedded account id.
type TokenParser interface {
	ParseAccessToken(token string) (string, error)
	ParseRefreshToken(token string) (string, error)
}

// AccountSource resolves an account id to its identity. Implementations
// return an apperr-tagged error when no account matches.
type AccountSource interface {
	LoadAccount(ctx context.Context, id string) (Account, error)
}

// AccessAuth validates the access credential and attaches the account.
func AccessAuth(parser TokenParser, accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c, AccessTokenCookie)
		if err != nil {
			respond.AppError(c, err)
			return
		}
		accountID, err := parser.ParseAccessToken(token)
		if err != nil {
			respond.AppError(c, err)
			return
		}
		attachAccount(c, accounts, accountID, token, false)
	}
}

// RefreshAuth validates the refresh credential and attaches the account. The
// raw token stays available via RawToken so handlers can check it against the
// stored session hash.
func RefreshAuth(parser TokenParser, accounts AccountSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c, RefreshTokenCookie)
		if err != nil {
			respond.AppError(c, err)
			return
		}
		accountID, err := parser.ParseRefreshToken(token)
		if err != nil {
			respond.AppError(c, err)
			return
		}
		attachAccount(c, accounts, accountID, token, true)
	}
}

// RequireRoles gates a route to accounts whose role is in the allowed set.
// It must run after AccessAuth or RefreshAuth.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, ok := accountFromContext(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "unauthenticated", "credentials required", nil)
			return
		}
		for _, role := range allowed {
			if account.Role == role {
				c.Next()
				return
			}
		}
		respond.Error(c, http.StatusForbidden, "forbidden", "permission denied", nil)
	}
}

// CurrentAccount fetches the account attached by the auth middlewares.
func CurrentAccount(c *gin.Context) Account {
	account, _ := accountFromContext(c)
	return account
}

// UserIDFromContext fetches the account id set by the auth middlewares.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// RawToken fetches the bearer token the auth middleware validated.
func RawToken(c *gin.Context) string {
	val, _ := c.Get(rawTokenKey)
	if token, ok := val.(string); ok {
		return token
	}
	return ""
}

func attachAccount(c *gin.Context, accounts AccountSource, accountID, token string, refresh bool) {
	account, err := accounts.LoadAccount(c.Request.Context(), accountID)
	if err != nil {
		if refresh && apperr.KindOf(err) == apperr.KindUnauthenticated {
			// Drop the cookie so the client stops presenting a credential
			// that no longer maps to an account.
			c.SetCookie(RefreshTokenCookie, "", -1, "/", "", false, true)
		}
		respond.AppError(c, err)
		return
	}
	c.Set(accountKey, account)
	c.Set(userIDKey, account.ID)
	c.Set(rawTokenKey, token)
	c.Next()
}

func accountFromContext(c *gin.Context) (Account, bool) {
	val, ok := c.Get(accountKey)
	if !ok {
		return Account{}, false
	}
	account, ok := val.(Account)
	return account, ok
}

var errNoCredential = apperr.New(apperr.KindUnauthenticated, "credentials required")

// bearerToken extracts the bearer credential from the Authorization header or
// the named cookie.
func bearerToken(c *gin.Context, cookieName string) (string, error) {
	raw := strings.TrimSpace(c.GetHeader("Authorization"))
	if raw == "" {
		if fromCookie, err := c.Cookie(cookieName); err == nil {
			raw = strings.TrimSpace(fromCookie)
		}
	}
	if raw == "" {
		return "", errNoCredential
	}
	scheme, token, found := strings.Cut(raw, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", apperr.New(apperr.KindUnauthenticated, "unsupported authentication scheme")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errNoCredential
	}
	return token, nil
}
