package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"recruit-backend/internal/shared/apperr"
	"recruit-backend/internal/shared/util"
	"recruit-backend/internal/users"
)

const minPasswordLength = 6

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)

// TokenPair is the access/refresh credential pair returned by sign-in and
// renewal.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service wraps registration, sign-in and session-rotation rules.
type Service struct {
	Users    users.Repo
	Sessions SessionRepo
	Tokens   *TokenIssuer
}

func NewService(userRepo users.Repo, sessionRepo SessionRepo, tokens *TokenIssuer) *Service {
	return &Service{Users: userRepo, Sessions: sessionRepo, Tokens: tokens}
}

// SignUp registers a new applicant account. All validation runs before any
// write happens.
func (s *Service) SignUp(ctx context.Context, email, password, passwordConfirm, name string) (users.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)

	if email == "" {
		return users.User{}, apperr.New(apperr.KindValidation, "email is required")
	}
	if password == "" {
		return users.User{}, apperr.New(apperr.KindValidation, "password is required")
	}
	if passwordConfirm == "" {
		return users.User{}, apperr.New(apperr.KindValidation, "passwordConfirm is required")
	}
	if name == "" {
		return users.User{}, apperr.New(apperr.KindValidation, "name is required")
	}
	if !emailRegex.MatchString(email) {
		return users.User{}, apperr.New(apperr.KindValidation, "invalid email format")
	}
	if len(password) < minPasswordLength {
		return users.User{}, apperr.New(apperr.KindValidation, "password must be at least 6 characters")
	}
	if password != passwordConfirm {
		return users.User{}, apperr.New(apperr.KindValidation, "passwords do not match")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return users.User{}, err
	}

	user := users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		Name:         name,
		Role:         users.RoleApplicant,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			return users.User{}, apperr.New(apperr.KindConflict, "email already registered")
		}
		return users.User{}, err
	}

	created, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return users.User{}, err
	}
	return created, nil
}

// SignIn verifies credentials and starts a session, replacing any previous
// one for the account.
func (s *Service) SignIn(ctx context.Context, email, password, ip, userAgent string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return TokenPair{}, apperr.New(apperr.KindValidation, "email is required")
	}
	if password == "" {
		return TokenPair{}, apperr.New(apperr.KindValidation, "password is required")
	}
	if !emailRegex.MatchString(email) {
		return TokenPair{}, apperr.New(apperr.KindValidation, "invalid email format")
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return TokenPair{}, apperr.New(apperr.KindValidation, "invalid email or password")
		}
		return TokenPair{}, err
	}
	if user.PasswordHash == "" || !util.VerifyPassword(user.PasswordHash, password) {
		return TokenPair{}, apperr.New(apperr.KindValidation, "invalid email or password")
	}

	return s.startSession(ctx, user.ID, ip, userAgent)
}

// SignInWithGoogle provisions an account for a verified Google identity if
// needed and starts a session.
func (s *Service) SignInWithGoogle(ctx context.Context, email, name, ip, userAgent string) (TokenPair, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return TokenPair{}, apperr.New(apperr.KindValidation, "email is required")
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if errors.Is(err, users.ErrNotFound) {
		user = users.User{
			ID:    uuid.NewString(),
			Email: email,
			Name:  name,
			Role:  users.RoleApplicant,
		}
		if createErr := s.Users.Create(ctx, user); createErr != nil && !errors.Is(createErr, users.ErrDuplicateEmail) {
			return TokenPair{}, createErr
		}
		if user, err = s.Users.GetByEmail(ctx, email); err != nil {
			return TokenPair{}, err
		}
	} else if err != nil {
		return TokenPair{}, err
	}

	return s.startSession(ctx, user.ID, ip, userAgent)
}

// Renew rotates the session: the presented refresh token must match the
// stored hash, then a fresh pair replaces it.
func (s *Service) Renew(ctx context.Context, userID, rawRefreshToken, ip, userAgent string) (TokenPair, error) {
	if err := s.verifyStored(ctx, userID, rawRefreshToken); err != nil {
		return TokenPair{}, err
	}
	return s.startSession(ctx, userID, ip, userAgent)
}

// SignOut revokes the account's session.
func (s *Service) SignOut(ctx context.Context, userID, rawRefreshToken string) error {
	if err := s.verifyStored(ctx, userID, rawRefreshToken); err != nil {
		return err
	}
	return s.Sessions.Delete(ctx, userID)
}

func (s *Service) startSession(ctx context.Context, userID, ip, userAgent string) (TokenPair, error) {
	accessToken, err := s.Tokens.IssueAccessToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, err := s.Tokens.IssueRefreshToken(userID)
	if err != nil {
		return TokenPair{}, err
	}
	tokenHash, err := util.HashToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	if err := s.Sessions.Save(ctx, Session{
		UserID:    userID,
		TokenHash: tokenHash,
		IP:        ip,
		UserAgent: userAgent,
	}); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *Service) verifyStored(ctx context.Context, userID, rawRefreshToken string) error {
	session, err := s.Sessions.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			return apperr.New(apperr.KindUnauthenticated, "credentials revoked")
		}
		return err
	}
	if !util.VerifyToken(session.TokenHash, rawRefreshToken) {
		return apperr.New(apperr.KindUnauthenticated, "credentials revoked")
	}
	return nil
}
