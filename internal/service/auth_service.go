package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"go-auth-tasks/internal/model"
	"go-auth-tasks/internal/token"
	"go-auth-tasks/pkg/apierror"
)

const bcryptCost = 12

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsername(ctx context.Context, username string) (model.User, error)
	FindByID(ctx context.Context, id int64) (model.User, error)
}

type AuthService struct {
	users      UserStore
	issuer     *token.Issuer
	verifier   *token.Verifier
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(users UserStore, issuer *token.Issuer, verifier *token.Verifier, accessTTL time.Duration, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		issuer:     issuer,
		verifier:   verifier,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return model.PublicUser{}, apierror.New("BAD_REQUEST", "username and password are required", "", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.PublicUser{}, err
	}

	user := model.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, &user); err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

// Authenticate verifies a username/password pair. An unknown username and a
// wrong password are deliberately indistinguishable to the caller.
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (model.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenPair, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issuePair(user)
}

// Refresh rotates a token pair. The presented refresh token is not
// invalidated; validity remains purely signature + expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.verifier.Verify(refreshToken)
	if err != nil {
		return model.TokenPair{}, err
	}

	if claims.Type != token.TypeRefresh {
		return model.TokenPair{}, model.ErrWrongTokenType
	}

	if claims.Subject == "" || claims.UserID == 0 {
		return model.TokenPair{}, model.ErrMalformedClaims
	}

	// The account may have been deleted while the refresh token was still
	// valid; re-check the store before minting a new pair.
	user, err := s.users.FindByUsername(ctx, claims.Subject)
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issuePair(user)
}

func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}

	return user.Public(), nil
}

func (s *AuthService) issuePair(user model.User) (model.TokenPair, error) {
	accessToken, err := s.issuer.Issue(user.Username, user.ID, token.TypeAccess, s.accessTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.issuer.Issue(user.Username, user.ID, token.TypeRefresh, s.refreshTTL)
	if err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}, nil
}
