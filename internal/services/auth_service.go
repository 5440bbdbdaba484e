package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/oauth2"

	"github.com/P4t4m8n/buff-buddy-api/internal/models"
	"github.com/P4t4m8n/buff-buddy-api/internal/validation"
	"github.com/P4t4m8n/buff-buddy-api/pkg/utils"
)

type userStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, input models.UpdateUserInput) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
}

type authRecorder interface {
	AuthEvent(flow, outcome string)
}

// AuthResult is a signed-in user together with the token to hand back as a cookie.
type AuthResult struct {
	User  *models.SessionUser
	Token string
}

type AuthService struct {
	users      userStore
	jwtSecret  string
	saltRounds int
	provider   IdentityProvider
	recorder   authRecorder
}

// NewAuthService builds the account service. provider is nil when external
// sign-in is not configured; recorder may be nil.
func NewAuthService(
	users userStore,
	jwtSecret string,
	saltRounds int,
	provider IdentityProvider,
	recorder authRecorder,
) *AuthService {
	return &AuthService{
		users:      users,
		jwtSecret:  jwtSecret,
		saltRounds: saltRounds,
		provider:   provider,
		recorder:   recorder,
	}
}

func (s *AuthService) SignUp(ctx context.Context, input models.SignUpInput) (*AuthResult, error) {
	result, err := s.signUp(ctx, input)
	s.record("sign_up", err)
	return result, err
}

func (s *AuthService) signUp(ctx context.Context, input models.SignUpInput) (*AuthResult, error) {
	user := &models.User{
		Email:     input.Email,
		GoogleID:  input.GoogleID,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		ImgURL:    input.ImgURL,
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password, s.saltRounds)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = &hashed
		user.GoogleID = nil
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return s.issue(user)
}

// SignIn checks local credentials, or the provider id when GoogleID is set.
// An unknown email yields ErrAccountNotFound.
func (s *AuthService) SignIn(ctx context.Context, input models.SignInInput) (*AuthResult, error) {
	result, err := s.signIn(ctx, input)
	s.record("sign_in", err)
	return result, err
}

func (s *AuthService) signIn(ctx context.Context, input models.SignInInput) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	switch {
	case input.GoogleID != nil:
		if user.GoogleID == nil {
			return nil, ErrIdentityMismatch
		}
		if *user.GoogleID != *input.GoogleID {
			return nil, ErrInvalidCredentials
		}
	case input.Password != nil:
		if user.PasswordHash == nil || !utils.CheckPassword(*input.Password, *user.PasswordHash) {
			return nil, ErrInvalidCredentials
		}
	default:
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Session resolves a token to the current user. Every failure, including a
// user deleted after the token was issued, is ErrUnauthenticated.
func (s *AuthService) Session(ctx context.Context, token string) (*models.SessionUser, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	claims, err := utils.ValidateToken(token, s.jwtSecret)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return models.NewSessionUser(user), nil
}

func (s *AuthService) UpdateProfile(
	ctx context.Context,
	actor models.Actor,
	input models.UpdateUserInput,
) (*models.SessionUser, error) {
	if actor.UserID == "" {
		return nil, ErrUnauthenticated
	}
	user, err := s.users.UpdateProfile(ctx, actor.UserID, input)
	if err != nil {
		return nil, notFound(err)
	}
	return models.NewSessionUser(user), nil
}

// ChangePassword replaces the password of a local account after verifying
// the current one.
func (s *AuthService) ChangePassword(
	ctx context.Context,
	actor models.Actor,
	input models.ChangePasswordInput,
) error {
	if actor.UserID == "" {
		return ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		return notFound(err)
	}
	if user.PasswordHash == nil {
		return ErrIdentityMismatch
	}
	if !utils.CheckPassword(input.CurrentPassword, *user.PasswordHash) {
		return validation.Errors{"currentPassword": "Current password is incorrect"}
	}

	hashed, err := utils.HashPassword(input.NewPassword, s.saltRounds)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, user.ID, hashed); err != nil {
		return notFound(err)
	}
	return nil
}

// ExternalAuthRequest is a started provider flow. State and Verifier must be
// kept by the client until the callback.
type ExternalAuthRequest struct {
	URL      string
	State    string
	Verifier string
}

func (s *AuthService) BeginExternalSignIn() (*ExternalAuthRequest, error) {
	if s.provider == nil {
		return nil, ErrProviderDisabled
	}
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	return &ExternalAuthRequest{
		URL:      s.provider.AuthCodeURL(state, verifier),
		State:    state,
		Verifier: verifier,
	}, nil
}

// ExternalSignIn completes the provider flow: exchange the code, sign in with
// the vouched identity, and register it when the email is unknown.
func (s *AuthService) ExternalSignIn(ctx context.Context, code, verifier string) (*AuthResult, error) {
	result, err := s.externalSignIn(ctx, code, verifier)
	s.record("google", err)
	return result, err
}

func (s *AuthService) externalSignIn(ctx context.Context, code, verifier string) (*AuthResult, error) {
	if s.provider == nil {
		return nil, ErrProviderDisabled
	}
	if code == "" {
		return nil, ErrProviderExchange
	}

	profile, err := s.provider.Exchange(ctx, code, verifier)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderExchange, err)
	}

	identity, err := validation.ExternalIdentity(map[string]any{
		"googleId":  profile.ProviderID,
		"email":     profile.Email,
		"firstName": profile.FirstName,
		"lastName":  profile.LastName,
		"imgUrl":    profile.Picture,
	})
	if err != nil {
		return nil, err
	}

	result, err := s.signIn(ctx, models.SignInInput{Email: identity.Email, GoogleID: identity.GoogleID})
	if errors.Is(err, ErrAccountNotFound) {
		return s.signUp(ctx, identity)
	}
	return result, err
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateToken(user.ID, user.IsAdmin, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &AuthResult{User: models.NewSessionUser(user), Token: token}, nil
}

func (s *AuthService) record(flow string, err error) {
	if s.recorder == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	s.recorder.AuthEvent(flow, outcome)
}
