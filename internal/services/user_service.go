package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/Matesfu/Mela-rent/internal/models"
	"github.com/Matesfu/Mela-rent/utils"
)

const minPasswordLength = 8

type UserService struct {
	UserRepo        UserStore
	Sessions        SessionStore
	TokenManager    *utils.Manager
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Now             func() time.Time
	Logger          Logger
}

var errBadCredentials = fmt.Errorf("%w: no active account found with the given credentials", models.ErrUnauthenticated)

// Register creates a TENANT account. A requested role is ignored; promotion
// is an admin operation.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (models.RegisterResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" || req.Password == "" {
		return models.RegisterResponse{}, fmt.Errorf("%w: username, email and password are required", models.ErrInvalidRequest)
	}
	if len(username) > 150 {
		return models.RegisterResponse{}, fmt.Errorf("%w: username is longer than 150 characters", models.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return models.RegisterResponse{}, fmt.Errorf("%w: enter a valid email address", models.ErrInvalidRequest)
	}
	if req.Password != req.Password2 {
		return models.RegisterResponse{}, fmt.Errorf("%w: password fields didn't match", models.ErrInvalidRequest)
	}
	if err := validatePassword(req.Password); err != nil {
		return models.RegisterResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.RegisterResponse{}, err
	}

	user, err := s.UserRepo.CreateUser(ctx, models.User{
		Username:   username,
		Email:      email,
		Password:   string(hashedPassword),
		Role:       models.RoleTenant,
		DateJoined: clock(s.Now),
	})
	switch {
	case errors.Is(err, models.ErrDuplicateEmail):
		return models.RegisterResponse{}, fmt.Errorf("%w: a user with that email already exists", models.ErrInvalidRequest)
	case errors.Is(err, models.ErrDuplicateUsername):
		return models.RegisterResponse{}, fmt.Errorf("%w: a user with that username already exists", models.ErrInvalidRequest)
	case err != nil:
		return models.RegisterResponse{}, err
	}

	logger(s.Logger).Infof("user %d registered", user.ID)
	return models.RegisterResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
		Message:  "User registered successfully",
	}, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("%w: this password is too short. It must contain at least %d characters", models.ErrInvalidRequest, minPasswordLength)
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return fmt.Errorf("%w: this password is entirely numeric", models.ErrInvalidRequest)
	}
	return nil
}

func (s *UserService) SignIn(ctx context.Context, req models.SignInRequest) (models.Tokens, error) {
	if req.Username == "" || req.Password == "" {
		return models.Tokens{}, errBadCredentials
	}
	user, err := s.UserRepo.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, models.ErrNoRecord) {
		return models.Tokens{}, errBadCredentials
	}
	if err != nil {
		return models.Tokens{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return models.Tokens{}, errBadCredentials
	}

	tokens, err := s.CreateSession(ctx, user)
	if err != nil {
		return models.Tokens{}, err
	}
	if err := s.UserRepo.UpdateLastLogin(ctx, user.ID, clock(s.Now)); err != nil {
		logger(s.Logger).Errorf("update last_login for user %d: %v", user.ID, err)
	}
	return tokens, nil
}

// CreateSession issues an access token and stores a refresh-token session.
func (s *UserService) CreateSession(ctx context.Context, user models.User) (models.Tokens, error) {
	now := clock(s.Now)
	accessToken, err := s.TokenManager.NewJWT(user, now, s.AccessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	refreshToken := s.TokenManager.NewRefreshToken()
	session := models.Session{
		UserID:    user.ID,
		Role:      user.Role,
		ExpiresAt: now.Add(s.RefreshTokenTTL),
	}
	if err := s.Sessions.SetSession(ctx, refreshToken, session); err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Refresh exchanges a refresh token for a new access token. The role is
// re-read so promotions take effect without a new sign-in.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (models.Tokens, error) {
	invalid := fmt.Errorf("%w: token is invalid or expired", models.ErrUnauthenticated)
	if refreshToken == "" {
		return models.Tokens{}, invalid
	}
	session, err := s.Sessions.GetSession(ctx, refreshToken)
	if errors.Is(err, models.ErrNoRecord) {
		return models.Tokens{}, invalid
	}
	if err != nil {
		return models.Tokens{}, err
	}
	now := clock(s.Now)
	if !session.ExpiresAt.After(now) {
		return models.Tokens{}, invalid
	}
	user, err := s.UserRepo.GetUserByID(ctx, session.UserID)
	if errors.Is(err, models.ErrNoRecord) {
		if err := s.Sessions.DeleteSession(ctx, refreshToken); err != nil {
			logger(s.Logger).Errorf("delete orphaned session: %v", err)
		}
		return models.Tokens{}, invalid
	}
	if err != nil {
		return models.Tokens{}, err
	}
	accessToken, err := s.TokenManager.NewJWT(user, now, s.AccessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// Authenticate turns a bearer token into a caller.
func (s *UserService) Authenticate(accessToken string) (models.Caller, error) {
	claims, err := s.TokenManager.Parse(accessToken)
	if err != nil {
		return models.Caller{}, fmt.Errorf("%w: given token not valid for any token type", models.ErrUnauthenticated)
	}
	return models.Caller{ID: claims.UserID, Role: claims.Role, Authenticated: true}, nil
}

func (s *UserService) Profile(ctx context.Context, caller models.Caller) (models.User, error) {
	if err := requireAuthenticated(caller); err != nil {
		return models.User{}, err
	}
	user, err := s.UserRepo.GetUserByID(ctx, caller.ID)
	if err != nil {
		return models.User{}, notFound(err, "user not found")
	}
	return user, nil
}

// ChangeRole is the admin endpoint for role changes.
func (s *UserService) ChangeRole(ctx context.Context, caller models.Caller, userID int, role string) (models.User, error) {
	if err := requireRole(caller, models.RoleAdmin, "admin access required"); err != nil {
		return models.User{}, err
	}
	return s.SetRole(ctx, userID, role)
}

// SetRole changes a user's role without an acting caller; used by melactl.
func (s *UserService) SetRole(ctx context.Context, userID int, role string) (models.User, error) {
	r, err := models.ParseRole(role)
	if err != nil {
		return models.User{}, err
	}
	if err := s.UserRepo.UpdateRole(ctx, userID, r); err != nil {
		return models.User{}, notFound(err, "user not found")
	}
	logger(s.Logger).Infof("user %d role set to %s", userID, r)
	return s.UserRepo.GetUserByID(ctx, userID)
}
