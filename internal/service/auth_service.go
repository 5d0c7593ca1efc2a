package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Freeeeeet/wellness_client/internal/api"
	"github.com/Freeeeeet/wellness_client/internal/api/endpoint"
	"github.com/Freeeeeet/wellness_client/internal/model"
	"go.uber.org/zap"
)

// TokenStore is the session state the auth flows write.
type TokenStore interface {
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	HasToken() bool
}

type Registration struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone,omitempty"`
	Password string         `json:"password"`
	Role     model.UserRole `json:"role,omitempty"`
}

type AuthService struct {
	api     Requester
	session TokenStore
	logger  *zap.Logger
}

func NewAuthService(api Requester, session TokenStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		api:     api,
		session: session,
		logger:  logger,
	}
}

// Register creates an account. It never signs in, even if the server returns a token.
func (s *AuthService) Register(ctx context.Context, reg Registration) (*model.User, error) {
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Email == "" || reg.Password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Endpoint: endpoint.Register, Body: reg})
	if err != nil {
		s.logger.Error("Failed to register", zap.String("email", reg.Email), zap.Error(err))
		return nil, err
	}

	var payload struct {
		User model.User `json:"user"`
	}
	if err := api.DecodeData(resp, &payload); err != nil && !errors.Is(err, api.ErrEmptyData) {
		return nil, err
	}

	s.logger.Info("Account registered",
		zap.String("email", reg.Email),
		zap.String("role", string(reg.Role)))

	return &payload.User, nil
}

// Login signs in and stores the returned token. This is the only call that
// writes the session credential.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required")
	}

	resp, err := s.api.Do(ctx, api.Request{
		Method:   http.MethodPost,
		Endpoint: endpoint.Login,
		Body:     map[string]string{"email": email, "password": password},
	})
	if err != nil {
		s.logger.Warn("Login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	var payload struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	if err := api.DecodeData(resp, &payload); err != nil {
		if errors.Is(err, api.ErrEmptyData) {
			return nil, ErrMissingToken
		}
		return nil, err
	}
	if payload.Token == "" {
		return nil, ErrMissingToken
	}

	if err := s.session.Set(ctx, payload.Token); err != nil {
		// the in-memory session is live, only persistence failed
		s.logger.Warn("Signed in without persisting the session", zap.Error(err))
	}

	s.logger.Info("Logged in",
		zap.String("email", email),
		zap.String("user_id", payload.User.ID),
		zap.String("role", string(payload.User.Role)))

	return &payload.User, nil
}

// LoggedIn reports whether a session credential is held.
func (s *AuthService) LoggedIn() bool {
	return s.session.HasToken()
}

// Logout drops the session credential.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info("Logged out")
	return nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.post(ctx, endpoint.ForgotPassword, map[string]string{"email": strings.TrimSpace(email)})
}

func (s *AuthService) SendOTP(ctx context.Context, email string) error {
	return s.post(ctx, endpoint.SendOTP, map[string]string{"email": strings.TrimSpace(email)})
}

func (s *AuthService) VerifyOTP(ctx context.Context, email, otp string) error {
	return s.post(ctx, endpoint.VerifyOTP, map[string]string{
		"email": strings.TrimSpace(email),
		"otp":   strings.TrimSpace(otp),
	})
}

func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required")
	}
	return s.post(ctx, endpoint.ResetPassword, map[string]string{
		"email":       strings.TrimSpace(email),
		"otp":         strings.TrimSpace(otp),
		"newPassword": newPassword,
	})
}

// Profile reads the signed-in account.
func (s *AuthService) Profile(ctx context.Context) (*model.User, error) {
	if !s.session.HasToken() {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodGet, Endpoint: endpoint.Profile})
	if err != nil {
		return nil, err
	}
	return decodeUser(resp)
}

func (s *AuthService) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	if !s.session.HasToken() {
		return nil, ErrNotLoggedIn
	}

	resp, err := s.api.Do(ctx, api.Request{Method: http.MethodPut, Endpoint: endpoint.UpdateProfile, Body: update})
	if err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, err
	}

	user, err := decodeUser(resp)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", user.ID))
	return user, nil
}

func (s *AuthService) post(ctx context.Context, name endpoint.Name, body any) error {
	if _, err := s.api.Do(ctx, api.Request{Method: http.MethodPost, Endpoint: name, Body: body}); err != nil {
		s.logger.Warn("Auth request failed", zap.String("endpoint", string(name)), zap.Error(err))
		return err
	}
	return nil
}

// decodeUser accepts data as the user itself or as {"user": {...}}.
func decodeUser(resp *api.Response) (*model.User, error) {
	var wrapped struct {
		User *model.User `json:"user"`
	}
	if err := api.DecodeData(resp, &wrapped); err == nil && wrapped.User != nil {
		return wrapped.User, nil
	}

	var user model.User
	if err := api.DecodeData(resp, &user); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &user, nil
}
