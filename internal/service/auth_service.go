package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/internal/auth"
	"github.com/mmynk/expensegenie/internal/middleware"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	google        *auth.GoogleAuthenticator
	users         auth.UserStorage
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service. google may be nil
// when Google sign-in is not configured.
func NewAuthService(authenticator auth.Authenticator, google *auth.GoogleAuthenticator, users auth.UserStorage, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		google:        google,
		users:         users,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// issue signs a token for user and builds the sign-in response.
func (s *AuthService) issue(user *models.User) (*connect.Response[api.AuthResponse], error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.AuthResponse{
		User:  userToAPI(user, s.jwtManager.IsAdmin(user.Email)),
		Token: token,
	}), nil
}

// GoogleLoginURL returns the Google consent URL and the state value the
// client must hold on to until the redirect comes back.
func (s *AuthService) GoogleLoginURL(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GoogleLoginURLResponse], error) {
	if !s.google.Enabled() {
		return nil, connect.NewError(connect.CodeUnimplemented, auth.ErrGoogleDisabled)
	}
	state := auth.NewState()
	return connect.NewResponse(&api.GoogleLoginURLResponse{
		URL:   s.google.AuthCodeURL(state),
		State: state,
	}), nil
}

// ExchangeGoogleCode completes Google sign-in and returns a session token.
func (s *AuthService) ExchangeGoogleCode(ctx context.Context, req *connect.Request[api.ExchangeGoogleCodeRequest]) (*connect.Response[api.AuthResponse], error) {
	if !s.google.Enabled() {
		return nil, connect.NewError(connect.CodeUnimplemented, auth.ErrGoogleDisabled)
	}
	if strings.TrimSpace(req.Msg.Code) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("code is required"))
	}

	user, err := s.google.Exchange(ctx, req.Msg.Code)
	if err != nil {
		s.logger.Warn("Google sign-in failed", "error", err)
		if errors.Is(err, auth.ErrEmailNotVerified) {
			return nil, connect.NewError(connect.CodePermissionDenied, err)
		}
		if errors.Is(err, auth.ErrGoogleExchange) {
			return nil, connect.NewError(connect.CodeUnauthenticated, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User signed in with Google", "user_id", user.ID, "email", user.Email)
	return s.issue(user)
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Register request", "email", req.Msg.Email)

	if strings.TrimSpace(req.Msg.Email) == "" || strings.TrimSpace(req.Msg.DisplayName) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Register(ctx, req.Msg.Email, strings.TrimSpace(req.Msg.DisplayName), req.Msg.Password)
	if err != nil {
		s.logger.Error("Registration failed", "email", req.Msg.Email, "error", err)
		if errors.Is(err, auth.ErrEmailExists) {
			return nil, connect.NewError(connect.CodeAlreadyExists, err)
		}
		if errors.Is(err, auth.ErrWeakPassword) || errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	s.logger.Info("User registered successfully", "user_id", user.ID, "email", user.Email)
	return s.issue(user)
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Login request", "email", req.Msg.Email)

	if req.Msg.Email == "" || req.Msg.Password == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, auth.ErrInvalidCredentials)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "email", req.Msg.Email, "error", err)
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidCredentials)
	}

	s.logger.Info("User logged in successfully", "user_id", user.ID, "email", user.Email)
	return s.issue(user)
}

// Logout is a no-op: tokens are stateless and the client discards its copy.
func (s *AuthService) Logout(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[emptypb.Empty], error) {
	s.logger.Info("Logout request", "user_id", middleware.GetUserID(ctx))
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetCurrentUser returns the authenticated user's stored profile.
func (s *AuthService) GetCurrentUser(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.GetCurrentUserResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load user", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	if user == nil {
		// Token outlived its account.
		return nil, connect.NewError(connect.CodeUnauthenticated, auth.ErrInvalidToken)
	}

	return connect.NewResponse(&api.GetCurrentUserResponse{
		User: userToAPI(user, middleware.IsAdmin(ctx)),
	}), nil
}
