package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Hostella/service-admin/internal/hostella"
)

// AuthService signs the admin in and out.
type AuthService struct {
	gateway AuthGateway
	tokens  hostella.TokenStore
	logger  *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(gateway AuthGateway, tokens hostella.TokenStore, logger *zap.Logger) *AuthService {
	return &AuthService{gateway: gateway, tokens: tokens, logger: logger}
}

// Login authenticates upstream and stores the issued token.
func (s *AuthService) Login(ctx context.Context, creds hostella.Credentials) (*hostella.Session, error) {
	if err := validateStruct(creds); err != nil {
		return nil, err
	}
	session, err := s.gateway.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	if session.Token == "" {
		return nil, fmt.Errorf("login returned no token")
	}
	if err := s.tokens.SetToken(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.logger.Info("admin signed in", zap.String("email", creds.Email))
	return session, nil
}

// Me returns the signed-in admin.
func (s *AuthService) Me(ctx context.Context) (*hostella.Admin, error) {
	return s.gateway.Me(ctx)
}

// UpdateProfile edits the signed-in admin's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, upd hostella.ProfileUpdate) (*hostella.Admin, error) {
	return s.gateway.UpdateProfile(ctx, upd)
}

// Logout forgets the stored token.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
