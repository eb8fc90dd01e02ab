package service

import (
	"context"
	"strings"

	"github.com/sangkips/shopfront-pos/pkg/apperror"
	"github.com/sangkips/shopfront-pos/pkg/utils"
)

// AuthService logs operators in with a PIN checked against configured
// bcrypt hashes.
type AuthService struct {
	operators  map[string]string
	jwtManager *utils.JWTManager
}

// NewAuthService creates a new auth service. operators maps an operator
// name to the bcrypt hash of their PIN.
func NewAuthService(operators map[string]string, jwtManager *utils.JWTManager) *AuthService {
	return &AuthService{
		operators:  operators,
		jwtManager: jwtManager,
	}
}

// LoginInput represents the login input
type LoginInput struct {
	Operator string
	PIN      string
}

// LoginOutput represents the login output
type LoginOutput struct {
	Operator     string `json:"operator"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// Login authenticates an operator and returns tokens
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	operator := strings.TrimSpace(input.Operator)
	hash, ok := s.operators[operator]
	if !ok || !utils.CheckPasswordHash(input.PIN, hash) {
		return nil, apperror.ErrInvalidCredentials
	}
	return s.issue(operator, utils.NewSessionID())
}

// RefreshToken generates new tokens from a refresh token. Operators removed
// from the configuration can no longer refresh.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*LoginOutput, error) {
	operator, sessionID, err := s.jwtManager.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperror.ErrInvalidToken
	}
	if _, ok := s.operators[operator]; !ok {
		return nil, apperror.ErrInvalidToken
	}
	return s.issue(operator, sessionID)
}

func (s *AuthService) issue(operator, sessionID string) (*LoginOutput, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(operator, sessionID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(operator, sessionID)
	if err != nil {
		return nil, err
	}

	return &LoginOutput{
		Operator:     operator,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwtManager.AccessExpiry().Seconds()),
	}, nil
}
