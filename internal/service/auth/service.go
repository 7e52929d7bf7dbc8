package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/islandhr/payroll-backend-go/internal/domain/auth"
	"github.com/islandhr/payroll-backend-go/internal/domain/user"
	"github.com/islandhr/payroll-backend-go/internal/pkg/database"
	"github.com/islandhr/payroll-backend-go/internal/pkg/email"
	"github.com/islandhr/payroll-backend-go/internal/pkg/jwt"
	"github.com/islandhr/payroll-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db         *database.DB
	userRepo   user.UserRepository
	jwtRepo    postgresql.JWTRepository
	jwtService jwt.Service
	mailer     email.EmailService
	logger     *slog.Logger
}

func NewAuthService(
	db *database.DB,
	userRepo user.UserRepository,
	jwtRepo postgresql.JWTRepository,
	jwtService jwt.Service,
	mailer email.EmailService,
	logger *slog.Logger,
) auth.AuthService {
	return &AuthServiceImpl{
		db:         db,
		userRepo:   userRepo,
		jwtRepo:    jwtRepo,
		jwtService: jwtService,
		mailer:     mailer,
		logger:     logger,
	}
}

// Login implements auth.AuthService. It returns the login payload plus the
// refresh token and its expiry for the handler to set as a cookie.
func (s *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.LoginResponse, string, int64, error) {
	if err := req.Validate(); err != nil {
		return auth.LoginResponse{}, "", 0, err
	}

	u, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
		}
		return auth.LoginResponse{}, "", 0, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.LoginResponse{}, "", 0, auth.ErrInvalidCredentials
	}
	if !u.IsActive {
		return auth.LoginResponse{}, "", 0, auth.ErrUserInactive
	}

	accessToken, accessExpiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.LoginResponse{}, "", 0, err
	}
	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.LoginResponse{}, "", 0, err
	}
	if err := s.jwtRepo.CreateRefreshToken(ctx, u.ID, refreshToken, refreshExpiresAt); err != nil {
		return auth.LoginResponse{}, "", 0, err
	}

	resp := auth.LoginResponse{
		User: auth.UserResponse{
			ID:    u.ID,
			Email: u.Email,
			Name:  u.Name,
			Role:  string(u.Role),
		},
		Token: auth.TokenResponse{
			AccessToken: accessToken,
			TokenType:   "Bearer",
			ExpiresAt:   accessExpiresAt,
		},
	}
	return resp, refreshToken, refreshExpiresAt, nil
}

// Register implements auth.AuthService.
func (s *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.UserResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return auth.UserResponse{}, err
	}

	created, err := s.userRepo.Create(ctx, user.User{
		Email:        strings.ToLower(req.Email),
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         user.Role(req.Role),
		IsActive:     true,
	})
	if err != nil {
		return auth.UserResponse{}, err
	}

	if err := s.mailer.SendWelcome(created.Email, created.Name); err != nil {
		s.logger.Warn("send welcome email", slog.String("email", created.Email), slog.String("error", err.Error()))
	}

	return auth.UserResponse{
		ID:    created.ID,
		Email: created.Email,
		Name:  created.Name,
		Role:  string(created.Role),
	}, nil
}

// Refresh implements auth.AuthService. A revoked or expired refresh token is
// rejected; a valid one yields a fresh access token only, the refresh token
// itself is not rotated.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (auth.TokenResponse, error) {
	userID, err := s.verifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidToken
		}
		return auth.TokenResponse{}, err
	}
	if !u.IsActive {
		return auth.TokenResponse{}, auth.ErrUserInactive
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.TokenResponse{}, err
	}
	return auth.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.verifyRefreshToken(ctx, refreshToken); err != nil {
		return err
	}
	return s.jwtRepo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthServiceImpl) verifyRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", auth.ErrInvalidToken
	}

	token, err := jwtauth.VerifyToken(s.jwtService.JWTAuth(), refreshToken)
	if err != nil {
		return "", auth.ErrInvalidToken
	}

	tokenType, _ := token.Get("type")
	if tokenType != "refresh" {
		return "", auth.ErrInvalidToken
	}
	userID, ok := token.Get("user_id")
	if !ok {
		return "", auth.ErrInvalidToken
	}

	revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", auth.ErrInvalidToken
		}
		return "", err
	}
	if revoked {
		return "", auth.ErrRefreshTokenRevoked
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", auth.ErrInvalidToken
	}
	return id, nil
}
