package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/formacentre/payroll-backend-go/internal/domain/auth"
	"github.com/formacentre/payroll-backend-go/internal/domain/user"
	"github.com/formacentre/payroll-backend-go/internal/pkg/database"
	"github.com/formacentre/payroll-backend-go/internal/pkg/jwt"
	"github.com/formacentre/payroll-backend-go/internal/repository/postgresql"
)

type AuthServiceImpl struct {
	db *database.DB
	user.UserRepository
	auth.RefreshTokenRepository
	jwt.Service
}

func NewAuthService(db *database.DB, userRepository user.UserRepository, refreshTokenRepository auth.RefreshTokenRepository, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		db:                     db,
		UserRepository:         userRepository,
		RefreshTokenRepository: refreshTokenRepository,
		Service:                jwtService,
	}
}

// hashToken stores refresh tokens by digest so a database leak does not leak
// usable credentials.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, track auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	userData, err := a.UserRepository.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	switch userData.Status {
	case user.StatusPending:
		return auth.TokenResponse{}, auth.ErrAccountPending
	case user.StatusInactive:
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Name, userData.Email, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		return a.storeRefreshToken(txCtx, userData.ID, tokenResponse, track)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Refresh implements auth.AuthService. Tokens rotate on every refresh, the
// presented token is revoked and a fresh pair is issued.
func (a *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string, track auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	stored, err := a.RefreshTokenRepository.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		return auth.TokenResponse{}, err
	}
	if stored.IsRevoked() {
		return auth.TokenResponse{}, auth.ErrRefreshTokenRevoked
	}
	if stored.IsExpired(time.Now()) {
		return auth.TokenResponse{}, auth.ErrTokenExpired
	}

	userData, err := a.UserRepository.GetByID(ctx, stored.UserID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to get user for refresh: %w", err)
	}
	if !userData.IsActive() {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	var tokenResponse auth.TokenResponse
	err = postgresql.WithTransaction(ctx, a.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		if err := a.RefreshTokenRepository.Revoke(txCtx, stored.ID); err != nil {
			return err
		}

		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Name, userData.Email, userData.Role)
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}

		return a.storeRefreshToken(txCtx, userData.ID, tokenResponse, track)
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return tokenResponse, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	stored, err := a.RefreshTokenRepository.GetByHash(ctx, hashToken(refreshToken))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			// Already gone, logout is idempotent
			return nil
		}
		return err
	}
	if stored.IsRevoked() {
		return nil
	}
	return a.RefreshTokenRepository.Revoke(ctx, stored.ID)
}

func (a *AuthServiceImpl) storeRefreshToken(ctx context.Context, userID string, tokens auth.TokenResponse, track auth.SessionTrackingRequest) error {
	record := auth.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(tokens.RefreshToken),
		ExpiresAt: time.Unix(tokens.RefreshTokenExpiresIn, 0),
	}
	if track.IPAddress != "" {
		record.IPAddress = &track.IPAddress
	}
	if track.UserAgent != "" {
		record.UserAgent = &track.UserAgent
	}
	if _, err := a.RefreshTokenRepository.Create(ctx, record); err != nil {
		return err
	}
	return nil
}
