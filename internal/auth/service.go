// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/forum-system/forum-backend/internal/core"
	"github.com/forum-system/forum-backend/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
	ErrEmailExists        = errors.New("email already exists")
)

type UserInfo struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	TokenVersion string
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	Create(
		ctx context.Context,
		username, email, passwordHash string,
	) (*UserInfo, error)
	BumpTokenVersion(ctx context.Context, userID string) (string, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

type Service struct {
	jwt   *JWTManager
	users UserProvider
}

func NewService(jwt *JWTManager, users UserProvider) *Service {
	return &Service{
		jwt:   jwt,
		users: users,
	}
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := core.VerifyPasswordTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		//nolint:errcheck // best-effort rehash upgrade
		_ = s.users.UpdatePassword(ctx, user.ID, newHash)
	}

	return s.issueSessionPair(ctx, user)
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, req.Username, req.Email, passwordHash)
	if err != nil {
		return nil, err
	}

	return s.issueSessionPair(ctx, user)
}

// issueSessionPair bumps the subject's epoch before minting either token, so
// every login invalidates all previously issued tokens for that user. This is
// a single-active-session model; there is no per-device state.
func (s *Service) issueSessionPair(
	ctx context.Context,
	user *UserInfo,
) (*AuthResponse, error) {
	epoch, err := s.users.BumpTokenVersion(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("bump token version: %w", err)
	}

	isAdmin, err := s.users.IsAdmin(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}

	claims := SessionClaims{
		UserID:  user.ID,
		Epoch:   epoch,
		IsAdmin: isAdmin,
	}

	accessToken, err := s.jwt.IssueAccessToken(claims)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.jwt.IssueRefreshToken(claims)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthResponse{
		User: UserResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
		Tokens: TokenResponse{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			TokenType:    "Bearer",
			ExpiresIn:    int(s.jwt.AccessTokenTTL().Seconds()),
		},
	}, nil
}

// VerifySessionToken checks signature and expiry, then re-reads the subject's
// current epoch so revocation is visible to the very next request. A token
// whose embedded epoch differs from the stored one is treated as revoked.
func (s *Service) VerifySessionToken(
	ctx context.Context,
	token string,
) (*middleware.Principal, error) {
	claims, err := s.jwt.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf(
				"verify token: unknown subject: %w",
				core.ErrTokenInvalid,
			)
		}
		return nil, fmt.Errorf("verify token: %w", err)
	}

	if claims.Epoch != user.TokenVersion {
		return nil, fmt.Errorf(
			"verify token: stale epoch: %w",
			core.ErrTokenRevoked,
		)
	}

	return &middleware.Principal{
		UserID:  claims.UserID,
		Epoch:   claims.Epoch,
		IsAdmin: claims.IsAdmin,
	}, nil
}

// Refresh verifies the refresh token exactly like an access token and mints
// a new access token carrying the same epoch and admin snapshot. It never
// bumps the epoch: refreshing must not revoke the session that issued it.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenResponse, error) {
	principal, err := s.VerifySessionToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.IssueAccessToken(SessionClaims{
		UserID:  principal.UserID,
		Epoch:   principal.Epoch,
		IsAdmin: principal.IsAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.jwt.AccessTokenTTL().Seconds()),
	}, nil
}

// Revoke bumps the subject's epoch, invalidating every outstanding token
// immediately. No blacklist is kept; the epoch check does the work.
func (s *Service) Revoke(ctx context.Context, subjectID string) error {
	if _, err := s.users.BumpTokenVersion(ctx, subjectID); err != nil {
		return fmt.Errorf("revoke: %w", err)
	}

	return nil
}

func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.Revoke(ctx, userID)
}

func (s *Service) ChangePassword(
	ctx context.Context,
	userID, currentPassword, newPassword string,
) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	valid, _, err := core.VerifyPasswordWithRehash(
		currentPassword,
		user.PasswordHash,
	)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return ErrInvalidCredentials
	}

	newHash, err := core.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, userID, newHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.Revoke(ctx, userID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	return nil
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}
