// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/forum-system/forum-backend/internal/auth"
	"github.com/forum-system/forum-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Create rejects duplicate usernames and emails separately so the caller can
// report which field conflicted.
func (s *Service) Create(
	ctx context.Context,
	username, email, passwordHash string,
) (*auth.UserInfo, error) {
	email = strings.ToLower(email)

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, auth.ErrUsernameExists
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, auth.ErrEmailExists
	}

	user := &User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TokenVersion: uuid.New().String(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// BumpTokenVersion installs a fresh epoch for the user and returns it. Every
// token minted before the bump fails verification on its next use.
func (s *Service) BumpTokenVersion(
	ctx context.Context,
	userID string,
) (string, error) {
	newVersion := uuid.New().String()

	if err := s.repo.BumpTokenVersion(ctx, userID, newVersion); err != nil {
		return "", err
	}

	return newVersion, nil
}

func (s *Service) Exists(ctx context.Context, userID string) (bool, error) {
	_, err := s.repo.GetByID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *Service) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return s.repo.IsAdmin(ctx, userID)
}

func (s *Service) GrantAdmin(ctx context.Context, userID string) error {
	if _, err := s.repo.GetByID(ctx, userID); err != nil {
		return err
	}

	admin := &Admin{
		ID:     uuid.New().String(),
		UserID: userID,
	}

	if err := s.repo.GrantAdmin(ctx, admin); err != nil {
		return err
	}

	return nil
}

func (s *Service) RevokeAdmin(ctx context.Context, userID string) error {
	return s.repo.RevokeAdmin(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		TokenVersion: u.TokenVersion,
	}
}

var _ auth.UserProvider = (*Service)(nil)
