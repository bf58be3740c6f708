// AngelaMos | 2026
// service.go

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/forum-system/forum-backend/internal/access"
	"github.com/forum-system/forum-backend/internal/core"
)

// Service owns category lifecycle and grant management, and feeds the
// access resolver with category and grant state. Category management is
// admin-only; the admins table is consulted on every call rather than
// trusting a token snapshot.
type Service struct {
	repo   Repository
	admins access.AdminChecker
}

func NewService(repo Repository, admins access.AdminChecker) *Service {
	return &Service{repo: repo, admins: admins}
}

// GetCategoryState implements access.CategoryProvider.
func (s *Service) GetCategoryState(
	ctx context.Context,
	categoryID string,
) (*access.CategoryState, error) {
	category, err := s.repo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	return &access.CategoryState{
		ID:        category.ID,
		IsPrivate: category.IsPrivate,
		IsLocked:  category.IsLocked,
	}, nil
}

// GetGrant implements access.GrantProvider. A missing row is reported as
// a nil level with no error; the resolver treats nil as "no grant".
func (s *Service) GetGrant(
	ctx context.Context,
	userID, categoryID string,
) (*access.Level, error) {
	grant, err := s.repo.GetGrant(ctx, userID, categoryID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	level := access.Level(grant.AccessLevel)
	return &level, nil
}

func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	isAdmin, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("admin required: %w", core.ErrForbidden)
	}
	return nil
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateCategoryRequest,
) (*Category, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	category := &Category{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Category, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListVisible(
	ctx context.Context,
	userID string,
) ([]Category, error) {
	isAdmin, err := s.admins.IsAdmin(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}

	return s.repo.ListVisible(ctx, userID, isAdmin)
}

func (s *Service) Update(
	ctx context.Context,
	actorID, id string,
	req UpdateCategoryRequest,
) (*Category, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.IsPrivate != nil {
		category.IsPrivate = *req.IsPrivate
	}

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}

// SetLocked toggles the mutation gate. Lock rejects all non-admin writes
// to the category regardless of grants or privacy.
func (s *Service) SetLocked(
	ctx context.Context,
	actorID, id string,
	locked bool,
) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	return s.repo.SetLocked(ctx, id, locked)
}

// SetPrivate toggles the visibility gate. Making a category private hides
// it from everyone without a grant; existing grants keep working.
func (s *Service) SetPrivate(
	ctx context.Context,
	actorID, id string,
	private bool,
) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	return s.repo.SetPrivate(ctx, id, private)
}

func (s *Service) GrantAccess(
	ctx context.Context,
	actorID, categoryID string,
	req GrantRequest,
) (*Grant, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}

	grant := &Grant{
		UserID:      req.UserID,
		CategoryID:  categoryID,
		AccessLevel: req.AccessLevel,
	}

	if err := s.repo.UpsertGrant(ctx, grant); err != nil {
		return nil, err
	}

	return grant, nil
}

func (s *Service) RevokeAccess(
	ctx context.Context,
	actorID, categoryID, userID string,
) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}

	return s.repo.RevokeGrant(ctx, userID, categoryID)
}

func (s *Service) ListGrants(
	ctx context.Context,
	actorID, categoryID string,
) ([]Grant, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	return s.repo.ListGrants(ctx, categoryID)
}

var (
	_ access.CategoryProvider = (*Service)(nil)
	_ access.GrantProvider    = (*Service)(nil)
)
