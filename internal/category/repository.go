// AngelaMos | 2026
// repository.go

package category

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forum-system/forum-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, category *Category) error
	GetByID(ctx context.Context, id string) (*Category, error)
	ListVisible(
		ctx context.Context,
		userID string,
		isAdmin bool,
	) ([]Category, error)
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, locked bool) error
	SetPrivate(ctx context.Context, id string, private bool) error

	GetGrant(ctx context.Context, userID, categoryID string) (*Grant, error)
	UpsertGrant(ctx context.Context, grant *Grant) error
	RevokeGrant(ctx context.Context, userID, categoryID string) error
	ListGrants(ctx context.Context, categoryID string) ([]Grant, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, category *Category) error {
	query := `
		INSERT INTO categories (id, name, description, is_private, is_locked)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &category.CreatedAt, query,
		category.ID,
		category.Name,
		category.Description,
		category.IsPrivate,
		category.IsLocked,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create category: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Category, error) {
	query := `
		SELECT id, name, description, is_private, is_locked, created_at
		FROM categories
		WHERE id = $1`

	var category Category
	err := r.db.GetContext(ctx, &category, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get category: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	return &category, nil
}

// ListVisible returns public categories plus any private ones the user
// holds a grant on. Admins see everything.
func (r *repository) ListVisible(
	ctx context.Context,
	userID string,
	isAdmin bool,
) ([]Category, error) {
	query := `
		SELECT c.id, c.name, c.description, c.is_private, c.is_locked, c.created_at
		FROM categories c
		WHERE $2
		   OR c.is_private = FALSE
		   OR EXISTS (
				SELECT 1 FROM user_category_permissions p
				WHERE p.category_id = c.id AND p.user_id = $1)
		ORDER BY c.name`

	var categories []Category
	err := r.db.SelectContext(ctx, &categories, query, userID, isAdmin)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

func (r *repository) Update(ctx context.Context, category *Category) error {
	query := `
		UPDATE categories
		SET name = $2, description = $3, is_private = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name,
		category.Description,
		category.IsPrivate,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update category: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update category: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM categories WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete category: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetLocked(
	ctx context.Context,
	id string,
	locked bool,
) error {
	return r.setFlag(ctx, "is_locked", id, locked)
}

func (r *repository) SetPrivate(
	ctx context.Context,
	id string,
	private bool,
) error {
	return r.setFlag(ctx, "is_private", id, private)
}

func (r *repository) setFlag(
	ctx context.Context,
	column, id string,
	value bool,
) error {
	query := fmt.Sprintf("UPDATE categories SET %s = $2 WHERE id = $1", column)

	result, err := r.db.ExecContext(ctx, query, id, value)
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set %s: %w", column, err)
	}

	if rows == 0 {
		return fmt.Errorf("set %s: %w", column, core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetGrant(
	ctx context.Context,
	userID, categoryID string,
) (*Grant, error) {
	query := `
		SELECT user_id, category_id, access_level, created_at
		FROM user_category_permissions
		WHERE user_id = $1 AND category_id = $2`

	var grant Grant
	err := r.db.GetContext(ctx, &grant, query, userID, categoryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get grant: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get grant: %w", err)
	}

	return &grant, nil
}

// UpsertGrant keeps the at-most-one-row-per-pair invariant: re-granting
// replaces the access level in place.
func (r *repository) UpsertGrant(ctx context.Context, grant *Grant) error {
	query := `
		INSERT INTO user_category_permissions (user_id, category_id, access_level)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, category_id)
		DO UPDATE SET access_level = EXCLUDED.access_level
		RETURNING created_at`

	err := r.db.GetContext(ctx, &grant.CreatedAt, query,
		grant.UserID,
		grant.CategoryID,
		grant.AccessLevel,
	)
	if err != nil {
		return fmt.Errorf("upsert grant: %w", err)
	}

	return nil
}

func (r *repository) RevokeGrant(
	ctx context.Context,
	userID, categoryID string,
) error {
	query := `
		DELETE FROM user_category_permissions
		WHERE user_id = $1 AND category_id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, categoryID)
	if err != nil {
		return fmt.Errorf("revoke grant: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke grant: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("revoke grant: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ListGrants(
	ctx context.Context,
	categoryID string,
) ([]Grant, error) {
	query := `
		SELECT user_id, category_id, access_level, created_at
		FROM user_category_permissions
		WHERE category_id = $1
		ORDER BY created_at`

	var grants []Grant
	err := r.db.SelectContext(ctx, &grants, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list grants: %w", err)
	}

	return grants, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
