// AngelaMos | 2026
// resolver_test.go

package access

import (
	"context"
	"errors"
	"testing"

	"github.com/forum-system/forum-backend/internal/core"
)

func levelPtr(l Level) *Level {
	return &l
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		isAdmin  bool
		category CategoryState
		grant    *Level
		mode     Mode
		want     bool
	}{
		{
			name:     "public category read without grant",
			category: CategoryState{},
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "public category write without grant",
			category: CategoryState{},
			mode:     ModeWrite,
			want:     true,
		},
		{
			name:     "locked category rejects write even with write grant",
			category: CategoryState{IsLocked: true},
			grant:    levelPtr(LevelWrite),
			mode:     ModeWrite,
			want:     false,
		},
		{
			name:     "locked public category still allows read",
			category: CategoryState{IsLocked: true},
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "locked private category read needs grant",
			category: CategoryState{IsLocked: true, IsPrivate: true},
			grant:    levelPtr(LevelRead),
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "private category read without grant",
			category: CategoryState{IsPrivate: true},
			mode:     ModeRead,
			want:     false,
		},
		{
			name:     "private category read with read grant",
			category: CategoryState{IsPrivate: true},
			grant:    levelPtr(LevelRead),
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "private category read with write grant",
			category: CategoryState{IsPrivate: true},
			grant:    levelPtr(LevelWrite),
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "private category write with read grant is denied",
			category: CategoryState{IsPrivate: true},
			grant:    levelPtr(LevelRead),
			mode:     ModeWrite,
			want:     false,
		},
		{
			name:     "private category write with write grant",
			category: CategoryState{IsPrivate: true},
			grant:    levelPtr(LevelWrite),
			mode:     ModeWrite,
			want:     true,
		},
		{
			name:     "admin bypasses lock",
			isAdmin:  true,
			category: CategoryState{IsLocked: true},
			mode:     ModeWrite,
			want:     true,
		},
		{
			name:     "admin bypasses privacy without grant",
			isAdmin:  true,
			category: CategoryState{IsPrivate: true},
			mode:     ModeRead,
			want:     true,
		},
		{
			name:     "admin bypasses locked private write",
			isAdmin:  true,
			category: CategoryState{IsLocked: true, IsPrivate: true},
			mode:     ModeWrite,
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.isAdmin, tt.category, tt.grant, tt.mode)
			if got.Allowed != tt.want {
				t.Fatalf(
					"Resolve() allowed = %v, want %v (reason %q)",
					got.Allowed,
					tt.want,
					got.Reason,
				)
			}
		})
	}
}

type fakeCategories struct {
	categories map[string]CategoryState
}

func (f *fakeCategories) GetCategoryState(
	_ context.Context,
	categoryID string,
) (*CategoryState, error) {
	cat, ok := f.categories[categoryID]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &cat, nil
}

type fakeGrants struct {
	grants map[string]Level
}

func grantKey(userID, categoryID string) string {
	return userID + "/" + categoryID
}

func (f *fakeGrants) GetGrant(
	_ context.Context,
	userID, categoryID string,
) (*Level, error) {
	level, ok := f.grants[grantKey(userID, categoryID)]
	if !ok {
		return nil, nil
	}
	return &level, nil
}

type fakeAdmins struct {
	admins map[string]bool
}

func (f *fakeAdmins) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func newTestResolver(
	categories map[string]CategoryState,
	grants map[string]Level,
	admins map[string]bool,
) *Resolver {
	return NewResolver(
		&fakeCategories{categories: categories},
		&fakeGrants{grants: grants},
		&fakeAdmins{admins: admins},
	)
}

func TestResolverCanAccessMissingCategory(t *testing.T) {
	resolver := newTestResolver(nil, nil, nil)

	err := resolver.CanAccess(context.Background(), "u1", "missing", ModeRead)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("CanAccess() error = %v, want ErrNotFound", err)
	}
}

func TestResolverCanAccessDenied(t *testing.T) {
	resolver := newTestResolver(
		map[string]CategoryState{
			"private": {ID: "private", IsPrivate: true},
		},
		nil,
		nil,
	)

	err := resolver.CanAccess(context.Background(), "u1", "private", ModeRead)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("CanAccess() error = %v, want ErrForbidden", err)
	}
}

func TestResolverAdminShortCircuitsGrantLookup(t *testing.T) {
	resolver := newTestResolver(
		map[string]CategoryState{
			"locked": {ID: "locked", IsPrivate: true, IsLocked: true},
		},
		nil,
		map[string]bool{"carol": true},
	)

	decision, err := resolver.Decide(
		context.Background(),
		"carol",
		"locked",
		ModeWrite,
	)
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if !decision.Allowed || decision.Reason != ReasonAdmin {
		t.Fatalf(
			"Decide() = %+v, want allowed with admin reason",
			decision,
		)
	}
}
