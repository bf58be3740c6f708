// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"errors"
	"testing"

	"github.com/forum-system/forum-backend/internal/auth"
	"github.com/forum-system/forum-backend/internal/core"
)

type fakeRepo struct {
	users  map[string]*User
	admins map[string]*Admin
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:  make(map[string]*User),
		admins: make(map[string]*Admin),
	}
}

func (f *fakeRepo) Create(_ context.Context, user *User) error {
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeRepo) GetByUsername(
	_ context.Context,
	username string,
) (*User, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) GetByEmail(
	_ context.Context,
	email string,
) (*User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) UpdatePassword(
	_ context.Context,
	id, passwordHash string,
) error {
	user, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func (f *fakeRepo) BumpTokenVersion(
	_ context.Context,
	id, newVersion string,
) error {
	user, ok := f.users[id]
	if !ok {
		return core.ErrNotFound
	}
	user.TokenVersion = newVersion
	return nil
}

func (f *fakeRepo) IsAdmin(_ context.Context, userID string) (bool, error) {
	_, ok := f.admins[userID]
	return ok, nil
}

func (f *fakeRepo) GrantAdmin(_ context.Context, admin *Admin) error {
	if _, ok := f.admins[admin.UserID]; ok {
		return core.ErrDuplicateKey
	}
	copied := *admin
	f.admins[admin.UserID] = &copied
	return nil
}

func (f *fakeRepo) RevokeAdmin(_ context.Context, userID string) error {
	if _, ok := f.admins[userID]; !ok {
		return core.ErrNotFound
	}
	delete(f.admins, userID)
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListUsersParams,
) ([]User, int, error) {
	var users []User
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, len(users), nil
}

func TestCreateRejectsDuplicates(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "Alice@Example.com", "hash")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.TokenVersion == "" {
		t.Error("TokenVersion is empty, want a fresh epoch")
	}

	_, err = svc.Create(ctx, "alice", "other@example.com", "hash")
	if !errors.Is(err, auth.ErrUsernameExists) {
		t.Fatalf("duplicate username: error = %v, want ErrUsernameExists", err)
	}

	_, err = svc.Create(ctx, "alice2", "ALICE@example.com", "hash")
	if !errors.Is(err, auth.ErrEmailExists) {
		t.Fatalf("duplicate email: error = %v, want ErrEmailExists", err)
	}
}

func TestBumpTokenVersionReplacesEpoch(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", "alice@example.com", "hash")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newEpoch, err := svc.BumpTokenVersion(ctx, created.ID)
	if err != nil {
		t.Fatalf("BumpTokenVersion() error = %v", err)
	}
	if newEpoch == created.TokenVersion {
		t.Fatal("epoch unchanged after bump")
	}
	if repo.users[created.ID].TokenVersion != newEpoch {
		t.Fatal("stored epoch does not match returned value")
	}

	_, err = svc.BumpTokenVersion(ctx, "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown user: error = %v, want ErrNotFound", err)
	}
}

func TestAdminCapabilityLifecycle(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, "carol", "carol@example.com", "hash")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	isAdmin, err := svc.IsAdmin(ctx, created.ID)
	if err != nil || isAdmin {
		t.Fatalf("IsAdmin() = (%v, %v), want (false, nil)", isAdmin, err)
	}

	if err := svc.GrantAdmin(ctx, created.ID); err != nil {
		t.Fatalf("GrantAdmin() error = %v", err)
	}

	isAdmin, err = svc.IsAdmin(ctx, created.ID)
	if err != nil || !isAdmin {
		t.Fatalf("IsAdmin() = (%v, %v), want (true, nil)", isAdmin, err)
	}

	if err := svc.RevokeAdmin(ctx, created.ID); err != nil {
		t.Fatalf("RevokeAdmin() error = %v", err)
	}

	isAdmin, err = svc.IsAdmin(ctx, created.ID)
	if err != nil || isAdmin {
		t.Fatalf("IsAdmin() after revoke = (%v, %v), want (false, nil)", isAdmin, err)
	}

	if err := svc.GrantAdmin(ctx, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("grant to unknown user: error = %v, want ErrNotFound", err)
	}
}
