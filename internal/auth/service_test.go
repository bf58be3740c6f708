// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/forum-system/forum-backend/internal/core"
)

type fakeUsers struct {
	users  map[string]*UserInfo
	admins map[string]bool
	bumps  int
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		users:  make(map[string]*UserInfo),
		admins: make(map[string]bool),
	}
}

func (f *fakeUsers) add(id, username, password string) *UserInfo {
	hash, err := core.HashPassword(password)
	if err != nil {
		panic(err)
	}

	user := &UserInfo{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		TokenVersion: "epoch-0",
	}
	f.users[id] = user
	return user
}

func (f *fakeUsers) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) GetByUsername(
	_ context.Context,
	username string,
) (*UserInfo, error) {
	for _, user := range f.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeUsers) Create(
	_ context.Context,
	username, email, passwordHash string,
) (*UserInfo, error) {
	for _, user := range f.users {
		if user.Username == username {
			return nil, ErrUsernameExists
		}
		if user.Email == email {
			return nil, ErrEmailExists
		}
	}

	user := &UserInfo{
		ID:           fmt.Sprintf("user-%d", len(f.users)+1),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		TokenVersion: "epoch-0",
	}
	f.users[user.ID] = user
	copied := *user
	return &copied, nil
}

func (f *fakeUsers) BumpTokenVersion(
	_ context.Context,
	userID string,
) (string, error) {
	user, ok := f.users[userID]
	if !ok {
		return "", core.ErrNotFound
	}

	f.bumps++
	user.TokenVersion = fmt.Sprintf("epoch-%d", f.bumps)
	return user.TokenVersion, nil
}

func (f *fakeUsers) IsAdmin(_ context.Context, userID string) (bool, error) {
	return f.admins[userID], nil
}

func (f *fakeUsers) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	user, ok := f.users[userID]
	if !ok {
		return core.ErrNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeUsers) {
	t.Helper()

	manager := newTestJWTManager(t, 15*time.Minute)
	users := newFakeUsers()
	return NewService(manager, users), users
}

func TestLoginIssuesVerifiableSession(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if resp.Tokens.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", resp.Tokens.TokenType)
	}

	principal, err := svc.VerifySessionToken(ctx, resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifySessionToken(access) error = %v", err)
	}
	if principal.UserID != "alice-id" {
		t.Errorf("UserID = %q, want alice-id", principal.UserID)
	}

	if _, err := svc.VerifySessionToken(ctx, resp.Tokens.RefreshToken); err != nil {
		t.Fatalf("VerifySessionToken(refresh) error = %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "wrong password!",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, LoginRequest{
		Username: "nobody",
		Password: "whatever password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}
}

// A second login bumps the epoch, so tokens from the first session fail
// verification as revoked. Single-active-session model.
func TestLoginRevokesPriorSession(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	req := LoginRequest{Username: "alice", Password: "correct horse battery"}

	first, err := svc.Login(ctx, req)
	if err != nil {
		t.Fatalf("first Login() error = %v", err)
	}

	second, err := svc.Login(ctx, req)
	if err != nil {
		t.Fatalf("second Login() error = %v", err)
	}

	_, err = svc.VerifySessionToken(ctx, first.Tokens.AccessToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("first session token: error = %v, want ErrTokenRevoked", err)
	}

	if _, err := svc.VerifySessionToken(ctx, second.Tokens.AccessToken); err != nil {
		t.Fatalf("second session token: error = %v", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(ctx, "alice-id"); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	_, err = svc.VerifySessionToken(ctx, resp.Tokens.AccessToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("after logout: error = %v, want ErrTokenRevoked", err)
	}

	_, err = svc.VerifySessionToken(ctx, resp.Tokens.RefreshToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("refresh after logout: error = %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshPreservesEpoch(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	epochBefore := users.users["alice-id"].TokenVersion

	tokens, err := svc.Refresh(ctx, resp.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if got := users.users["alice-id"].TokenVersion; got != epochBefore {
		t.Fatalf("epoch changed by refresh: %q -> %q", epochBefore, got)
	}

	principal, err := svc.VerifySessionToken(ctx, tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifySessionToken(refreshed) error = %v", err)
	}
	if principal.Epoch != epochBefore {
		t.Errorf("refreshed epoch = %q, want %q", principal.Epoch, epochBefore)
	}

	if tokens.RefreshToken != "" {
		t.Errorf("Refresh() returned a new refresh token; want access only")
	}
}

func TestVerifyUnknownSubject(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	delete(users.users, "alice-id")

	_, err = svc.VerifySessionToken(ctx, resp.Tokens.AccessToken)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("deleted subject: error = %v, want ErrTokenInvalid", err)
	}
}

func TestRegisterIssuesSessionAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if _, err := svc.VerifySessionToken(ctx, resp.Tokens.AccessToken); err != nil {
		t.Fatalf("VerifySessionToken() error = %v", err)
	}

	_, err = svc.Register(ctx, RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "correct horse battery",
	})
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("duplicate username: error = %v, want ErrUsernameExists", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, users := newTestService(t)
	users.add("alice-id", "alice", "correct horse battery")
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	err = svc.ChangePassword(ctx, "alice-id", "wrong current", "new password 1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong current password: error = %v, want ErrInvalidCredentials", err)
	}

	err = svc.ChangePassword(
		ctx,
		"alice-id",
		"correct horse battery",
		"new password 1",
	)
	if err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}

	// Changing the password revokes every outstanding session.
	_, err = svc.VerifySessionToken(ctx, resp.Tokens.AccessToken)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("after password change: error = %v, want ErrTokenRevoked", err)
	}

	if _, err := svc.Login(ctx, LoginRequest{
		Username: "alice",
		Password: "new password 1",
	}); err != nil {
		t.Fatalf("login with new password: error = %v", err)
	}
}
