// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/forum-system/forum-backend/internal/config"
	"github.com/forum-system/forum-backend/internal/core"
)

func testKeyPair(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("GenerateKeyPair() error = %v", err)
	}

	return privatePath, publicPath
}

func newTestJWTManager(
	t *testing.T,
	accessTTL time.Duration,
) *JWTManager {
	t.Helper()

	privatePath, publicPath := testKeyPair(t)
	return newManagerWithKeys(t, privatePath, publicPath, accessTTL, "forum-api")
}

func newManagerWithKeys(
	t *testing.T,
	privatePath, publicPath string,
	accessTTL time.Duration,
	issuer string,
) *JWTManager {
	t.Helper()

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessTTL,
		RefreshTokenExpire: 24 * time.Hour,
		Issuer:             issuer,
		Audience:           "forum-clients",
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	return manager
}

func TestIssueAndParseRoundTrip(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	claims := SessionClaims{
		UserID:  "user-1",
		Epoch:   "epoch-1",
		IsAdmin: true,
	}

	token, err := manager.IssueAccessToken(claims)
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	parsed, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if parsed.UserID != claims.UserID {
		t.Errorf("UserID = %q, want %q", parsed.UserID, claims.UserID)
	}
	if parsed.Epoch != claims.Epoch {
		t.Errorf("Epoch = %q, want %q", parsed.Epoch, claims.Epoch)
	}
	if parsed.IsAdmin != claims.IsAdmin {
		t.Errorf("IsAdmin = %v, want %v", parsed.IsAdmin, claims.IsAdmin)
	}
}

func TestParseExpiredToken(t *testing.T) {
	manager := newTestJWTManager(t, -time.Minute)

	token, err := manager.IssueAccessToken(SessionClaims{
		UserID: "user-1",
		Epoch:  "epoch-1",
	})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	_, err = manager.ParseToken(token)
	if !errors.Is(err, core.ErrTokenExpired) {
		t.Fatalf("ParseToken() error = %v, want ErrTokenExpired", err)
	}
}

func TestParseTamperedToken(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	token, err := manager.IssueAccessToken(SessionClaims{
		UserID: "user-1",
		Epoch:  "epoch-1",
	})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	tampered := token[:len(token)-4] + "AAAA"
	if _, err := manager.ParseToken(tampered); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("ParseToken(tampered) error = %v, want ErrTokenInvalid", err)
	}

	if _, err := manager.ParseToken("not-a-token"); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("ParseToken(garbage) error = %v, want ErrTokenInvalid", err)
	}
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	privatePath, publicPath := testKeyPair(t)

	issuing := newManagerWithKeys(
		t,
		privatePath,
		publicPath,
		15*time.Minute,
		"other-issuer",
	)
	verifying := newManagerWithKeys(
		t,
		privatePath,
		publicPath,
		15*time.Minute,
		"forum-api",
	)

	token, err := issuing.IssueAccessToken(SessionClaims{
		UserID: "user-1",
		Epoch:  "epoch-1",
	})
	if err != nil {
		t.Fatalf("IssueAccessToken() error = %v", err)
	}

	if _, err := verifying.ParseToken(token); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("ParseToken() error = %v, want ErrTokenInvalid", err)
	}
}

// Access and refresh tokens share claims and signing key; either parses
// through the same path. Only TTL separates them.
func TestRefreshTokenParsesLikeAccessToken(t *testing.T) {
	manager := newTestJWTManager(t, 15*time.Minute)

	refresh, err := manager.IssueRefreshToken(SessionClaims{
		UserID: "user-1",
		Epoch:  "epoch-1",
	})
	if err != nil {
		t.Fatalf("IssueRefreshToken() error = %v", err)
	}

	parsed, err := manager.ParseToken(refresh)
	if err != nil {
		t.Fatalf("ParseToken(refresh) error = %v", err)
	}
	if parsed.UserID != "user-1" {
		t.Errorf("UserID = %q, want user-1", parsed.UserID)
	}
}
