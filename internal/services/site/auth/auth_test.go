package auth

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rust-in/site/internal/services/site/storage"
)

type memoryUsers struct {
	storage.UserStore
	byID map[string]storage.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: map[string]storage.User{}}
}

func (m *memoryUsers) CreateUser(_ context.Context, user storage.User) error {
	for _, existing := range m.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return storage.ErrAlreadyExists
		}
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) GetUser(_ context.Context, id string) (storage.User, error) {
	user, ok := m.byID[id]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return user, nil
}

func (m *memoryUsers) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	for _, user := range m.byID {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return storage.User{}, storage.ErrNotFound
}

var testSecret = bytes.Repeat([]byte("k"), 32)

func newTestService(t *testing.T) (*Service, *memoryUsers) {
	t.Helper()
	users := newMemoryUsers()
	service, err := NewService(users, testSecret, nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return service, users
}

func TestNewServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewService(newMemoryUsers(), []byte("short"), nil); err == nil {
		t.Fatal("expected short secret error")
	}
	secret, err := RandomSecret()
	if err != nil || len(secret) != 32 {
		t.Fatalf("RandomSecret() = %d bytes, %v", len(secret), err)
	}
}

func TestHashPassword(t *testing.T) {
	t.Parallel()

	if _, err := HashPassword("court"); err == nil {
		t.Fatal("expected short password error")
	}
	hash, err := HashPassword("velo-rouge-42")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "velo-rouge-42" || !strings.HasPrefix(hash, "$2") {
		t.Fatalf("hash = %q, want bcrypt hash", hash)
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	ctx := context.Background()
	created, err := service.CreateUser(ctx, "admin@rust-in.fr", "Atelier", "velo-rouge-42")
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}

	got, err := service.Authenticate(ctx, " admin@rust-in.fr ", "velo-rouge-42")
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if got.ID != created.ID {
		t.Fatalf("user id = %q, want %q", got.ID, created.ID)
	}
	if _, err := service.Authenticate(ctx, "admin@rust-in.fr", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := service.Authenticate(ctx, "nobody@rust-in.fr", "velo-rouge-42"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, err := service.CreateUser(ctx, "not an email", "", "velo-rouge-42"); err == nil {
		t.Fatal("expected invalid email error")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	service, users := newTestService(t)
	now := time.Date(2026, time.June, 1, 8, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	user := storage.User{ID: "u1", Email: "admin@rust-in.fr", Name: "Atelier", PasswordHash: "x"}
	users.byID[user.ID] = user

	token, expires, err := service.IssueToken(user)
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if !expires.Equal(now.Add(TokenTTL)) {
		t.Fatalf("expires = %v, want %v", expires, now.Add(TokenTTL))
	}
	principal, err := service.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if principal.ID != "u1" || principal.Email != user.Email || principal.Name != user.Name {
		t.Fatalf("principal = %+v, want u1", principal)
	}

	now = now.Add(TokenTTL + time.Second)
	if _, err := service.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired token error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestVerifyTokenRejectsForgery(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	other, err := NewService(newMemoryUsers(), bytes.Repeat([]byte("x"), 32), nil)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	token, _, err := other.IssueToken(storage.User{ID: "u1"})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if _, err := service.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("forged token error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := service.VerifyToken(""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("empty token error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestResolveRejectsDeletedUser(t *testing.T) {
	t.Parallel()

	service, _ := newTestService(t)
	token, _, err := service.IssueToken(storage.User{ID: "gone"})
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	if _, err := service.Resolve(context.Background(), token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Resolve() error = %v, want %v", err, ErrInvalidToken)
	}
}
