// Package auth manages admin accounts: password hashes and signed session
// tokens.
package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rust-in/site/internal/platform/id"
	"github.com/rust-in/site/internal/platform/requestctx"
	"github.com/rust-in/site/internal/services/site/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	// TokenTTL bounds the lifetime of an admin session token.
	TokenTTL = 7200 * time.Second
	// Issuer is the iss claim of session tokens.
	Issuer = "rustin-site"
	// MinPasswordLength is the shortest accepted admin password.
	MinPasswordLength = 8
	minSecretLength   = 32
)

var (
	// ErrInvalidCredentials hides whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInvalidToken reports a missing, forged or expired session token.
	ErrInvalidToken = errors.New("invalid session token")
)

// dummyHash keeps failed logins for unknown emails as slow as wrong passwords.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("rustin-dummy-password"), bcrypt.DefaultCost)

type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Service authenticates admins and signs their sessions.
type Service struct {
	users  storage.UserStore
	secret []byte
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds an auth service. secret signs HS256 tokens and must be
// at least 32 bytes.
func NewService(users storage.UserStore, secret []byte, logger *zap.Logger) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if len(secret) < minSecretLength {
		return nil, fmt.Errorf("session secret must be at least %d bytes", minSecretLength)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, secret: append([]byte(nil), secret...), logger: logger, now: time.Now}, nil
}

// RandomSecret returns a fresh signing secret for processes started without
// one. Sessions signed with it do not survive a restart.
func RandomSecret() ([]byte, error) {
	secret := make([]byte, minSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate session secret: %w", err)
	}
	return secret, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CreateUser registers an admin account.
func (s *Service) CreateUser(ctx context.Context, email, name, password string) (storage.User, error) {
	email = strings.TrimSpace(email)
	address, err := mail.ParseAddress(email)
	if err != nil || address.Address != email {
		return storage.User{}, fmt.Errorf("invalid email %q", email)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return storage.User{}, err
	}
	userID, err := id.NewID()
	if err != nil {
		return storage.User{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}
	user := storage.User{ID: userID, Email: email, Name: name, PasswordHash: hash, CreatedAt: s.now().UTC()}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return storage.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("admin user created", zap.String("user_id", user.ID))
	return user, nil
}

// Authenticate checks an email and password pair.
func (s *Service) Authenticate(ctx context.Context, email, password string) (storage.User, error) {
	user, err := s.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return storage.User{}, ErrInvalidCredentials
		}
		return storage.User{}, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("admin login rejected", zap.String("user_id", user.ID))
		return storage.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// IssueToken signs a session token for user and returns its expiry.
func (s *Service) IssueToken(user storage.User) (string, time.Time, error) {
	now := s.now().UTC()
	expires := now.Add(TokenTTL)
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Email: user.Email,
		Name:  user.Name,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return signed, expires, nil
}

// VerifyToken checks a session token signature and expiry.
func (s *Service) VerifyToken(token string) (requestctx.Principal, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return requestctx.Principal{}, ErrInvalidToken
	}
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.Subject == "" {
		return requestctx.Principal{}, ErrInvalidToken
	}
	return requestctx.Principal{ID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// Resolve verifies token and confirms the account still exists.
func (s *Service) Resolve(ctx context.Context, token string) (requestctx.Principal, error) {
	principal, err := s.VerifyToken(token)
	if err != nil {
		return requestctx.Principal{}, err
	}
	user, err := s.users.GetUser(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return requestctx.Principal{}, ErrInvalidToken
		}
		return requestctx.Principal{}, fmt.Errorf("load user: %w", err)
	}
	return requestctx.Principal{ID: user.ID, Email: user.Email, Name: user.Name}, nil
}
