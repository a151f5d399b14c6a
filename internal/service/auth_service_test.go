package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"adboard/api/internal/config"
	"adboard/api/internal/models"
	"adboard/api/internal/repository"
	"adboard/api/internal/security"
)

type fakeSessionStore struct {
	sessions map[int64]models.Session
	nextID   int64
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]models.Session), nextID: 1}
}

func (s *fakeSessionStore) Create(ctx context.Context, session *models.Session) error {
	session.ID = s.nextID
	s.nextID++
	s.sessions[session.ID] = *session
	return nil
}

func (s *fakeSessionStore) GetByID(ctx context.Context, id int64) (models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, repository.ErrSessionNotFound
	}
	return session, nil
}

func (s *fakeSessionStore) FindByRefreshHash(ctx context.Context, userID int64, refreshHash []byte) (models.Session, error) {
	for _, session := range s.sessions {
		if session.UserID == userID && string(session.RefreshTokenHash) == string(refreshHash) {
			return session, nil
		}
	}
	return models.Session{}, repository.ErrSessionNotFound
}

func (s *fakeSessionStore) UpdateRefreshHash(ctx context.Context, id int64, refreshHash []byte, expiresAt time.Time) error {
	session, ok := s.sessions[id]
	if !ok {
		return repository.ErrSessionNotFound
	}
	session.RefreshTokenHash = refreshHash
	session.ExpiresAt = expiresAt
	s.sessions[id] = session
	return nil
}

func (s *fakeSessionStore) DeleteByID(ctx context.Context, id int64) error {
	delete(s.sessions, id)
	return nil
}

func testAuthConfig() *config.AppConfig {
	cfg := &config.AppConfig{}
	cfg.Security.JWTSecret = "test-secret"
	cfg.Security.JWTAccessTTL = 15 * time.Minute
	cfg.Security.JWTRefreshTTL = 24 * time.Hour
	return cfg
}

func newAuthFixture() (*AuthService, *fakeUserStore, *fakeSessionStore) {
	users := newFakeUserStore()
	sessions := newFakeSessionStore()
	return NewAuthService(users, sessions, testAuthConfig(), zerolog.Nop()), users, sessions
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterInput{
		Email:    "Buyer@Example.com",
		Password: "hunter2hunter2",
	}, "127.0.0.1", "test-agent")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Email != "buyer@example.com" {
		t.Fatalf("email not normalized: %q", result.User.Email)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	claims, err := security.ParseAccessToken(result.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Fatalf("claims uid %d, want %d", claims.UserID, result.User.ID)
	}

	login, err := svc.Login(ctx, LoginInput{Email: "buyer@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Fatalf("login user %d, want %d", login.User.ID, result.User.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Email: "A@B.C", Password: "password2"}, "", ""); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "", ""); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, LoginInput{Email: "a@b.c", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, LoginInput{Email: "nobody@b.c", Password: "password1"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, sessions := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, RefreshInput{UserID: registered.User.ID, RefreshToken: registered.RefreshToken})
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Fatal("refresh token should rotate")
	}

	// The old token is dead after rotation.
	if _, err := svc.Refresh(ctx, RefreshInput{UserID: registered.User.ID, RefreshToken: registered.RefreshToken}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for stale token, got %v", err)
	}

	// The new one still works.
	if _, err := svc.Refresh(ctx, RefreshInput{UserID: registered.User.ID, RefreshToken: refreshed.RefreshToken}); err != nil {
		t.Fatalf("Refresh with rotated token: %v", err)
	}

	if len(sessions.sessions) != 1 {
		t.Fatalf("expected single session, got %d", len(sessions.sessions))
	}
}

func TestRefreshExpiredSession(t *testing.T) {
	svc, _, sessions := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	for id, session := range sessions.sessions {
		session.ExpiresAt = time.Now().Add(-time.Hour)
		sessions.sessions[id] = session
	}

	if _, err := svc.Refresh(ctx, RefreshInput{UserID: registered.User.ID, RefreshToken: registered.RefreshToken}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("expired session should be deleted")
	}
}

func TestLogoutDeletesSession(t *testing.T) {
	svc, _, sessions := newAuthFixture()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Email: "a@b.c", Password: "password1"}, "", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := security.ParseAccessToken(registered.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if err := svc.Logout(ctx, claims.SessionID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if len(sessions.sessions) != 0 {
		t.Fatal("session should be gone after logout")
	}
}
