package service

import (
	"context"
	"errors"
	"testing"

	"github.com/slimsquad/api/internal/model"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockUserRepo struct {
	createFunc         func(ctx context.Context, user *model.User) error
	getByIDFunc        func(ctx context.Context, id string) (*model.User, error)
	getByEmailFunc     func(ctx context.Context, email string) (*model.User, error)
	updateFunc         func(ctx context.Context, user *model.User) error
	updatePasswordFunc func(ctx context.Context, userID, hash string) error
	recordLoginFunc    func(ctx context.Context, userID string) error
	deleteFunc         func(ctx context.Context, id string) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) UpdatePassword(ctx context.Context, userID, hash string) error {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, userID, hash)
	}
	return nil
}

func (m *mockUserRepo) RecordLogin(ctx context.Context, userID string) error {
	if m.recordLoginFunc != nil {
		return m.recordLoginFunc(ctx, userID)
	}
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ============================================================================
// Helper Functions
// ============================================================================

func newTestAuthService(t *testing.T, userRepo *mockUserRepo, tokenRepo *mockTokenRepo) *AuthService {
	t.Helper()
	if userRepo == nil {
		userRepo = &mockUserRepo{}
	}
	if tokenRepo == nil {
		tokenRepo = &mockTokenRepo{}
	}
	tokenService := NewTokenService(TokenServiceConfig{
		JWTService: createTestJWTService(t),
		TokenRepo:  tokenRepo,
	})
	return NewAuthService(AuthServiceConfig{
		UserRepo:     userRepo,
		TokenService: tokenService,
	})
}

// ============================================================================
// Register Tests
// ============================================================================

func TestRegister_Valid_CreatesUserAndTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:alice"
			created = user
			return nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	result, err := svc.Register(ctx, RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    "hunter2hunter2",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "alice@example.com" {
		t.Errorf("expected normalized email, got %q", created.Email)
	}
	if created.Hash == nil || *created.Hash == "hunter2hunter2" {
		t.Error("expected password to be hashed")
	}
	if result.TokenPair.AccessToken == "" {
		t.Error("expected access token")
	}
}

func TestRegister_NoDisplayName_DerivesFromEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *model.User
	userRepo := &mockUserRepo{
		createFunc: func(ctx context.Context, user *model.User) error {
			user.ID = "user:alice"
			created = user
			return nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	_, err := svc.Register(ctx, RegisterRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.DisplayName != "alice" {
		t.Errorf("expected display name 'alice', got %q", created.DisplayName)
	}
}

func TestRegister_InvalidEmail_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestAuthService(t, nil, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "hunter2hunter2"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Errorf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestRegister_ShortPassword_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestAuthService(t, nil, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "short"})
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegister_DuplicateEmail_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:alice", Email: email}, nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	_, err := svc.Register(ctx, RegisterRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if !errors.Is(err, ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

// ============================================================================
// Login Tests
// ============================================================================

func TestLogin_CorrectPassword_ReturnsTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := hashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	loginRecorded := false
	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:alice", Email: email, Hash: &hash}, nil
		},
		recordLoginFunc: func(ctx context.Context, userID string) error {
			loginRecorded = true
			return nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	result, err := svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TokenPair.RefreshToken == "" {
		t.Error("expected refresh token")
	}
	if !loginRecorded {
		t.Error("expected login timestamp to be recorded")
	}
}

func TestLogin_WrongPassword_ReturnsInvalidCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := hashPassword("hunter2hunter2")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	userRepo := &mockUserRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: "user:alice", Email: email, Hash: &hash}, nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	_, err = svc.Login(ctx, LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_ReturnsInvalidCredentials(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestAuthService(t, nil, nil)

	_, err := svc.Login(ctx, LoginRequest{Email: "ghost@example.com", Password: "whatever123"})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ============================================================================
// RefreshTokens Tests
// ============================================================================

func TestAuthRefreshTokens_UnknownToken_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestAuthService(t, nil, nil)

	_, err := svc.RefreshTokens(ctx, "no-such-token")
	if !errors.Is(err, ErrInvalidRefreshToken) {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

// ============================================================================
// Logout Tests
// ============================================================================

func TestLogout_WithToken_RevokesSingleToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	revokedHash := ""
	tokenRepo := &mockTokenRepo{
		revokeRefreshTokenFunc: func(ctx context.Context, hash string) error {
			revokedHash = hash
			return nil
		},
	}
	svc := newTestAuthService(t, nil, tokenRepo)

	if err := svc.Logout(ctx, "user:alice", "some-refresh-token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revokedHash != hashToken("some-refresh-token") {
		t.Error("expected the presented token to be revoked by hash")
	}
}

func TestLogout_WithoutToken_RevokesAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	revokedUser := ""
	tokenRepo := &mockTokenRepo{
		revokeAllUserTokensFunc: func(ctx context.Context, userID string) error {
			revokedUser = userID
			return nil
		},
	}
	svc := newTestAuthService(t, nil, tokenRepo)

	if err := svc.Logout(ctx, "user:alice", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if revokedUser != "user:alice" {
		t.Error("expected all tokens for the user to be revoked")
	}
}

// ============================================================================
// ChangePassword Tests
// ============================================================================

func TestChangePassword_WrongOldPassword_ReturnsError(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := hashPassword("old-password-1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Hash: &hash}, nil
		},
	}
	svc := newTestAuthService(t, userRepo, nil)

	err = svc.ChangePassword(ctx, "user:alice", "not-the-old-one", "new-password-1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword_Valid_RevokesAllTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hash, err := hashPassword("old-password-1")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	revoked := false
	userRepo := &mockUserRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Hash: &hash}, nil
		},
	}
	tokenRepo := &mockTokenRepo{
		revokeAllUserTokensFunc: func(ctx context.Context, userID string) error {
			revoked = true
			return nil
		},
	}
	svc := newTestAuthService(t, userRepo, tokenRepo)

	if err := svc.ChangePassword(ctx, "user:alice", "old-password-1", "new-password-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !revoked {
		t.Error("expected all refresh tokens to be revoked")
	}
}
