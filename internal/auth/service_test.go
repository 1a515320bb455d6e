package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"bookmate/internal/shared/config"
	"bookmate/internal/users"
)

type MockAuthRepository struct {
	mock.Mock
}

func (m *MockAuthRepository) CreateUser(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthRepository) GetUserByEmail(ctx context.Context, email string) (*users.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAuthRepository) GetUserByID(ctx context.Context, id int64) (*users.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*users.User), args.Error(1)
}

func (m *MockAuthRepository) UpdateUser(ctx context.Context, user *users.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAuthRepository) CredentialsTaken(ctx context.Context, email, username string) (bool, error) {
	args := m.Called(ctx, email, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepository) UsernameTaken(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	args := m.Called(ctx, username, excludeUserID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAuthRepository) CreateRefreshToken(ctx context.Context, token *RefreshToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockAuthRepository) GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshToken), args.Error(1)
}

func (m *MockAuthRepository) RevokeRefreshToken(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpire:  30 * time.Minute,
		RefreshTokenExpire: 7 * 24 * time.Hour,
	}
}

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)

	assert.True(t, verifyPassword(hash, "correct horse battery staple"))
	assert.False(t, verifyPassword(hash, "wrong password"))
}

func TestHashPassword_LongPassphrase(t *testing.T) {
	// bcrypt truncates input past 72 bytes; the pre-hash keeps passphrases
	// longer than that distinguishable.
	long := strings.Repeat("a", 80)
	hash, err := HashPassword(long)
	assert.NoError(t, err)

	assert.True(t, verifyPassword(hash, long))
	assert.False(t, verifyPassword(hash, strings.Repeat("a", 81)))
}

func TestRegister_DuplicateRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("CredentialsTaken", mock.Anything, "dup@example.com", "dup").Return(true, nil)

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "dup@example.com",
		Username: "dup",
		Password: "password123",
	})

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegister_StoresHashedPassword(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("CredentialsTaken", mock.Anything, "new@example.com", "newbie").Return(false, nil)
	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
		return u.Email == "new@example.com" &&
			u.IsActive &&
			u.PasswordHash != "" &&
			u.PasswordHash != "password123"
	})).Return(nil)

	profile, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "new@example.com",
		Username: "newbie",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)
	repo.AssertExpectations(t)
}

func TestLogin_WrongPasswordRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	hash, err := HashPassword("the-real-password")
	assert.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&users.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}, nil)

	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "guess",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownEmailRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)

	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InactiveUserRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	hash, err := HashPassword("password123")
	assert.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "banned@example.com").Return(&users.User{
		ID:           2,
		Email:        "banned@example.com",
		PasswordHash: hash,
		IsActive:     false,
	}, nil)

	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "banned@example.com",
		Password: "password123",
	})

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrUserInactive)
	repo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestLogin_IssuesBearerPair(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	hash, err := HashPassword("password123")
	assert.NoError(t, err)

	repo.On("GetUserByEmail", mock.Anything, "user@example.com").Return(&users.User{
		ID:           1,
		Email:        "user@example.com",
		PasswordHash: hash,
		IsActive:     true,
	}, nil)
	repo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*auth.RefreshToken")).Return(nil)

	pair, err := svc.Login(context.Background(), LoginRequest{
		Email:    "user@example.com",
		Password: "password123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.Equal(t, int64(1800), pair.ExpiresIn)
}

func TestRefresh_RotatesToken(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "old-token").Return(&RefreshToken{
		ID:        10,
		UserID:    1,
		Token:     "old-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	repo.On("GetUserByID", mock.Anything, int64(1)).Return(&users.User{
		ID:       1,
		Email:    "user@example.com",
		IsActive: true,
	}, nil)
	repo.On("RevokeRefreshToken", mock.Anything, int64(10)).Return(nil)
	repo.On("CreateRefreshToken", mock.Anything, mock.AnythingOfType("*auth.RefreshToken")).Return(nil)

	pair, err := svc.Refresh(context.Background(), "old-token")

	assert.NoError(t, err)
	assert.NotEqual(t, "old-token", pair.RefreshToken)
	repo.AssertCalled(t, "RevokeRefreshToken", mock.Anything, int64(10))
}

func TestRefresh_RevokedTokenRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "revoked-token").Return(&RefreshToken{
		ID:        11,
		UserID:    1,
		Token:     "revoked-token",
		ExpiresAt: time.Now().Add(time.Hour),
		IsRevoked: true,
	}, nil)

	pair, err := svc.Refresh(context.Background(), "revoked-token")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	repo.AssertNotCalled(t, "CreateRefreshToken", mock.Anything, mock.Anything)
}

func TestRefresh_ExpiredTokenRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "stale-token").Return(&RefreshToken{
		ID:        12,
		UserID:    1,
		Token:     "stale-token",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	pair, err := svc.Refresh(context.Background(), "stale-token")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefresh_UnknownTokenRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "never-issued").Return(nil, nil)

	pair, err := svc.Refresh(context.Background(), "never-issued")

	assert.Nil(t, pair)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestLogout_UnknownTokenIsNoop(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "never-issued").Return(nil, nil)

	err := svc.Logout(context.Background(), "never-issued")

	assert.NoError(t, err)
	repo.AssertNotCalled(t, "RevokeRefreshToken", mock.Anything, mock.Anything)
}

func TestLogout_RevokesKnownToken(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetRefreshToken", mock.Anything, "live-token").Return(&RefreshToken{
		ID:        20,
		UserID:    1,
		Token:     "live-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)
	repo.On("RevokeRefreshToken", mock.Anything, int64(20)).Return(nil)

	err := svc.Logout(context.Background(), "live-token")

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateMe_EmailStaysImmutable(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetUserByID", mock.Anything, int64(1)).Return(&users.User{
		ID:       1,
		Email:    "fixed@example.com",
		Username: "original",
		IsActive: true,
	}, nil)
	newName := "renamed"
	repo.On("UsernameTaken", mock.Anything, "renamed", int64(1)).Return(false, nil)
	repo.On("UpdateUser", mock.Anything, mock.MatchedBy(func(u *users.User) bool {
		return u.Username == "renamed" && u.Email == "fixed@example.com"
	})).Return(nil)

	profile, err := svc.UpdateMe(context.Background(), 1, UpdateMeRequest{Username: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "renamed", profile.Username)
	assert.Equal(t, "fixed@example.com", profile.Email)
}

func TestUpdateMe_TakenUsernameRejected(t *testing.T) {
	repo := new(MockAuthRepository)
	svc := NewService(repo, testAuthConfig())

	repo.On("GetUserByID", mock.Anything, int64(1)).Return(&users.User{
		ID:       1,
		Email:    "user@example.com",
		Username: "original",
	}, nil)
	wanted := "someone-else"
	repo.On("UsernameTaken", mock.Anything, "someone-else", int64(1)).Return(true, nil)

	profile, err := svc.UpdateMe(context.Background(), 1, UpdateMeRequest{Username: &wanted})

	assert.Nil(t, profile)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	repo.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}
