package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"bookmate/internal/shared/config"
	"bookmate/internal/shared/middleware"
	"bookmate/internal/users"
)

var (
	ErrUserAlreadyExists   = errors.New("email or username already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is inactive")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

const tokenIssuer = "bookmate"

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*UserProfile, error)
	Login(ctx context.Context, req LoginRequest) (*TokenPairResponse, error)
	// Refresh rotates the presented refresh token: the old row is revoked
	// and a fresh pair issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error)
	// Logout revokes the presented refresh token. Unknown tokens are a
	// no-op so logout stays idempotent.
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID int64) (*UserProfile, error)
	UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserProfile, error)
}

type service struct {
	repo Repository
	cfg  config.AuthConfig
}

func NewService(repo Repository, cfg config.AuthConfig) Service {
	return &service{repo: repo, cfg: cfg}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*UserProfile, error) {
	taken, err := s.repo.CredentialsTaken(ctx, req.Email, req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		Email:         req.Email,
		Username:      req.Username,
		PasswordHash:  hash,
		Phone1:        req.Phone1,
		Phone2:        req.Phone2,
		Phone3:        req.Phone3,
		PostalCode:    req.PostalCode,
		Address:       req.Address,
		DetailAddress: req.DetailAddress,
		IsActive:      true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	profile := profileFromUser(user)
	return &profile, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*TokenPairResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil || !verifyPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return s.issueTokenPair(ctx, user)
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (*TokenPairResponse, error) {
	row, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if row == nil || row.IsRevoked || time.Now().After(row.ExpiresAt) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.repo.GetUserByID(ctx, row.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidRefreshToken
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if err := s.repo.RevokeRefreshToken(ctx, row.ID); err != nil {
		return nil, err
	}
	return s.issueTokenPair(ctx, user)
}

func (s *service) Logout(ctx context.Context, refreshToken string) error {
	row, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}
	if row == nil || row.IsRevoked {
		return nil
	}
	return s.repo.RevokeRefreshToken(ctx, row.ID)
}

func (s *service) Me(ctx context.Context, userID int64) (*UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	profile := profileFromUser(user)
	return &profile, nil
}

func (s *service) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.repo.UsernameTaken(ctx, *req.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrUserAlreadyExists
		}
		user.Username = *req.Username
	}
	if req.Phone1 != nil {
		user.Phone1 = *req.Phone1
	}
	if req.Phone2 != nil {
		user.Phone2 = *req.Phone2
	}
	if req.Phone3 != nil {
		user.Phone3 = *req.Phone3
	}
	if req.PostalCode != nil {
		user.PostalCode = *req.PostalCode
	}
	if req.Address != nil {
		user.Address = *req.Address
	}
	if req.DetailAddress != nil {
		user.DetailAddress = *req.DetailAddress
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	profile := profileFromUser(user)
	return &profile, nil
}

func (s *service) issueTokenPair(ctx context.Context, user *users.User) (*TokenPairResponse, error) {
	now := time.Now()

	claims := middleware.AccessClaims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Type:    "access",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTokenExpire)),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := mintRefreshToken()
	if err != nil {
		return nil, err
	}
	row := &RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: now.Add(s.cfg.RefreshTokenExpire),
	}
	if err := s.repo.CreateRefreshToken(ctx, row); err != nil {
		return nil, err
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.AccessTokenExpire.Seconds()),
	}, nil
}

// HashPassword hashes a password for storage. The SHA-256 pre-hash keeps
// long passphrases inside bcrypt's 72 byte input limit.
func HashPassword(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(sum[:])), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func verifyPassword(hash, password string) bool {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(sum[:]))) == nil
}

// mintRefreshToken returns a 256 bit random token, URL-safe base64 encoded.
func mintRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to mint refresh token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
