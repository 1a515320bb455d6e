package auth

import (
	"time"

	"bookmate/internal/users"
)

// RefreshToken is a persisted opaque refresh credential. Refresh rotates it:
// the presented row is revoked and a replacement inserted.
type RefreshToken struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64     `json:"user_id" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:128;not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	IsRevoked bool      `json:"is_revoked" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

type RegisterRequest struct {
	Email         string `json:"email" binding:"required,email,max=255"`
	Username      string `json:"username" binding:"required,min=2,max=50"`
	Password      string `json:"password" binding:"required,min=8,max=128"`
	Phone1        string `json:"phone1" binding:"omitempty,max=10"`
	Phone2        string `json:"phone2" binding:"omitempty,max=10"`
	Phone3        string `json:"phone3" binding:"omitempty,max=10"`
	PostalCode    string `json:"postal_code" binding:"omitempty,max=10"`
	Address       string `json:"address" binding:"omitempty,max=255"`
	DetailAddress string `json:"detail_address" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateMeRequest updates profile fields. Email is immutable.
type UpdateMeRequest struct {
	Username      *string `json:"username" binding:"omitempty,min=2,max=50"`
	Phone1        *string `json:"phone1" binding:"omitempty,max=10"`
	Phone2        *string `json:"phone2" binding:"omitempty,max=10"`
	Phone3        *string `json:"phone3" binding:"omitempty,max=10"`
	PostalCode    *string `json:"postal_code" binding:"omitempty,max=10"`
	Address       *string `json:"address" binding:"omitempty,max=255"`
	DetailAddress *string `json:"detail_address" binding:"omitempty,max=255"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserProfile struct {
	ID            int64     `json:"id"`
	Email         string    `json:"email"`
	Username      string    `json:"username"`
	Phone1        string    `json:"phone1,omitempty"`
	Phone2        string    `json:"phone2,omitempty"`
	Phone3        string    `json:"phone3,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Address       string    `json:"address,omitempty"`
	DetailAddress string    `json:"detail_address,omitempty"`
	IsAdmin       bool      `json:"is_admin"`
	CreatedAt     time.Time `json:"created_at"`
}

func profileFromUser(u *users.User) UserProfile {
	return UserProfile{
		ID:            u.ID,
		Email:         u.Email,
		Username:      u.Username,
		Phone1:        u.Phone1,
		Phone2:        u.Phone2,
		Phone3:        u.Phone3,
		PostalCode:    u.PostalCode,
		Address:       u.Address,
		DetailAddress: u.DetailAddress,
		IsAdmin:       u.IsAdmin,
		CreatedAt:     u.CreatedAt,
	}
}
