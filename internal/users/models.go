package users

import (
	"time"
)

type User struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Username      string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"` // hide in json
	Phone1        string    `json:"phone1" gorm:"size:10"`
	Phone2        string    `json:"phone2" gorm:"size:10"`
	Phone3        string    `json:"phone3" gorm:"size:10"`
	PostalCode    string    `json:"postal_code" gorm:"size:10"`
	Address       string    `json:"address" gorm:"size:255"`
	DetailAddress string    `json:"detail_address" gorm:"size:255"`
	IsActive      bool      `json:"is_active" gorm:"not null;default:true"`
	IsAdmin       bool      `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
