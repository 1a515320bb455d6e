package banners

import "time"

// Banner is a promotional slot on the landing page. The display window is
// optional on both ends; a NULL bound leaves that side open.
type Banner struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string     `json:"title" gorm:"not null;size:255"`
	ImageURL    string     `json:"image_url" gorm:"not null;size:500"`
	LinkURL     *string    `json:"link_url,omitempty" gorm:"size:500"`
	EventID     *int64     `json:"event_id,omitempty" gorm:"index"`
	StartsAt    *time.Time `json:"starts_at,omitempty"`
	EndsAt      *time.Time `json:"ends_at,omitempty"`
	BannerOrder int        `json:"banner_order" gorm:"not null;default:0"`
	IsActive    bool       `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Banner) TableName() string {
	return "banners"
}

type CreateBannerRequest struct {
	Title       string     `json:"title" binding:"required,min=1,max=255"`
	ImageURL    string     `json:"image_url" binding:"required,url"`
	LinkURL     *string    `json:"link_url" binding:"omitempty,url"`
	EventID     *int64     `json:"event_id"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	BannerOrder int        `json:"banner_order" binding:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active"`
}

type UpdateBannerRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	ImageURL    *string    `json:"image_url" binding:"omitempty,url"`
	LinkURL     *string    `json:"link_url" binding:"omitempty,url"`
	EventID     *int64     `json:"event_id"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	BannerOrder *int       `json:"banner_order" binding:"omitempty,min=0"`
	IsActive    *bool      `json:"is_active"`
}
