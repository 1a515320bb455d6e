package venues

import (
	"time"
)

type Venue struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	Address   string    `json:"address" gorm:"size:500"`
	SeatMap   string    `json:"seat_map" gorm:"type:jsonb"` // seat-map document, see SeatMapDoc
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SeatMapDoc is the JSON document stored in Venue.SeatMap.
type SeatMapDoc struct {
	Sections    []SeatMapSection `json:"sections"`
	SeatsPerRow int              `json:"seats_per_row"`
}

type SeatMapSection struct {
	Name string `json:"name"`
}

type VenueResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	SeatMap   string    `json:"seat_map"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateVenueRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Address string `json:"address" binding:"max=500"`
	SeatMap string `json:"seat_map" binding:"omitempty,json"`
}

// ToResponse converts a Venue to its API shape
func (v *Venue) ToResponse() VenueResponse {
	return VenueResponse{
		ID:        v.ID,
		Name:      v.Name,
		Address:   v.Address,
		SeatMap:   v.SeatMap,
		CreatedAt: v.CreatedAt,
	}
}

// TableName specifies the table name for GORM
func (Venue) TableName() string {
	return "venues"
}
