package model

import "time"

// Tehran's municipal districts are numbered 1 through 22.
const (
	MinDistrict = 1
	MaxDistrict = 22
)

// Cafe is a partner venue that hosts clubs and events.
type Cafe struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	District    int       `json:"district"`
	Address     string    `json:"address"`
	Phone       *string   `json:"phone"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	OwnerID     *string   `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ValidDistrict reports whether d is a Tehran district number.
func ValidDistrict(d int) bool { return d >= MinDistrict && d <= MaxDistrict }
