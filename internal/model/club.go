package model

import "time"

// Club is a recurring discussion group that meets at one café.  CafeID and
// OwnerID must reference existing rows.
type Club struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CafeID      string    `json:"cafeId"`
	OwnerID     string    `json:"ownerId"`
	ImageURL    *string   `json:"imageUrl"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ClubMember is the join row between a club and a user.  The pair
// (ClubID, UserID) is unique.
type ClubMember struct {
	ID       string    `json:"id"`
	ClubID   string    `json:"clubId"`
	UserID   string    `json:"userId"`
	JoinedAt time.Time `json:"joinedAt"`
}
