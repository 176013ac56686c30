package model

import (
	"time"

	"github.com/google/uuid"
)

// Experience is a bookable activity with a fixed per-person price.
// Price is in the smallest currency unit.
type Experience struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	About       string    `json:"about,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExperienceDetail is the API response for GET /api/experiences/:id.
type ExperienceDetail struct {
	Experience
	Slots []Slot `json:"slots"`
}
