package model

import (
	"time"

	"github.com/google/uuid"
)

// Slot is a dated instance of an Experience with limited capacity.
// 0 <= AvailableSpots <= TotalSpots always holds.
type Slot struct {
	ID             uuid.UUID `json:"id"`
	ExperienceID   uuid.UUID `json:"experienceId"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
	TotalSpots     int       `json:"totalSpots"`
	AvailableSpots int       `json:"availableSpots"`
	CreatedAt      time.Time `json:"-"`
}
