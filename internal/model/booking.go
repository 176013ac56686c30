package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatusConfirmed is the status every new booking is created with.
const BookingStatusConfirmed = "confirmed"

// Booking is a confirmed reservation against one slot. The financial
// fields are a snapshot taken at booking time and are never recomputed.
type Booking struct {
	ID               uuid.UUID `json:"id"`
	ExperienceID     uuid.UUID `json:"experienceId"`
	SlotID           uuid.UUID `json:"slotId"`
	FullName         string    `json:"fullName"`
	Email            string    `json:"email"`
	Quantity         int       `json:"quantity"`
	Subtotal         int64     `json:"subtotal"`
	Discount         int64     `json:"discount"`
	Taxes            int64     `json:"taxes"`
	Total            int64     `json:"total"`
	BookingReference string    `json:"bookingReference"`
	PromoCode        *string   `json:"promoCode"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateBookingRequest is the DTO for POST /api/bookings.
// Quantity is optional and defaults to 1.
type CreateBookingRequest struct {
	ExperienceID string  `json:"experienceId" validate:"required,uuid"`
	SlotID       string  `json:"slotId" validate:"required,uuid"`
	FullName     string  `json:"fullName" validate:"required,notblank,max=255"`
	Email        string  `json:"email" validate:"required,email,max=255"`
	PromoCode    *string `json:"promoCode" validate:"omitempty,max=64"`
	Quantity     *int    `json:"quantity" validate:"omitempty,gte=1"`
}

// CreateBookingResponse is the 201 body for POST /api/bookings.
type CreateBookingResponse struct {
	Success bool     `json:"success"`
	Booking *Booking `json:"booking"`
	Message string   `json:"message"`
}
