package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
)

// BookingServiceInterface defines the interface for booking business logic.
type BookingServiceInterface interface {
	CreateBooking(ctx context.Context, in service.CreateBookingInput) (*model.Booking, error)
	GetBooking(ctx context.Context, reference string) (*model.Booking, error)
}

// BookingHandler handles HTTP requests for booking operations.
type BookingHandler struct {
	service   BookingServiceInterface
	validator *validator.Validate
}

// NewBookingHandler creates a new BookingHandler with the given service and validator.
func NewBookingHandler(svc BookingServiceInterface, v *validator.Validate) *BookingHandler {
	return &BookingHandler{service: svc, validator: v}
}

// CreateBooking handles POST /api/bookings requests.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	var req model.CreateBookingRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body", "kind": "invalid_input"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": formatValidationError(err), "kind": "invalid_input"})
	}

	experienceID, err := uuid.Parse(req.ExperienceID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: experienceId must be a valid id", "kind": "invalid_input"})
	}
	slotID, err := uuid.Parse(req.SlotID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: slotId must be a valid id", "kind": "invalid_input"})
	}

	in := service.CreateBookingInput{
		ExperienceID: experienceID,
		SlotID:       slotID,
		FullName:     req.FullName,
		Email:        req.Email,
		Quantity:     1,
	}
	if req.Quantity != nil {
		in.Quantity = *req.Quantity
	}
	if req.PromoCode != nil {
		in.PromoCode = *req.PromoCode
	}

	booking, err := h.service.CreateBooking(c.Context(), in)
	if err != nil {
		event := log.Warn()
		if errors.Is(err, service.ErrPersistence) || errors.Is(err, service.ErrReferenceCollision) {
			event = log.Error()
		}
		event.
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("experience_id", req.ExperienceID).
			Str("slot_id", req.SlotID).
			Int("quantity", in.Quantity).
			Msg("failed to create booking")
		return errorResponse(c, err)
	}

	log.Info().
		Str("request_id", c.GetRespHeader("X-Request-ID")).
		Str("booking_reference", booking.BookingReference).
		Str("slot_id", req.SlotID).
		Int("quantity", booking.Quantity).
		Int64("total", booking.Total).
		Msg("booking created")

	return c.Status(fiber.StatusCreated).JSON(model.CreateBookingResponse{
		Success: true,
		Booking: booking,
		Message: "Booking created successfully",
	})
}

// GetBooking handles GET /api/bookings/:reference requests.
func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	reference := c.Params("reference")
	if reference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request: reference is required", "kind": "invalid_input"})
	}

	booking, err := h.service.GetBooking(c.Context(), reference)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error().Err(err).Str("booking_reference", reference).Msg("failed to get booking")
		}
		return errorResponse(c, err)
	}

	return c.JSON(booking)
}
