package handler

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
)

// PromoServiceInterface defines the interface for promo validation.
type PromoServiceInterface interface {
	ValidatePromo(ctx context.Context, code string, amount int64) (*model.ValidatePromoResponse, error)
}

// PromoHandler handles HTTP requests for promo codes.
type PromoHandler struct {
	service   PromoServiceInterface
	validator *validator.Validate
}

// NewPromoHandler creates a new PromoHandler with the given service and validator.
func NewPromoHandler(svc PromoServiceInterface, v *validator.Validate) *PromoHandler {
	return &PromoHandler{service: svc, validator: v}
}

// ValidatePromo handles POST /api/promo/validate requests.
// Unknown or inactive codes are reported with 404 and valid=false.
func (h *PromoHandler) ValidatePromo(c *fiber.Ctx) error {
	var req model.ValidatePromoRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false, "error": "invalid request body"})
	}

	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false, "error": formatValidationError(err)})
	}

	resp, err := h.service.ValidatePromo(c.Context(), req.Code, *req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPromoNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"valid": false, "error": "Invalid or expired promo code"})
		case errors.Is(err, service.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"valid": false, "error": "invalid request"})
		}
		log.Error().
			Err(err).
			Str("request_id", c.GetRespHeader("X-Request-ID")).
			Str("promo_code", req.Code).
			Msg("failed to validate promo code")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"valid": false, "error": "internal server error"})
	}

	return c.JSON(resp)
}
