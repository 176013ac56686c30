package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/fairyhunter13/experience-booking/internal/service"
)

// jsonFieldNames maps struct field names to the names clients send.
var jsonFieldNames = map[string]string{
	"ExperienceID": "experienceId",
	"SlotID":       "slotId",
	"FullName":     "fullName",
	"Email":        "email",
	"PromoCode":    "promoCode",
	"Quantity":     "quantity",
	"Code":         "code",
	"Amount":       "amount",
}

// formatValidationError converts the first validator error into a client message.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return "invalid request"
	}

	fe := ve[0]
	field, ok := jsonFieldNames[fe.Field()]
	if !ok {
		field = fe.Field()
	}

	switch fe.Tag() {
	case "required":
		return "invalid request: " + field + " is required"
	case "notblank":
		return "invalid request: " + field + " cannot be whitespace only"
	case "email":
		return "invalid request: " + field + " must be a valid email address"
	case "uuid":
		return "invalid request: " + field + " must be a valid id"
	case "gte":
		return "invalid request: " + field + " must be at least " + fe.Param()
	case "max":
		return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
	default:
		return "invalid request: " + field + " is invalid"
	}
}

// errorResponse writes err as a structured error body. Only input errors
// carry their own text; everything else gets a fixed message.
func errorResponse(c *fiber.Ctx, err error) error {
	status, message := fiber.StatusInternalServerError, "internal server error"

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInsufficientCapacity):
		status, message = fiber.StatusBadRequest, "not enough spots available"
	case errors.Is(err, service.ErrExperienceNotFound):
		status, message = fiber.StatusNotFound, "experience not found"
	case errors.Is(err, service.ErrSlotNotFound):
		status, message = fiber.StatusNotFound, "slot not found"
	case errors.Is(err, service.ErrBookingNotFound):
		status, message = fiber.StatusNotFound, "booking not found"
	case errors.Is(err, service.ErrReferenceCollision):
		message = "could not allocate a booking reference, please retry"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"kind":  service.ErrorKind(err),
	})
}
