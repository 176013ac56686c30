package handler

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/experience-booking/internal/model"
	"github.com/fairyhunter13/experience-booking/internal/service"
)

// CatalogServiceInterface defines the read side of the catalog.
type CatalogServiceInterface interface {
	ListExperiences(ctx context.Context, search string) ([]model.Experience, error)
	GetExperience(ctx context.Context, id uuid.UUID) (*model.ExperienceDetail, error)
}

// ExperienceHandler serves experience listings and details.
type ExperienceHandler struct {
	service CatalogServiceInterface
}

// NewExperienceHandler creates a new ExperienceHandler.
func NewExperienceHandler(svc CatalogServiceInterface) *ExperienceHandler {
	return &ExperienceHandler{service: svc}
}

// ListExperiences handles GET /api/experiences?search=.
func (h *ExperienceHandler) ListExperiences(c *fiber.Ctx) error {
	experiences, err := h.service.ListExperiences(c.Context(), c.Query("search"))
	if err != nil {
		log.Error().Err(err).Str("search", c.Query("search")).Msg("failed to list experiences")
		return errorResponse(c, err)
	}
	return c.JSON(experiences)
}

// GetExperience handles GET /api/experiences/:id.
func (h *ExperienceHandler) GetExperience(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		// A malformed id can never match a record.
		return errorResponse(c, service.ErrExperienceNotFound)
	}

	detail, err := h.service.GetExperience(c.Context(), id)
	if err != nil {
		if !errors.Is(err, service.ErrNotFound) {
			log.Error().Err(err).Str("experience_id", id.String()).Msg("failed to get experience")
		}
		return errorResponse(c, err)
	}
	return c.JSON(detail)
}
